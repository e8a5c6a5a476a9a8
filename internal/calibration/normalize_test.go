package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_LowercasesAndStripsPunctuation(t *testing.T) {
	assert.Equal(t, "payment gateway", Normalize("Payment-Gateway!"))
	assert.Equal(t, "order tracking", Normalize("  Order   Tracking  "))
}

func TestNormalize_RemovesStopwords(t *testing.T) {
	assert.Equal(t, "authentication", Normalize("User Authentication"))
	assert.Equal(t, "inventory", Normalize("Inventory Management System"))
	assert.Equal(t, "reporting analytics", Normalize("Reporting & Analytics Module"))
}

func TestNormalize_AllStopwordsYieldsEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize("User Management System"))
	assert.Equal(t, "", Normalize(""))
}

func TestNormalize_KeepsDigits(t *testing.T) {
	assert.Equal(t, "oauth2 login", Normalize("OAuth2 Login"))
}

func TestTokens_SplitsOnPunctuation(t *testing.T) {
	assert.Equal(t, []string{"push", "notifications"}, Tokens("Push/Notifications"))
}

func TestNormalize_SameBucketForEquivalentLabels(t *testing.T) {
	// Labels that differ only in stopwords and punctuation share a bucket.
	assert.Equal(t, Normalize("User Authentication"), Normalize("authentication system"))
}
