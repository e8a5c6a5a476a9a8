package schemas

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRequestSchema(t *testing.T) *Schema {
	t.Helper()

	path := ResolveSchemaPath(EstimateRequestSchema)
	require.NotEmpty(t, path, "estimate request schema not found")

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	return schema
}

func TestValidateBytes_ValidRequest(t *testing.T) {
	schema := loadRequestSchema(t)

	payload := `{
		"features": [
			{"name": "Checkout", "complexity": "medium", "category": "Core"},
			{"name": "Search", "complexity": "low"}
		],
		"scope_factor": 0.5,
		"timeline_weeks": 8
	}`
	assert.NoError(t, schema.ValidateBytes([]byte(payload)))
}

func TestValidateBytes_MinimalRequest(t *testing.T) {
	schema := loadRequestSchema(t)
	assert.NoError(t, schema.ValidateBytes([]byte(`{"features": []}`)))
}

func TestValidateBytes_MissingFeatures(t *testing.T) {
	schema := loadRequestSchema(t)

	err := schema.ValidateBytes([]byte(`{}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "features")
}

func TestValidateBytes_BadComplexity(t *testing.T) {
	schema := loadRequestSchema(t)

	err := schema.ValidateBytes([]byte(
		`{"features": [{"name": "Search", "complexity": "galactic"}]}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateBytes_UnknownTopLevelField(t *testing.T) {
	schema := loadRequestSchema(t)

	err := schema.ValidateBytes([]byte(`{"features": [], "hourly_rate": 150}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateBytes_ScopeFactorOutOfRange(t *testing.T) {
	schema := loadRequestSchema(t)

	for _, payload := range []string{
		`{"features": [], "scope_factor": 0}`,
		`{"features": [], "scope_factor": 1.5}`,
	} {
		err := schema.ValidateBytes([]byte(payload))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "payload %s", payload)
	}
}

func TestValidateBytes_EmptyFeatureName(t *testing.T) {
	schema := loadRequestSchema(t)

	err := schema.ValidateBytes([]byte(
		`{"features": [{"name": "", "complexity": "low"}]}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.schema.json"))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestResolveSchemaPath_NotFound(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}
