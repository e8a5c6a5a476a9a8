package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/types"
)

func TestPrintLoadStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLoadStats(&calibration.LoadStats{
		SourcesTotal:  3,
		SourcesLoaded: 2,
		RowsLoaded:    40,
		RowsSkipped:   5,
		Records:       12,
		Warnings:      []string{"history.html: no tables found"},
	})

	out := buf.String()
	assert.Contains(t, out, "Calibration Load")
	assert.Contains(t, out, "2/3 loaded")
	assert.Contains(t, out, "40 loaded, 5 skipped")
	assert.Contains(t, out, "history.html: no tables found")
}

func TestPrintLoadStats_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintLoadStats(nil)
	assert.Empty(t, buf.String())
}

func TestPrintProjectEstimate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProjectEstimate(&types.ProjectEstimate{
		Features: []types.FeatureEstimate{
			{
				Feature:    types.FeatureInput{Name: "Checkout", Category: "Core"},
				FinalHours: 72,
				MatchKind:  types.MatchExact,
				Calibrated: true,
			},
			{
				Feature:    types.FeatureInput{Name: "Admin Dashboard", Category: "Core"},
				FinalHours: 161,
				MatchKind:  types.MatchNone,
			},
		},
		TotalHours:     233,
		MinHours:       198.05,
		MaxHours:       314.55,
		Confidence:     0.5,
		CategoryTotals: map[string]float64{"Core": 233},
	})

	out := buf.String()
	assert.Contains(t, out, "Project Estimate")
	assert.Contains(t, out, "233h")
	assert.Contains(t, out, "Confidence:  50%")
	assert.Contains(t, out, "Checkout")
	// Calibrated features are marked.
	assert.Contains(t, out, "* Checkout")
	assert.Contains(t, out, "Core")
}

func TestPrintProjectEstimate_TruncatesLongFeatureLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	features := make([]types.FeatureEstimate, 15)
	for i := range features {
		features[i] = types.FeatureEstimate{Feature: types.FeatureInput{Name: "Feature"}}
	}
	p.PrintProjectEstimate(&types.ProjectEstimate{Features: features})

	assert.Contains(t, buf.String(), "and 5 more")
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlan(&types.PlanAllocation{
		PhaseHours: types.PhaseBreakdown{Frontend: 400, Backend: 350, QA: 150, PMBA: 100},
		Team: types.TeamRecommendation{
			FrontendDevelopers: 2,
			BackendDevelopers:  2,
			QAEngineers:        1,
			ProjectManagers:    1,
		},
		TimelineWeeks: 10,
		TotalHours:    1000,
	})

	out := buf.String()
	assert.Contains(t, out, "Resource Plan")
	assert.Contains(t, out, "10.0 weeks")
	assert.Contains(t, out, "2 FE, 2 BE, 1 QA, 1 PM")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 40)
	truncated := truncate(long, 28)
	assert.Len(t, truncated, 28)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
