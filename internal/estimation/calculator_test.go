package estimation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/config"
	"github.com/jonathan/project-estimator/internal/matching"
	"github.com/jonathan/project-estimator/internal/types"
)

func newCalculator() *Calculator {
	return NewCalculator(config.Default().Estimation)
}

func noMatch() matching.Result {
	return matching.Result{Kind: types.MatchNone}
}

func matchWith(samples int, avg float64) matching.Result {
	return matching.Result{
		Record:     &calibration.Record{Label: "fixture", SampleCount: samples, AverageHours: avg},
		Kind:       types.MatchContains,
		Similarity: 0.7,
	}
}

func TestEstimateFeature_UncalibratedMediumFeature(t *testing.T) {
	calc := newCalculator()

	est := calc.EstimateFeature(
		types.FeatureInput{Name: "User Authentication", Complexity: types.TierMedium},
		noMatch(), 1.0)

	assert.Equal(t, 72.0, est.BaseHours)
	assert.Equal(t, 72.0, est.CalibratedHours)
	// 72 * 1.15 = 82.8, rounded.
	assert.Equal(t, 83.0, est.FinalHours)
	assert.Equal(t, types.MatchNone, est.MatchKind)
	assert.False(t, est.Calibrated)
}

func TestEstimateFeature_BlendSaturatesAtMaxWeight(t *testing.T) {
	// The blend weight is min(samples/5, 0.8): a well-sampled history gets
	// 80% of the say, never all of it.
	calc := newCalculator()

	est := calc.EstimateFeature(
		types.FeatureInput{Name: "User Authentication", Complexity: types.TierMedium},
		matchWith(5, 60), 1.0)

	// 72*0.2 + 60*0.8 = 62.4, strictly between the history and the base.
	assert.InDelta(t, 62.4, est.CalibratedHours, 1e-9)
	assert.Greater(t, est.CalibratedHours, 60.0)
	assert.Less(t, est.CalibratedHours, 72.0)
	// 62.4 * 1.15 = 71.76, rounded.
	assert.Equal(t, 72.0, est.FinalHours)
	assert.True(t, est.Calibrated)
	assert.Equal(t, 5, est.SampleCount)
}

func TestEstimateFeature_BlendWeightGrowsWithSamples(t *testing.T) {
	calc := newCalculator()
	feature := types.FeatureInput{Name: "Search", Complexity: types.TierMedium}

	// weight 2/5: 72*0.6 + 30*0.4 = 55.2
	two := calc.EstimateFeature(feature, matchWith(2, 30), 1.0)
	assert.InDelta(t, 55.2, two.CalibratedHours, 1e-9)

	// weight 4/5 hits the 0.8 cap.
	four := calc.EstimateFeature(feature, matchWith(4, 30), 1.0)
	assert.Less(t, four.CalibratedHours, two.CalibratedHours)

	// More samples never increase the weight past the cap.
	ten := calc.EstimateFeature(feature, matchWith(10, 30), 1.0)
	assert.InDelta(t, four.CalibratedHours, ten.CalibratedHours, 1e-9)
}

func TestEstimateFeature_SingleSampleIsDiagnosticOnly(t *testing.T) {
	calc := newCalculator()

	est := calc.EstimateFeature(
		types.FeatureInput{Name: "Search", Complexity: types.TierMedium},
		matchWith(1, 500), 1.0)

	// The match is reported but carries no calibration weight.
	assert.Equal(t, 72.0, est.CalibratedHours)
	assert.False(t, est.Calibrated)
	assert.Equal(t, "fixture", est.MatchedLabel)
	assert.Equal(t, 1, est.SampleCount)
}

func TestEstimateFeature_ScopeFactorReducesHours(t *testing.T) {
	calc := newCalculator()
	feature := types.FeatureInput{Name: "Search", Complexity: types.TierMedium}

	full := calc.EstimateFeature(feature, noMatch(), 1.0)
	mvp := calc.EstimateFeature(feature, noMatch(), 0.5)

	assert.Equal(t, 83.0, full.FinalHours)
	// 82.8 * 0.5 = 41.4, rounded; still above the medium floor of 40.
	assert.Equal(t, 41.0, mvp.FinalHours)
}

func TestEstimateFeature_FloorHolds(t *testing.T) {
	calc := newCalculator()

	// A strong history of tiny actuals cannot push the estimate below the
	// tier floor.
	est := calc.EstimateFeature(
		types.FeatureInput{Name: "Search", Complexity: types.TierHigh},
		matchWith(10, 5), 0.5)

	// calibrated = 140*0.2 + 5*0.8 = 32; 32*1.15*0.5 = 18.4 -> floor 80.
	assert.Equal(t, 80.0, est.FinalHours)
}

func TestAggregate_SumsExactly(t *testing.T) {
	calc := newCalculator()

	features := []types.FeatureEstimate{
		{FinalHours: 83, Feature: types.FeatureInput{Category: "Core"}},
		{FinalHours: 41, Feature: types.FeatureInput{Category: "Core"}},
		{FinalHours: 161, Feature: types.FeatureInput{Category: "Integrations"}},
	}

	total, minHours, maxHours, categories := calc.Aggregate(features)
	assert.Equal(t, 285.0, total)
	assert.InDelta(t, 285.0*0.85, minHours, 1e-9)
	assert.InDelta(t, 285.0*1.35, maxHours, 1e-9)
	assert.LessOrEqual(t, minHours, total)
	assert.GreaterOrEqual(t, maxHours, total)
	assert.Equal(t, map[string]float64{"Core": 124, "Integrations": 161}, categories)
}

func TestAggregate_DefaultCategory(t *testing.T) {
	calc := newCalculator()

	_, _, _, categories := calc.Aggregate([]types.FeatureEstimate{{FinalHours: 10}})
	assert.Equal(t, map[string]float64{"Core": 10.0}, categories)
}

func TestAggregate_EmptyFeatureList(t *testing.T) {
	calc := newCalculator()

	total, minHours, maxHours, categories := calc.Aggregate(nil)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, 0.0, minHours)
	assert.Equal(t, 0.0, maxHours)
	assert.Nil(t, categories)
}

func TestValidateRequest_RejectsUnknownTier(t *testing.T) {
	err := ValidateRequest(&types.EstimateRequest{
		Features: []types.FeatureInput{{Name: "Search", Complexity: "enormous"}},
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "features[0].complexity", validationErr.Field)
}

func TestValidateRequest_RejectsMissingName(t *testing.T) {
	err := ValidateRequest(&types.EstimateRequest{
		Features: []types.FeatureInput{{Complexity: types.TierLow}},
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "features[0].name", validationErr.Field)
}

func TestValidateRequest_RejectsBadScopeFactor(t *testing.T) {
	for _, scope := range []float64{-0.5, 1.5, math.NaN(), math.Inf(1)} {
		err := ValidateRequest(&types.EstimateRequest{ScopeFactor: scope})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "scope %v", scope)
		assert.Equal(t, "scope_factor", validationErr.Field)
	}
}

func TestValidateRequest_RejectsBadTimeline(t *testing.T) {
	for _, weeks := range []float64{-1, math.NaN(), math.Inf(-1)} {
		err := ValidateRequest(&types.EstimateRequest{TimelineWeeks: weeks})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "weeks %v", weeks)
		assert.Equal(t, "timeline_weeks", validationErr.Field)
	}
}

func TestValidateRequest_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateRequest(&types.EstimateRequest{
		Features: []types.FeatureInput{{Name: "Search", Complexity: types.TierLow}},
	}))
}
