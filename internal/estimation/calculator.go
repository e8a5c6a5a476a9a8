package estimation

import (
	"fmt"
	"math"

	"github.com/jonathan/project-estimator/internal/config"
	"github.com/jonathan/project-estimator/internal/matching"
	"github.com/jonathan/project-estimator/internal/types"
)

// DefaultCategory is used when a feature arrives without a category.
const DefaultCategory = "Core"

// Calculator applies the layered numeric model: base hours by complexity,
// historical calibration blend, contingency buffer, scope factor, tier floor.
type Calculator struct {
	cfg config.EstimationConfig
}

// NewCalculator creates a calculator over a validated estimation config.
func NewCalculator(cfg config.EstimationConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// EstimateFeature produces the estimate for one feature given its match
// result. The caller is responsible for having validated the inputs.
func (c *Calculator) EstimateFeature(feature types.FeatureInput, match matching.Result, scopeFactor float64) types.FeatureEstimate {
	base := c.cfg.BaseHours[feature.Complexity]

	calibrated := base
	if match.Usable() {
		calibrated = c.blend(base, match.Record.AverageHours, match.Record.SampleCount)
	}

	buffered := calibrated * c.cfg.BufferMultiplier
	final := math.Max(c.cfg.FloorHours[feature.Complexity], math.Round(buffered*scopeFactor))

	est := types.FeatureEstimate{
		Feature:         feature,
		BaseHours:       base,
		CalibratedHours: calibrated,
		FinalHours:      final,
		MatchKind:       match.Kind,
		Similarity:      match.Similarity,
		Calibrated:      match.Usable(),
	}
	if match.Record != nil {
		est.MatchedLabel = match.Record.Label
		est.SampleCount = match.Record.SampleCount
	}
	return est
}

// blend mixes the base estimate with the historical average. The historical
// weight grows with sample count and saturates at BlendMaxWeight so a single
// noisy history can never fully override the complexity model.
func (c *Calculator) blend(base, averageHours float64, sampleCount int) float64 {
	weight := math.Min(float64(sampleCount)/float64(c.cfg.BlendSaturationSamples), c.cfg.BlendMaxWeight)
	return base*(1-weight) + averageHours*weight
}

// Aggregate sums feature estimates into project-level totals with the
// global uncertainty range and per-category breakdown.
func (c *Calculator) Aggregate(features []types.FeatureEstimate) (total, minHours, maxHours float64, categories map[string]float64) {
	if len(features) == 0 {
		return 0, 0, 0, nil
	}

	categories = make(map[string]float64)
	for _, f := range features {
		total += f.FinalHours
		category := f.Feature.Category
		if category == "" {
			category = DefaultCategory
		}
		categories[category] += f.FinalHours
	}

	return total, total * c.cfg.LowBoundRatio, total * c.cfg.HighBoundRatio, categories
}

// ValidateRequest enforces the request contract. Negative or non-finite
// hour-affecting inputs indicate a caller bug and are rejected rather than
// clamped.
func ValidateRequest(req *types.EstimateRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Message: "request is nil"}
	}

	for i, feature := range req.Features {
		if feature.Name == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("features[%d].name", i),
				Message: "feature name is required",
			}
		}
		if !feature.Complexity.Valid() {
			return &ValidationError{
				Field:   fmt.Sprintf("features[%d].complexity", i),
				Message: fmt.Sprintf("unknown complexity tier %q", feature.Complexity),
			}
		}
	}

	if math.IsNaN(req.ScopeFactor) || math.IsInf(req.ScopeFactor, 0) {
		return &ValidationError{Field: "scope_factor", Message: "must be a finite number"}
	}
	if req.ScopeFactor < 0 || req.ScopeFactor > 1 {
		return &ValidationError{
			Field:   "scope_factor",
			Message: fmt.Sprintf("must be in (0, 1], got %v", req.ScopeFactor),
		}
	}

	if math.IsNaN(req.TimelineWeeks) || math.IsInf(req.TimelineWeeks, 0) {
		return &ValidationError{Field: "timeline_weeks", Message: "must be a finite number"}
	}
	if req.TimelineWeeks < 0 {
		return &ValidationError{
			Field:   "timeline_weeks",
			Message: fmt.Sprintf("must be positive, got %v", req.TimelineWeeks),
		}
	}

	return nil
}
