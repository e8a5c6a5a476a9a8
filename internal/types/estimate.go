// Package types provides type definitions for structured data exchanged between the estimation pipeline stages.
package types

import (
	"github.com/go-playground/validator/v10"
)

// ComplexityTier classifies how involved a feature is expected to be.
type ComplexityTier string

// Valid complexity tiers, in ascending order of expected effort.
const (
	TierLow      ComplexityTier = "low"
	TierMedium   ComplexityTier = "medium"
	TierHigh     ComplexityTier = "high"
	TierVeryHigh ComplexityTier = "very_high"
)

// AllTiers lists every valid complexity tier.
var AllTiers = []ComplexityTier{TierLow, TierMedium, TierHigh, TierVeryHigh}

// Valid reports whether the tier is one of the known values.
func (t ComplexityTier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh, TierVeryHigh:
		return true
	}
	return false
}

// MatchKind identifies which matching tier resolved a feature against
// the calibration store.
type MatchKind string

const (
	MatchExact        MatchKind = "exact"
	MatchContains     MatchKind = "contains"
	MatchTokenOverlap MatchKind = "token_overlap"
	MatchNone         MatchKind = "none"
)

// FeatureInput is a single feature produced by the upstream extraction stage.
type FeatureInput struct {
	Name       string         `json:"name" validate:"required,min=1"`
	Complexity ComplexityTier `json:"complexity" validate:"required"`
	Category   string         `json:"category,omitempty"`
}

// EstimateRequest is the full input to one estimation call. ScopeFactor and
// TimelineWeeks are optional; zero means "not supplied" and defaults apply.
type EstimateRequest struct {
	Features      []FeatureInput `json:"features" validate:"dive"`
	ScopeFactor   float64        `json:"scope_factor,omitempty"`
	TimelineWeeks float64        `json:"timeline_weeks,omitempty"`
}

// Validate validates the EstimateRequest using the validator.
// Numeric ranges (scope factor, timeline) are checked separately by the
// engine so the offending field can be reported precisely.
func (r *EstimateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// FeatureEstimate is the per-feature output of the estimation calculator.
type FeatureEstimate struct {
	Feature         FeatureInput `json:"feature"`
	BaseHours       float64      `json:"base_hours"`
	CalibratedHours float64      `json:"calibrated_hours"`
	FinalHours      float64      `json:"final_hours"`
	MatchKind       MatchKind    `json:"match_kind"`
	MatchedLabel    string       `json:"matched_label,omitempty"`
	Similarity      float64      `json:"similarity"`
	SampleCount     int          `json:"sample_count"`
	Calibrated      bool         `json:"calibrated"`
}

// ProjectEstimate aggregates the feature estimates for one request.
type ProjectEstimate struct {
	Features       []FeatureEstimate  `json:"features"`
	TotalHours     float64            `json:"total_hours"`
	MinHours       float64            `json:"min_hours"`
	MaxHours       float64            `json:"max_hours"`
	Confidence     float64            `json:"confidence"`
	CategoryTotals map[string]float64 `json:"category_totals,omitempty"`
}

// PhaseBreakdown splits total hours across delivery phases.
type PhaseBreakdown struct {
	Frontend float64 `json:"frontend"`
	Backend  float64 `json:"backend"`
	QA       float64 `json:"qa"`
	PMBA     float64 `json:"pm_ba"`
}

// TeamRecommendation is the suggested headcount per role.
type TeamRecommendation struct {
	FrontendDevelopers int `json:"frontend_developers"`
	BackendDevelopers  int `json:"backend_developers"`
	QAEngineers        int `json:"qa_engineers"`
	ProjectManagers    int `json:"project_managers"`
}

// PlanAllocation is the phase and team plan derived from a project estimate.
type PlanAllocation struct {
	PhaseHours    PhaseBreakdown     `json:"phase_hours"`
	Team          TeamRecommendation `json:"team"`
	TimelineWeeks float64            `json:"timeline_weeks"`
	TotalHours    float64            `json:"total_hours"`
}

// EstimateResponse is the full output of one estimation call, emitted to the
// downstream proposal stage as plain structured data.
type EstimateResponse struct {
	RequestID string          `json:"request_id"`
	Estimate  ProjectEstimate `json:"estimate"`
	Plan      PlanAllocation  `json:"plan"`
}
