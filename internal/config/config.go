// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jonathan/project-estimator/internal/types"
)

// ratioEpsilon is the tolerance when checking that phase ratios sum to 1.0.
const ratioEpsilon = 1e-9

// EstimationConfig holds the numeric model constants. All values are
// validated at startup; a bad table is a deployment mistake, not a request
// error.
type EstimationConfig struct {
	BaseHours        map[types.ComplexityTier]float64 `json:"base_hours,omitempty"`
	FloorHours       map[types.ComplexityTier]float64 `json:"floor_hours,omitempty"`
	BufferMultiplier float64                          `json:"buffer_multiplier,omitempty"`
	LowBoundRatio    float64                          `json:"low_bound_ratio,omitempty"`
	HighBoundRatio   float64                          `json:"high_bound_ratio,omitempty"`
	// Blend weight for historical averages: weight = min(samples/BlendSaturationSamples, BlendMaxWeight).
	BlendSaturationSamples int     `json:"blend_saturation_samples,omitempty"`
	BlendMaxWeight         float64 `json:"blend_max_weight,omitempty"`
}

// PlanningConfig holds the resource-planning constants.
type PlanningConfig struct {
	PhaseRatios  map[string]float64 `json:"phase_ratios,omitempty"`
	HoursPerWeek float64            `json:"hours_per_week,omitempty"`
}

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Calibration sources
	CalibrationDir   string `json:"calibration_dir,omitempty"`   // Directory of csv/html/sqlite calibration files
	DatabaseURL      string `json:"database_url,omitempty"`      // PostgreSQL URL for historical rows
	CalibrationQuery string `json:"calibration_query,omitempty"` // Override query for the Postgres source

	// Server
	Port int `json:"port,omitempty"`

	// Behavior
	Verbose bool   `json:"verbose,omitempty"`
	LogMode string `json:"log_mode,omitempty"` // "dev" or "prod"

	Estimation EstimationConfig `json:"estimation,omitempty"`
	Planning   PlanningConfig   `json:"planning,omitempty"`
}

// Default returns the configuration with the standard numeric model.
func Default() Config {
	return Config{
		Port:    8080,
		LogMode: "dev",
		Estimation: EstimationConfig{
			BaseHours: map[types.ComplexityTier]float64{
				types.TierLow:      28,
				types.TierMedium:   72,
				types.TierHigh:     140,
				types.TierVeryHigh: 220,
			},
			FloorHours: map[types.ComplexityTier]float64{
				types.TierLow:      16,
				types.TierMedium:   40,
				types.TierHigh:     80,
				types.TierVeryHigh: 120,
			},
			BufferMultiplier:       1.15,
			LowBoundRatio:          0.85,
			HighBoundRatio:         1.35,
			BlendSaturationSamples: 5,
			BlendMaxWeight:         0.8,
		},
		Planning: PlanningConfig{
			PhaseRatios: map[string]float64{
				"frontend": 0.40,
				"backend":  0.35,
				"qa":       0.15,
				"pm_ba":    0.10,
			},
			HoursPerWeek: 40,
		},
	}
}

// Load reads configuration from a JSON file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the startup invariants of the numeric model. Violations
// abort startup.
func (c *Config) Validate() error {
	for _, tier := range types.AllTiers {
		base, ok := c.Estimation.BaseHours[tier]
		if !ok {
			return &ConfigurationError{Message: fmt.Sprintf("base hours table is missing tier %q", tier)}
		}
		if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
			return &ConfigurationError{Message: fmt.Sprintf("base hours for tier %q must be a positive finite number, got %v", tier, base)}
		}
		floor, ok := c.Estimation.FloorHours[tier]
		if !ok {
			return &ConfigurationError{Message: fmt.Sprintf("floor hours table is missing tier %q", tier)}
		}
		if floor < 0 || floor > base {
			return &ConfigurationError{Message: fmt.Sprintf("floor hours for tier %q must be in [0, base], got %v", tier, floor)}
		}
	}

	if c.Estimation.BufferMultiplier <= 1 {
		return &ConfigurationError{Message: fmt.Sprintf("buffer multiplier must be greater than 1, got %v", c.Estimation.BufferMultiplier)}
	}
	if c.Estimation.LowBoundRatio <= 0 || c.Estimation.LowBoundRatio > 1 {
		return &ConfigurationError{Message: fmt.Sprintf("low bound ratio must be in (0, 1], got %v", c.Estimation.LowBoundRatio)}
	}
	if c.Estimation.HighBoundRatio < 1 {
		return &ConfigurationError{Message: fmt.Sprintf("high bound ratio must be at least 1, got %v", c.Estimation.HighBoundRatio)}
	}
	if c.Estimation.BlendSaturationSamples < 1 {
		return &ConfigurationError{Message: fmt.Sprintf("blend saturation samples must be at least 1, got %d", c.Estimation.BlendSaturationSamples)}
	}
	if c.Estimation.BlendMaxWeight <= 0 || c.Estimation.BlendMaxWeight >= 1 {
		return &ConfigurationError{Message: fmt.Sprintf("blend max weight must be in (0, 1), got %v", c.Estimation.BlendMaxWeight)}
	}

	sum := 0.0
	for phase, ratio := range c.Planning.PhaseRatios {
		if ratio < 0 {
			return &ConfigurationError{Message: fmt.Sprintf("phase ratio for %q must be non-negative, got %v", phase, ratio)}
		}
		sum += ratio
	}
	if math.Abs(sum-1.0) > ratioEpsilon {
		return &ConfigurationError{Message: fmt.Sprintf("phase ratios must sum to 1.0, got %v", sum)}
	}
	for _, phase := range []string{"frontend", "backend", "qa", "pm_ba"} {
		if _, ok := c.Planning.PhaseRatios[phase]; !ok {
			return &ConfigurationError{Message: fmt.Sprintf("phase ratio table is missing phase %q", phase)}
		}
	}
	if c.Planning.HoursPerWeek <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("hours per week must be positive, got %v", c.Planning.HoursPerWeek)}
	}

	return nil
}
