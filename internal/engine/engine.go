// Package engine orchestrates calibration loading, matching, estimation,
// confidence scoring and planning behind one stateless entry point.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/confidence"
	"github.com/jonathan/project-estimator/internal/config"
	"github.com/jonathan/project-estimator/internal/estimation"
	"github.com/jonathan/project-estimator/internal/logging"
	"github.com/jonathan/project-estimator/internal/matching"
	"github.com/jonathan/project-estimator/internal/planning"
	"github.com/jonathan/project-estimator/internal/types"
)

// Engine holds the immutable calibration snapshot and the pure calculators.
// Estimate calls are safe to run fully in parallel: they only read the
// snapshot published by the most recent Reload.
type Engine struct {
	calc    *estimation.Calculator
	planner *planning.Planner
	loader  *calibration.Loader
	logger  *logging.Logger

	store atomic.Pointer[calibration.Store]
	stats atomic.Pointer[calibration.LoadStats]
}

// New validates the configuration, assembles the calibration sources and
// returns an engine with an empty store. Call Reload to populate it.
func New(cfg *config.Config, logger *logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	sources, err := calibration.DirSources(cfg.CalibrationDir)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL != "" {
		sources = append(sources, &calibration.PostgresSource{
			DatabaseURL: cfg.DatabaseURL,
			Query:       cfg.CalibrationQuery,
		})
	}

	e := &Engine{
		calc:    estimation.NewCalculator(cfg.Estimation),
		planner: planning.NewPlanner(cfg.Planning),
		loader:  calibration.NewLoader(sources, logger),
		logger:  logger,
	}
	e.store.Store(calibration.EmptyStore())
	e.stats.Store(&calibration.LoadStats{})
	return e, nil
}

// Reload rebuilds the calibration store from all configured sources and
// publishes it atomically, so in-flight estimates always see a fully
// consistent snapshot.
func (e *Engine) Reload(ctx context.Context) (*calibration.LoadStats, error) {
	store, stats, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.store.Store(store)
	e.stats.Store(stats)
	return stats, nil
}

// Store returns the current calibration snapshot.
func (e *Engine) Store() *calibration.Store {
	return e.store.Load()
}

// Stats returns the diagnostics of the most recent load.
func (e *Engine) Stats() *calibration.LoadStats {
	return e.stats.Load()
}

// Estimate runs the full deterministic pipeline for one request. It holds
// no state between calls; edited feature lists are simply re-submitted.
func (e *Engine) Estimate(req *types.EstimateRequest) (*types.EstimateResponse, error) {
	if err := estimation.ValidateRequest(req); err != nil {
		return nil, err
	}

	scopeFactor := req.ScopeFactor
	if scopeFactor == 0 {
		scopeFactor = 1.0
	}

	store := e.store.Load()
	features := make([]types.FeatureEstimate, 0, len(req.Features))
	for _, feature := range req.Features {
		match := matching.Match(feature.Name, store)
		features = append(features, e.calc.EstimateFeature(feature, match, scopeFactor))
	}

	total, minHours, maxHours, categories := e.calc.Aggregate(features)

	plan, err := e.planner.BuildPlan(total, req.TimelineWeeks)
	if err != nil {
		return nil, err
	}

	return &types.EstimateResponse{
		RequestID: uuid.New().String(),
		Estimate: types.ProjectEstimate{
			Features:       features,
			TotalHours:     total,
			MinHours:       minHours,
			MaxHours:       maxHours,
			Confidence:     confidence.Score(features),
			CategoryTotals: categories,
		},
		Plan: plan,
	}, nil
}
