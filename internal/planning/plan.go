// Package planning splits estimated hours into phase and team allocations.
package planning

import (
	"fmt"
	"math"

	"github.com/jonathan/project-estimator/internal/config"
	"github.com/jonathan/project-estimator/internal/estimation"
	"github.com/jonathan/project-estimator/internal/types"
)

// minEngineers is the smallest team a plan ever recommends.
const minEngineers = 2

// Planner derives phase and team allocations from a project total.
type Planner struct {
	cfg config.PlanningConfig
}

// NewPlanner creates a planner over a validated planning config.
func NewPlanner(cfg config.PlanningConfig) *Planner {
	return &Planner{cfg: cfg}
}

// BuildPlan allocates totalHours across phases and sizes the team for the
// given timeline. A zero timeline means "not declared" and defaults to
// totalHours at one engineer-week of capacity per week; a negative timeline
// is a contract violation.
func (p *Planner) BuildPlan(totalHours, timelineWeeks float64) (types.PlanAllocation, error) {
	if timelineWeeks < 0 {
		return types.PlanAllocation{}, &estimation.ValidationError{
			Field:   "timeline_weeks",
			Message: fmt.Sprintf("must be positive, got %v", timelineWeeks),
		}
	}
	if timelineWeeks == 0 {
		timelineWeeks = math.Ceil(totalHours / p.cfg.HoursPerWeek)
		if timelineWeeks < 1 {
			timelineWeeks = 1
		}
	}

	capacity := timelineWeeks * p.cfg.HoursPerWeek
	engineers := int(math.Ceil(totalHours / capacity))
	if engineers < minEngineers {
		engineers = minEngineers
	}

	team := types.TeamRecommendation{
		FrontendDevelopers: atLeast(1, int(math.Ceil(float64(engineers)*0.5))),
		BackendDevelopers:  atLeast(1, int(math.Ceil(float64(engineers)*0.5))),
		QAEngineers:        atLeast(1, engineers/3),
		ProjectManagers:    1,
	}

	return types.PlanAllocation{
		PhaseHours: types.PhaseBreakdown{
			Frontend: round1(totalHours * p.cfg.PhaseRatios["frontend"]),
			Backend:  round1(totalHours * p.cfg.PhaseRatios["backend"]),
			QA:       round1(totalHours * p.cfg.PhaseRatios["qa"]),
			PMBA:     round1(totalHours * p.cfg.PhaseRatios["pm_ba"]),
		},
		Team:          team,
		TimelineWeeks: round1(timelineWeeks),
		TotalHours:    round1(totalHours),
	}, nil
}

func atLeast(floor, v int) int {
	if v < floor {
		return floor
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
