// Package observability provides formatted output utilities and Prometheus
// metrics for the estimation service.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose CLI mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintLoadStats outputs a human-readable summary of a calibration load.
func (p *Printer) PrintLoadStats(stats *calibration.LoadStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sources:  %d/%d loaded\n", stats.SourcesLoaded, stats.SourcesTotal))
	sb.WriteString(fmt.Sprintf("Rows:     %d loaded, %d skipped\n", stats.RowsLoaded, stats.RowsSkipped))
	sb.WriteString(fmt.Sprintf("Records:  %d", stats.Records))

	if len(stats.Warnings) > 0 {
		sb.WriteString("\n\nWarnings:")
		for i, warning := range stats.Warnings {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(stats.Warnings)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("\n  - %s", warning))
		}
	}

	p.printBox("Calibration Load", sb.String())
}

// PrintProjectEstimate outputs a human-readable summary of an estimate.
func (p *Printer) PrintProjectEstimate(estimate *types.ProjectEstimate) {
	if estimate == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:       %.0fh (%.0f-%.0fh)\n", estimate.TotalHours, estimate.MinHours, estimate.MaxHours))
	sb.WriteString(fmt.Sprintf("Confidence:  %.0f%%\n", estimate.Confidence*100))
	sb.WriteString(fmt.Sprintf("Features:    %d\n", len(estimate.Features)))

	for i, f := range estimate.Features {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(estimate.Features)-maxItemsToShow))
			break
		}
		marker := " "
		if f.Calibrated {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("  %s %-28s %5.0fh (%s)\n", marker, truncate(f.Feature.Name, 28), f.FinalHours, f.MatchKind))
	}

	if len(estimate.CategoryTotals) > 0 {
		sb.WriteString("\nBy category:")
		categories := make([]string, 0, len(estimate.CategoryTotals))
		for category := range estimate.CategoryTotals {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			sb.WriteString(fmt.Sprintf("\n  %-20s %6.0fh", category, estimate.CategoryTotals[category]))
		}
	}

	p.printBox("Project Estimate", sb.String())
}

// PrintPlan outputs the phase and team allocation.
func (p *Printer) PrintPlan(plan *types.PlanAllocation) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Timeline:    %.1f weeks\n\n", plan.TimelineWeeks))
	sb.WriteString(fmt.Sprintf("Frontend:    %6.1fh\n", plan.PhaseHours.Frontend))
	sb.WriteString(fmt.Sprintf("Backend:     %6.1fh\n", plan.PhaseHours.Backend))
	sb.WriteString(fmt.Sprintf("QA:          %6.1fh\n", plan.PhaseHours.QA))
	sb.WriteString(fmt.Sprintf("PM/BA:       %6.1fh\n\n", plan.PhaseHours.PMBA))
	sb.WriteString(fmt.Sprintf("Team:        %d FE, %d BE, %d QA, %d PM",
		plan.Team.FrontendDevelopers,
		plan.Team.BackendDevelopers,
		plan.Team.QAEngineers,
		plan.Team.ProjectManagers))

	p.printBox("Resource Plan", sb.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
