package calibration

import (
	"strconv"
	"strings"
)

// Candidate header names, matched case-insensitively by substring. Sources
// come from many spreadsheet authors, so column naming is loose.
var (
	featureColumnCandidates = []string{"name", "module name", "feature", "module"}
	totalHoursCandidates    = []string{"total hours", "total", "hours"}
	componentHourColumns    = []string{"web mobile", "backend", "wireframe", "visual design"}
	skipRowKeywords         = []string{
		"total", "subtotal", "summary", "grand total",
		"sub-total", "sub total", "grand-total",
	}
)

// findFeatureColumn returns the index of the feature-label column, or -1.
func findFeatureColumn(headers []string) int {
	for i, h := range headers {
		col := strings.ToLower(strings.TrimSpace(h))
		for _, candidate := range featureColumnCandidates {
			if strings.Contains(col, candidate) {
				return i
			}
		}
	}
	return -1
}

// findHoursColumns returns the index of a total-hours column (or -1) and the
// indexes of any per-component hour columns. When no total column exists the
// component columns are summed instead.
func findHoursColumns(headers []string) (int, []int) {
	total := -1
	for i, h := range headers {
		col := strings.ToLower(strings.TrimSpace(h))
		for _, candidate := range totalHoursCandidates {
			if strings.Contains(col, candidate) {
				total = i
				break
			}
		}
		if total >= 0 {
			break
		}
	}

	var components []int
	for i, h := range headers {
		col := strings.ToLower(strings.TrimSpace(h))
		for _, component := range componentHourColumns {
			if strings.Contains(col, component) {
				components = append(components, i)
				break
			}
		}
	}

	return total, components
}

// shouldSkipRow reports whether a label names a subtotal or summary row,
// which would double-count hours if ingested.
func shouldSkipRow(label string) bool {
	lower := strings.ToLower(label)
	for _, keyword := range skipRowKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// parseHours parses a cell into hours, tolerating thousands separators and
// surrounding whitespace. Returns 0 for anything unusable.
func parseHours(cell string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if cleaned == "" {
		return 0
	}
	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return hours
}
