package calibration

import (
	"context"
	"strings"
)

// Row is one usable (label, hours) observation extracted from a source.
type Row struct {
	Label  string
	Hours  float64
	Origin string
}

// Source is a tabular calibration source. Load returns the usable rows plus
// the number of rows that were present but skipped (subtotals, blanks,
// unparsable hours). A Source that cannot be opened returns an error; the
// loader downgrades that to a warning rather than failing the whole load.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Row, int, error)
}

// extractRows applies column sniffing and row filtering to one raw table.
// Tables without an identifiable feature column, or without any hours
// column, contribute nothing.
func extractRows(origin string, headers []string, cells [][]string) ([]Row, int) {
	featureCol := findFeatureColumn(headers)
	if featureCol < 0 {
		return nil, len(cells)
	}

	totalCol, componentCols := findHoursColumns(headers)
	if totalCol < 0 && len(componentCols) == 0 {
		return nil, len(cells)
	}

	var rows []Row
	skipped := 0
	for _, cell := range cells {
		label := ""
		if featureCol < len(cell) {
			label = strings.TrimSpace(cell[featureCol])
		}
		if len(label) < 2 || shouldSkipRow(label) {
			skipped++
			continue
		}

		hours := extractHours(cell, totalCol, componentCols)
		if hours <= 0 {
			skipped++
			continue
		}

		rows = append(rows, Row{Label: label, Hours: hours, Origin: origin})
	}

	return rows, skipped
}

// extractHours prefers the total column; when it is absent or unusable the
// component columns are summed.
func extractHours(cell []string, totalCol int, componentCols []int) float64 {
	if totalCol >= 0 && totalCol < len(cell) {
		if hours := parseHours(cell[totalCol]); hours > 0 {
			return hours
		}
	}

	sum := 0.0
	for _, col := range componentCols {
		if col < len(cell) {
			sum += parseHours(cell[col])
		}
	}
	return sum
}
