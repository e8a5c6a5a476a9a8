package calibration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLSource reads calibration rows from the <table> elements of an HTML
// file, typically a spreadsheet exported to HTML. Each table is treated as
// an independent sheet: tables without sniffable columns are skipped.
type HTMLSource struct {
	Path string
}

// Name returns the file name used in diagnostics.
func (s *HTMLSource) Name() string {
	return filepath.Base(s.Path)
}

// Load parses the document and extracts usable rows from every table.
func (s *HTMLSource) Load(ctx context.Context) ([]Row, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot open file", Cause: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot parse HTML", Cause: err}
	}

	var rows []Row
	skipped := 0
	doc.Find("table").Each(func(tableIdx int, table *goquery.Selection) {
		headers, cells := tableCells(table)
		if len(headers) == 0 {
			return
		}
		origin := fmt.Sprintf("%s#table%d", s.Name(), tableIdx+1)
		tableRows, tableSkipped := extractRows(origin, headers, cells)
		rows = append(rows, tableRows...)
		skipped += tableSkipped
	})

	return rows, skipped, nil
}

// tableCells splits a table selection into a header row and body cells.
// The first <tr> is the header, whether it uses <th> or <td>.
func tableCells(table *goquery.Selection) ([]string, [][]string) {
	trs := table.Find("tr")
	if trs.Length() == 0 {
		return nil, nil
	}

	var headers []string
	var cells [][]string
	trs.Each(func(rowIdx int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if rowIdx == 0 {
			headers = row
			return
		}
		cells = append(cells, row)
	})

	return headers, cells
}
