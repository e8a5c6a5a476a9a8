package calibration

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
)

// CSVSource reads one CSV file with a header row.
type CSVSource struct {
	Path string
}

// Name returns the file name used in diagnostics.
func (s *CSVSource) Name() string {
	return filepath.Base(s.Path)
}

// Load reads the file and extracts usable rows. Malformed lines are skipped
// individually rather than aborting the file.
func (s *CSVSource) Load(ctx context.Context) ([]Row, int, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot open file", Cause: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are common in exported sheets

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot read header row", Cause: err}
	}

	var cells [][]string
	malformed := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			malformed++
			continue
		}
		cells = append(cells, record)
	}

	rows, skipped := extractRows(s.Name(), headers, cells)
	return rows, skipped + malformed, nil
}
