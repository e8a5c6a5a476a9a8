package calibration

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteSource reads calibration rows from every user table of a SQLite
// database file. Column identification uses the same header sniffing as the
// file-based sources, so any table exposing a feature column and an hours
// column contributes.
type SQLiteSource struct {
	Path string
}

// Name returns the file name used in diagnostics.
func (s *SQLiteSource) Name() string {
	return filepath.Base(s.Path)
}

// Load opens the database read-only and scans each table. A table that
// cannot be read is skipped; only failure to open the file is an error.
func (s *SQLiteSource) Load(ctx context.Context) ([]Row, int, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", s.Path))
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot open database", Cause: err}
	}
	defer db.Close()

	tables, err := s.listTables(ctx, db)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot list tables", Cause: err}
	}

	var rows []Row
	skipped := 0
	for _, table := range tables {
		headers, cells, err := s.readTable(ctx, db, table)
		if err != nil {
			continue
		}
		origin := fmt.Sprintf("%s:%s", s.Name(), table)
		tableRows, tableSkipped := extractRows(origin, headers, cells)
		rows = append(rows, tableRows...)
		skipped += tableSkipped
	}

	return rows, skipped, nil
}

func (s *SQLiteSource) listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	result, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var tables []string
	for result.Next() {
		var name string
		if err := result.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, result.Err()
}

func (s *SQLiteSource) readTable(ctx context.Context, db *sql.DB, table string) ([]string, [][]string, error) {
	result, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, nil, err
	}
	defer result.Close()

	headers, err := result.Columns()
	if err != nil {
		return nil, nil, err
	}

	var cells [][]string
	for result.Next() {
		raw := make([]sql.NullString, len(headers))
		dest := make([]any, len(headers))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := result.Scan(dest...); err != nil {
			continue
		}
		row := make([]string, len(headers))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			}
		}
		cells = append(cells, row)
	}

	return headers, cells, result.Err()
}
