package calibration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresQuery is used when no query is configured. It expects the
// conventional historical_features table maintained by the data import jobs.
const DefaultPostgresQuery = `SELECT feature_name, actual_hours FROM historical_features`

// PostgresSource reads historical rows from a PostgreSQL query. The first
// two result columns are label and hours; additional columns are ignored.
type PostgresSource struct {
	DatabaseURL string
	Query       string
}

// Name identifies the source in diagnostics without leaking credentials.
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Load runs the configured query against a short-lived connection pool.
func (s *PostgresSource) Load(ctx context.Context) ([]Row, int, error) {
	query := s.Query
	if query == "" {
		query = DefaultPostgresQuery
	}

	pool, err := pgxpool.New(ctx, s.DatabaseURL)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "cannot connect to database", Cause: err}
	}
	defer pool.Close()

	result, err := pool.Query(ctx, query)
	if err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "query failed", Cause: err}
	}
	defer result.Close()

	fields := result.FieldDescriptions()
	if len(fields) < 2 {
		return nil, 0, &LoadError{
			Source:  s.Name(),
			Message: fmt.Sprintf("query must return at least (label, hours) columns, got %d", len(fields)),
		}
	}

	headers := make([]string, len(fields))
	for i, fd := range fields {
		headers[i] = fd.Name
	}

	var cells [][]string
	for result.Next() {
		values, err := result.Values()
		if err != nil {
			continue
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		cells = append(cells, row)
	}
	if err := result.Err(); err != nil {
		return nil, 0, &LoadError{Source: s.Name(), Message: "row iteration failed", Cause: err}
	}

	rows, skipped := extractRows(s.Name(), headers, cells)
	return rows, skipped, nil
}
