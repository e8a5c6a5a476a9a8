package calibration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/project-estimator/internal/logging"
)

// LoadStats records what a load attempt actually ingested. A partially
// failed load is not an error: failed sources become warnings and the store
// is built from whatever was readable.
type LoadStats struct {
	SourcesTotal  int       `json:"sources_total"`
	SourcesLoaded int       `json:"sources_loaded"`
	RowsLoaded    int       `json:"rows_loaded"`
	RowsSkipped   int       `json:"rows_skipped"`
	Records       int       `json:"records"`
	Warnings      []string  `json:"warnings,omitempty"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// Degraded reports whether estimation quality is reduced: either nothing
// usable was loaded or some sources failed.
func (s *LoadStats) Degraded() bool {
	return s.Records == 0 || len(s.Warnings) > 0
}

// Loader builds a calibration Store from a set of tabular sources.
type Loader struct {
	sources []Source
	logger  *logging.Logger
}

// NewLoader creates a loader over the given sources.
func NewLoader(sources []Source, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{sources: sources, logger: logger}
}

// Load reads every source concurrently and aggregates the rows into a fresh
// immutable Store. Source failures are collected as warnings; the returned
// error is non-nil only when the context is cancelled.
func (l *Loader) Load(ctx context.Context) (*Store, *LoadStats, error) {
	stats := &LoadStats{SourcesTotal: len(l.sources), LoadedAt: time.Now().UTC()}

	var mu sync.Mutex
	var allRows []Row

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range l.sources {
		g.Go(func() error {
			rows, skipped, err := src.Load(gctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.Warnings = append(stats.Warnings, err.Error())
				l.logger.Warn("calibration source failed", "source", src.Name(), "error", err)
				return nil
			}
			stats.SourcesLoaded++
			stats.RowsLoaded += len(rows)
			stats.RowsSkipped += skipped
			allRows = append(allRows, rows...)
			l.logger.Debug("calibration source loaded", "source", src.Name(), "rows", len(rows), "skipped", skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Sort for a deterministic build; the running mean makes the result
	// order-insensitive anyway, but identical inputs should produce
	// byte-identical diagnostics too.
	sort.Slice(allRows, func(i, j int) bool {
		if allRows[i].Label != allRows[j].Label {
			return allRows[i].Label < allRows[j].Label
		}
		return allRows[i].Hours < allRows[j].Hours
	})

	builder := NewBuilder()
	for _, row := range allRows {
		if !builder.Add(row.Label, row.Hours) {
			stats.RowsLoaded--
			stats.RowsSkipped++
		}
	}

	store := builder.Build()
	stats.Records = store.Len()
	sort.Strings(stats.Warnings)

	l.logger.Info("calibration store built",
		"sources_loaded", stats.SourcesLoaded,
		"sources_total", stats.SourcesTotal,
		"rows", stats.RowsLoaded,
		"records", stats.Records,
		"warnings", len(stats.Warnings))

	return store, stats, nil
}

// DirSources discovers file-based calibration sources in a directory:
// *.csv, *.html/*.htm exports and *.sqlite/*.db workbooks. A missing
// directory yields no sources, which downstream treats as a degraded load.
func DirSources(dir string) ([]Source, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read calibration directory %s: %w", dir, err)
	}

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			sources = append(sources, &CSVSource{Path: path})
		case ".html", ".htm":
			sources = append(sources, &HTMLSource{Path: path})
		case ".sqlite", ".db":
			sources = append(sources, &SQLiteSource{Path: path})
		}
	}
	return sources, nil
}
