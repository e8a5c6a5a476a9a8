package calibration

import "sort"

// Record is the aggregated historical evidence for one normalized label.
// Records are built once during a load and never mutated afterwards.
type Record struct {
	Label        string  `json:"label"`
	SampleCount  int     `json:"sample_count"`
	AverageHours float64 `json:"average_hours"`
}

// Store is an immutable snapshot of normalized label -> record. A Store is
// safe for unsynchronized concurrent reads; reloads build a fresh Store and
// publish it with an atomic swap rather than mutating in place.
type Store struct {
	records map[string]*Record
	labels  []string
}

// EmptyStore returns a store with no records. Matching against it always
// misses; estimation then runs on base hours alone.
func EmptyStore() *Store {
	return &Store{records: map[string]*Record{}}
}

// Get returns the record for a normalized label, or nil.
func (s *Store) Get(label string) *Record {
	return s.records[label]
}

// Labels returns all normalized labels in lexicographic order. The returned
// slice is shared and must not be modified.
func (s *Store) Labels() []string {
	return s.labels
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns all records ordered by label.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.labels))
	for _, label := range s.labels {
		out = append(out, s.records[label])
	}
	return out
}

// Builder accumulates rows into records using a running mean, so the result
// is independent of the order rows are observed in.
type Builder struct {
	records map[string]*Record
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{records: map[string]*Record{}}
}

// Add folds one observed (label, hours) pair into the builder. Labels that
// normalize to the empty string are ignored. Returns whether the row was
// accepted.
func (b *Builder) Add(label string, hours float64) bool {
	normalized := Normalize(label)
	if normalized == "" || hours <= 0 {
		return false
	}

	rec, ok := b.records[normalized]
	if !ok {
		rec = &Record{Label: normalized}
		b.records[normalized] = rec
	}

	rec.SampleCount++
	rec.AverageHours += (hours - rec.AverageHours) / float64(rec.SampleCount)
	return true
}

// Build freezes the accumulated records into an immutable Store.
func (b *Builder) Build() *Store {
	labels := make([]string, 0, len(b.records))
	records := make(map[string]*Record, len(b.records))
	for label, rec := range b.records {
		labels = append(labels, label)
		copied := *rec
		records[label] = &copied
	}
	sort.Strings(labels)

	return &Store{records: records, labels: labels}
}
