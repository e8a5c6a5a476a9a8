// Package matching resolves feature names against the calibration store
// using a tiered fuzzy-matching chain.
package matching

import (
	"strings"

	"github.com/jonathan/project-estimator/internal/calibration"
	"github.com/jonathan/project-estimator/internal/types"
)

// MinUsableSamples is the evidence threshold below which a matched record is
// reported for diagnostics but not used for numeric blending.
const MinUsableSamples = 2

// tokenOverlapThreshold is the minimum Jaccard similarity for tier 3.
const tokenOverlapThreshold = 0.60

// Result is the outcome of matching one feature name.
type Result struct {
	Record     *calibration.Record
	Kind       types.MatchKind
	Similarity float64
}

// Usable reports whether the matched record carries enough samples to feed
// the calibration blend.
func (r Result) Usable() bool {
	return r.Record != nil && r.Record.SampleCount >= MinUsableSamples
}

// strategy is one tier of the matching chain. Tiers are tried strictly in
// order and the first hit wins; a lower tier is never revisited once a
// higher one matched.
type strategy interface {
	kind() types.MatchKind
	similarity(input string, label string) (float64, bool)
}

var tiers = []strategy{exactStrategy{}, containsStrategy{}, tokenOverlapStrategy{}}

// Match resolves a raw feature name to the single best calibration record.
// Within a tier, ties are broken by larger sample count, then by
// lexicographically smallest label; iteration over the sorted label list
// makes the whole chain deterministic.
func Match(name string, store *calibration.Store) Result {
	input := calibration.Normalize(name)
	if input == "" || store == nil || store.Len() == 0 {
		return Result{Kind: types.MatchNone}
	}

	for _, tier := range tiers {
		var best *calibration.Record
		bestSim := 0.0
		for _, label := range store.Labels() {
			sim, ok := tier.similarity(input, label)
			if !ok {
				continue
			}
			rec := store.Get(label)
			if best == nil || rec.SampleCount > best.SampleCount {
				best = rec
				bestSim = sim
			}
		}
		if best != nil {
			return Result{Record: best, Kind: tier.kind(), Similarity: bestSim}
		}
	}

	return Result{Kind: types.MatchNone}
}

// exactStrategy matches identical normalized forms.
type exactStrategy struct{}

func (exactStrategy) kind() types.MatchKind { return types.MatchExact }

func (exactStrategy) similarity(input, label string) (float64, bool) {
	if input == label {
		return 1.0, true
	}
	return 0, false
}

// containsStrategy matches when one normalized form is a substring of the
// other; similarity is the length ratio shorter/longer.
type containsStrategy struct{}

func (containsStrategy) kind() types.MatchKind { return types.MatchContains }

func (containsStrategy) similarity(input, label string) (float64, bool) {
	if !strings.Contains(input, label) && !strings.Contains(label, input) {
		return 0, false
	}
	shorter, longer := len(input), len(label)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 {
		return 0, false
	}
	return float64(shorter) / float64(longer), true
}

// tokenOverlapStrategy matches on Jaccard similarity of the token sets.
type tokenOverlapStrategy struct{}

func (tokenOverlapStrategy) kind() types.MatchKind { return types.MatchTokenOverlap }

func (tokenOverlapStrategy) similarity(input, label string) (float64, bool) {
	sim := jaccard(strings.Fields(input), strings.Fields(label))
	if sim >= tokenOverlapThreshold {
		return sim, true
	}
	return 0, false
}

// jaccard computes |A∩B| / |A∪B| over two token lists.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		setB[tok] = struct{}{}
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
