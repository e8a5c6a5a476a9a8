// Package calibration builds the historical calibration store from tabular sources.
package calibration

import (
	"strings"
	"unicode"
)

// stopwords are domain-neutral terms stripped during normalization so that
// labels like "User Management Module" and "management" collapse onto the
// same calibration bucket key space.
var stopwords = map[string]struct{}{
	"user":       {},
	"management": {},
	"system":     {},
	"module":     {},
	"service":    {},
	"and":        {},
	"&":          {},
	"the":        {},
	"a":          {},
	"an":         {},
	"for":        {},
	"with":       {},
}

// Normalize produces the canonical form of a feature label: lowercase,
// punctuation replaced by spaces, whitespace collapsed, stopwords removed.
// Two labels belong to the same calibration bucket iff their normalized
// forms are identical. The result may be empty when the label consists
// entirely of stopwords.
func Normalize(name string) string {
	return strings.Join(Tokens(name), " ")
}

// Tokens returns the normalized token list for a feature label.
func Tokens(name string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	fields := strings.Fields(sb.String())
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
