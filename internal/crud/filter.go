package crud

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips combining marks, so "María" and "maria" compare
// equal.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Filter is a pure function of (records, query): the subset whose configured
// fields contain the folded query as a substring. The empty query returns the
// input unchanged.
func Filter[T any](records []T, query string, fields func(T) []string) []T {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, f := range fields(r) {
			if strings.Contains(Fold(f), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
