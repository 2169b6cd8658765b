// Package search implements the community name lookup: an ordered range scan
// over the lower-cased name column with an in-memory substring fallback.
package search

import (
	"strings"

	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

// RangeSentinel is appended to the term to form the inclusive upper bound of
// the prefix range. It sorts after every character a name realistically
// contains when the column uses byte-wise ("C") collation.
const RangeSentinel = "\uf8ff"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ErrEmptyTerm is returned when the search term is blank
var ErrEmptyTerm = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Community name is required")

// Normalize trims and case-folds a user supplied term
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// PrefixBounds returns the inclusive [lo, hi] range matching every name that
// starts with term.
func PrefixBounds(term string) (lo, hi string, err error) {
	lo = Normalize(term)
	if lo == "" {
		return "", "", ErrEmptyTerm
	}
	return lo, lo + RangeSentinel, nil
}

// FilterSubstring keeps items whose name contains term (case-insensitive),
// preserving input order and returning at most limit items.
func FilterSubstring[T any](items []T, term string, nameOf func(T) string, limit int) []T {
	needle := Normalize(term)
	out := make([]T, 0, min(len(items), max(limit, 0)))
	if needle == "" || limit <= 0 {
		return out
	}
	for _, item := range items {
		if strings.Contains(strings.ToLower(nameOf(item)), needle) {
			out = append(out, item)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
