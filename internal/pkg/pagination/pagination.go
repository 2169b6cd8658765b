// Package pagination holds the forward-only cursor contract shared by every
// listing endpoint. A cursor is the id of the last item of the previous page;
// ordering is (created_at DESC, id DESC) so ties on the timestamp still give a
// total order.
package pagination

import (
	"strconv"
	"strings"

	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor is returned when a cursor does not resolve to an
	// existing item of the listed collection.
	ErrInvalidCursor = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid cursor provided")
	// ErrInvalidLimit is returned for a non numeric or out of range limit.
	ErrInvalidLimit = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Limit must be a number between 1 and 100")
)

// Request is a validated page request
type Request struct {
	Cursor string
	Limit  int
}

// Page is one page of results
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// ParseLimit parses a raw query value. An empty value yields def; anything
// that is not an integer in [1, max] is rejected rather than clamped.
func ParseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

// NewRequest builds a Request from raw query values
func NewRequest(cursor, rawLimit string, def, max int) (Request, error) {
	limit, err := ParseLimit(rawLimit, def, max)
	if err != nil {
		return Request{}, err
	}
	return Request{Cursor: strings.TrimSpace(cursor), Limit: limit}, nil
}

// NewPage wraps a fetched slice. HasMore is true when the page came back
// exactly full; it may report a final empty page, which callers accept.
func NewPage[T any](items []T, limit int, idOf func(T) string) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Items: items}
	if len(items) > 0 {
		page.NextCursor = idOf(items[len(items)-1])
	}
	page.HasMore = limit > 0 && len(items) == limit
	return page
}
