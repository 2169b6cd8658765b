package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/bluecollar/internal/db"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

// keysetAnchor is the (created_at, id) position a cursor points at
type keysetAnchor struct {
	CreatedAt time.Time
	ID        string
}

// resolveCursor looks up the row a cursor names. The cursor must exist in
// table and, when scope is non-empty, match it; otherwise ErrInvalidCursor.
// An empty cursor resolves to nil, meaning "start from the top".
func resolveCursor(ctx context.Context, q db.Querier, table, cursor string, scope squirrel.Eq) (*keysetAnchor, error) {
	if cursor == "" {
		return nil, nil
	}

	where := squirrel.Eq{"id": cursor}
	for k, v := range scope {
		where[k] = v
	}

	sql, args, err := squirrel.Select("created_at", "id").
		From(table).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var anchor keysetAnchor
	if err := q.QueryRow(ctx, sql, args...).Scan(&anchor.CreatedAt, &anchor.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pagination.ErrInvalidCursor
		}
		return nil, fmt.Errorf("error resolving cursor: %w", err)
	}
	return &anchor, nil
}

// afterAnchor restricts a newest-first query to rows strictly after anchor.
// The row-value comparison keeps the order total when timestamps tie.
func afterAnchor(q squirrel.SelectBuilder, anchor *keysetAnchor) squirrel.SelectBuilder {
	q = q.OrderBy("created_at DESC", "id DESC")
	if anchor == nil {
		return q
	}
	return q.Where("(created_at, id) < (?, ?)", anchor.CreatedAt, anchor.ID)
}
