package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/db"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

var membershipColumns = []string{"community_id", "user_id", "community_name", "status", "joined_at"}

// MembershipRepository owns community_memberships and is the only writer of
// communities.member_count. Every membership row change and its counter
// update run in one transaction.
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func scanMembership(row pgx.Row) (*models.Membership, error) {
	var m models.Membership
	if err := row.Scan(&m.CommunityID, &m.UserID, &m.CommunityName, &m.Status, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the membership of userID in communityID
func (r *MembershipRepository) Get(ctx context.Context, communityID, userID string) (*models.Membership, error) {
	sql, args, err := squirrel.Select(membershipColumns...).
		From("community_memberships").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	m, err := scanMembership(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Membership not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// Exists checks if userID is a member of communityID
func (r *MembershipRepository) Exists(ctx context.Context, communityID, userID string) (bool, error) {
	sql, args, err := squirrel.Select("1").
		From("community_memberships").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return true, nil
}

// Join inserts the membership and increments the counter atomically. The
// community row is locked first so concurrent joins and leaves on the same
// community serialize, and its name is re-checked under the lock.
func (r *MembershipRepository) Join(ctx context.Context, userID, communityID, communityName string) (*models.Membership, error) {
	var membership *models.Membership

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var storedName string
		err := tx.QueryRow(ctx, `SELECT name FROM communities WHERE id = $1 FOR UPDATE`, communityID).Scan(&storedName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewResourceNotFoundError("Community not found")
			}
			return fmt.Errorf("error locking community: %w", err)
		}
		if storedName != communityName {
			return apperrors.ErrNameMismatch
		}

		sql, args, err := squirrel.Insert("community_memberships").
			Columns("community_id", "user_id", "community_name", "status").
			Values(communityID, userID, communityName, models.MembershipActive).
			Suffix("ON CONFLICT (community_id, user_id) DO NOTHING RETURNING " + joinColumns(membershipColumns)).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		membership, err = scanMembership(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error inserting membership: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE communities SET member_count = member_count + 1, updated_at = NOW() WHERE id = $1`,
			communityID,
		); err != nil {
			return fmt.Errorf("error incrementing member count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Leave deletes the membership and decrements the counter atomically. The
// decrement is guarded so the counter can never go below zero; if the guard
// trips the whole transaction is rolled back.
func (r *MembershipRepository) Leave(ctx context.Context, userID, communityID string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT 1 FROM communities WHERE id = $1 FOR UPDATE`, communityID); err != nil {
			return fmt.Errorf("error locking community: %w", err)
		}

		sql, args, err := squirrel.Delete("community_memberships").
			Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting membership: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Membership not found")
		}

		tag, err = tx.Exec(ctx,
			`UPDATE communities SET member_count = member_count - 1, updated_at = NOW() WHERE id = $1 AND member_count > 0`,
			communityID,
		)
		if err != nil {
			return fmt.Errorf("error decrementing member count: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCounterUnderflow
		}
		return nil
	})
}

// ListByUser returns userID's memberships, most recent first. A limit of
// zero returns all of them.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Membership, error) {
	query := squirrel.Select(membershipColumns...).
		From("community_memberships").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("joined_at DESC", "community_id").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	memberships := []models.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		memberships = append(memberships, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return memberships, nil
}
