package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/dberrors"
)

const communityNameKey = "communities_name_lower_key"

var communityColumns = []string{
	"id", "name", "name_lower", "description", "community_type", "topics", "rules",
	"profile_photo_url", "background_photo_url", "member_count", "created_at", "updated_at",
}

// CommunityRepository handles database operations for communities
type CommunityRepository struct {
	db *pgxpool.Pool
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func scanCommunity(row pgx.Row) (*models.Community, error) {
	var c models.Community
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.NameLower,
		&c.Description,
		&c.Type,
		&c.Topics,
		&c.Rules,
		&c.ProfilePhotoURL,
		&c.BackgroundPhotoURL,
		&c.MemberCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommunityRepository) queryCommunities(ctx context.Context, query squirrel.SelectBuilder) ([]models.Community, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	communities := []models.Community{}
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		communities = append(communities, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return communities, nil
}

// Create inserts a community. member_count always starts at zero and the
// timestamps are filled from the database clock.
func (r *CommunityRepository) Create(ctx context.Context, c *models.Community) error {
	if c.Topics == nil {
		c.Topics = []string{}
	}
	if c.Rules == nil {
		c.Rules = []string{}
	}

	sql, args, err := squirrel.Insert("communities").
		Columns("id", "name", "name_lower", "description", "community_type", "topics", "rules",
			"profile_photo_url", "background_photo_url", "member_count").
		Values(c.ID, c.Name, c.NameLower, c.Description, c.Type, c.Topics, c.Rules,
			c.ProfilePhotoURL, c.BackgroundPhotoURL, 0).
		Suffix("RETURNING member_count, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.MemberCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, communityNameKey) {
			return apperrors.ErrNameTaken
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a community by ID
func (r *CommunityRepository) GetByID(ctx context.Context, id string) (*models.Community, error) {
	sql, args, err := squirrel.Select(communityColumns...).
		From("communities").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanCommunity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Community not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return c, nil
}

// List returns up to limit communities, newest first, after cursor
func (r *CommunityRepository) List(ctx context.Context, cursor string, limit int) ([]models.Community, error) {
	anchor, err := resolveCursor(ctx, r.db, "communities", cursor, nil)
	if err != nil {
		return nil, err
	}

	query := squirrel.Select(communityColumns...).From("communities")
	query = afterAnchor(query, anchor).Limit(uint64(limit))
	return r.queryCommunities(ctx, query)
}

// SearchByPrefix returns communities whose lower-cased name lies in [lo, hi],
// ordered by that name. The column uses the C collation so the range matches
// byte order and the unique index serves it.
func (r *CommunityRepository) SearchByPrefix(ctx context.Context, lo, hi string, limit int) ([]models.Community, error) {
	query := squirrel.Select(communityColumns...).
		From("communities").
		Where(squirrel.GtOrEq{"name_lower": lo}).
		Where(squirrel.LtOrEq{"name_lower": hi}).
		OrderBy("name_lower").
		Limit(uint64(limit))
	return r.queryCommunities(ctx, query)
}

// ScanFirst returns the n newest communities
func (r *CommunityRepository) ScanFirst(ctx context.Context, n int) ([]models.Community, error) {
	query := squirrel.Select(communityColumns...).
		From("communities").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(n))
	return r.queryCommunities(ctx, query)
}
