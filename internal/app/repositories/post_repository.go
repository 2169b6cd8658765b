package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/db"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

var postColumns = []string{
	"id", "community_id", "title", "content", "author", "author_id", "image_url",
	"likes", "dislikes", "comments", "created_at", "updated_at",
}

// PostRepository handles database operations for community posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var comments []byte
	err := row.Scan(
		&p.ID,
		&p.CommunityID,
		&p.Title,
		&p.Content,
		&p.Author,
		&p.AuthorID,
		&p.ImageURL,
		&p.Likes,
		&p.Dislikes,
		&comments,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Comments = []models.Comment{}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &p.Comments); err != nil {
			return nil, fmt.Errorf("error decoding comments: %w", err)
		}
	}
	return &p, nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query squirrel.SelectBuilder) ([]models.Post, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return posts, nil
}

// Create inserts a post and bumps the community's last activity time in the
// same transaction
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	sql, args, err := squirrel.Insert("community_posts").
		Columns("id", "community_id", "title", "content", "author", "author_id", "image_url").
		Values(p.ID, p.CommunityID, p.Title, p.Content, p.Author, p.AuthorID, p.ImageURL).
		Suffix("RETURNING likes, dislikes, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&p.Likes, &p.Dislikes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("error inserting post: %w", err)
		}
		tag, err := tx.Exec(ctx, `UPDATE communities SET updated_at = NOW() WHERE id = $1`, p.CommunityID)
		if err != nil {
			return fmt.Errorf("error touching community: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Community not found")
		}
		p.Comments = []models.Comment{}
		return nil
	})
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	sql, args, err := squirrel.Select(postColumns...).
		From("community_posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Post not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return p, nil
}

// ListByCommunity returns a page of a community's posts, newest first. The
// cursor must name a post of the same community.
func (r *PostRepository) ListByCommunity(ctx context.Context, communityID, cursor string, limit int) ([]models.Post, error) {
	anchor, err := resolveCursor(ctx, r.db, "community_posts", cursor, squirrel.Eq{"community_id": communityID})
	if err != nil {
		return nil, err
	}

	query := squirrel.Select(postColumns...).
		From("community_posts").
		Where(squirrel.Eq{"community_id": communityID})
	query = afterAnchor(query, anchor).Limit(uint64(limit))
	return r.queryPosts(ctx, query)
}

// LatestByCommunity returns the n newest posts of a community
func (r *PostRepository) LatestByCommunity(ctx context.Context, communityID string, n int) ([]models.Post, error) {
	return r.ListByCommunity(ctx, communityID, "", n)
}

// AppendComment adds a comment to the end of the post's embedded array
func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	raw, err := json.Marshal([]models.Comment{comment})
	if err != nil {
		return fmt.Errorf("error encoding comment: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE community_posts SET comments = comments || $1::jsonb, updated_at = NOW() WHERE id = $2`,
		string(raw), postID,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Post not found")
	}
	return nil
}
