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

var profileColumns = []string{
	"user_id", "first_name", "middle_name", "last_name", "phone_number", "email_address",
	"profile_photo_url", "residential_address", "resume_url", "profession", "gender", "summary",
	"created_at", "updated_at",
}

// UserProfileRepository handles database operations for user profiles
type UserProfileRepository struct {
	db *pgxpool.Pool
}

// NewUserProfileRepository creates a new UserProfileRepository
func NewUserProfileRepository(db *pgxpool.Pool) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.UserID,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.PhoneNumber,
		&p.EmailAddress,
		&p.ProfilePhotoURL,
		&p.ResidentialAddress,
		&p.ResumeURL,
		&p.Profession,
		&p.Gender,
		&p.Summary,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a profile
func (r *UserProfileRepository) Create(ctx context.Context, p *models.UserProfile) error {
	sql, args, err := squirrel.Insert("user_profiles").
		Columns(profileColumns[:len(profileColumns)-2]...).
		Values(
			p.UserID, p.FirstName, p.MiddleName, p.LastName, p.PhoneNumber, p.EmailAddress,
			p.ProfilePhotoURL, p.ResidentialAddress, p.ResumeURL, p.Profession, p.Gender, p.Summary,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.NewConflictError("Profile already exists for this user.")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves the profile of userID
func (r *UserProfileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	sql, args, err := squirrel.Select(profileColumns...).
		From("user_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Profile not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return p, nil
}

// GetByIDs returns the profiles that exist among userIDs, keyed by user id
func (r *UserProfileRepository) GetByIDs(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	found := make(map[string]models.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return found, nil
	}

	sql, args, err := squirrel.Select(profileColumns...).
		From("user_profiles").
		Where(squirrel.Eq{"user_id": userIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		found[p.UserID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return found, nil
}

// Update applies the column changes to a profile and returns the result
func (r *UserProfileRepository) Update(ctx context.Context, userID string, changes map[string]interface{}) (*models.UserProfile, error) {
	sql, args, err := squirrel.Update("user_profiles").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Profile not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return p, nil
}
