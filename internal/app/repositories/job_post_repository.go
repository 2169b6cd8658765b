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
)

var jobPostColumns = []string{
	"id", "employer_id", "employer_name", "job_title", "place_of_work",
	"city", "state", "district", "pincode", "vacancies",
	"special_woman_provision", "special_transgender_provision", "special_disability_provision",
	"wage", "hours_per_week", "job_duration", "start_time", "end_time",
	"type_of_work", "job_role_description", "created_at", "updated_at",
}

// JobPostFilter narrows List. Empty fields do not filter.
type JobPostFilter struct {
	EmployerID string
	TypeOfWork string
	Limit      int
}

// JobPostRepository handles database operations for job posts
type JobPostRepository struct {
	db *pgxpool.Pool
}

// NewJobPostRepository creates a new JobPostRepository
func NewJobPostRepository(db *pgxpool.Pool) *JobPostRepository {
	return &JobPostRepository{db: db}
}

func scanJobPost(row pgx.Row) (*models.JobPost, error) {
	var j models.JobPost
	err := row.Scan(
		&j.ID,
		&j.EmployerID,
		&j.EmployerName,
		&j.JobTitle,
		&j.PlaceOfWork,
		&j.Location.City,
		&j.Location.State,
		&j.Location.District,
		&j.Location.Pincode,
		&j.Vacancies,
		&j.SpecialWomanProvision,
		&j.SpecialTransgenderProvision,
		&j.SpecialDisabilityProvision,
		&j.Wage,
		&j.HoursPerWeek,
		&j.JobDuration,
		&j.StartTime,
		&j.EndTime,
		&j.TypeOfWork,
		&j.JobRoleDescription,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobPostRepository) queryJobPosts(ctx context.Context, query squirrel.SelectBuilder) ([]models.JobPost, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	jobs := []models.JobPost{}
	for rows.Next() {
		j, err := scanJobPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return jobs, nil
}

// Create inserts a job post
func (r *JobPostRepository) Create(ctx context.Context, j *models.JobPost) error {
	sql, args, err := squirrel.Insert("job_posts").
		Columns(jobPostColumns[:len(jobPostColumns)-2]...).
		Values(
			j.ID, j.EmployerID, j.EmployerName, j.JobTitle, j.PlaceOfWork,
			j.Location.City, j.Location.State, j.Location.District, j.Location.Pincode, j.Vacancies,
			j.SpecialWomanProvision, j.SpecialTransgenderProvision, j.SpecialDisabilityProvision,
			j.Wage, j.HoursPerWeek, j.JobDuration, j.StartTime, j.EndTime,
			j.TypeOfWork, j.JobRoleDescription,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&j.CreatedAt, &j.UpdatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a job post by ID
func (r *JobPostRepository) GetByID(ctx context.Context, id string) (*models.JobPost, error) {
	sql, args, err := squirrel.Select(jobPostColumns...).
		From("job_posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	j, err := scanJobPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Job post not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return j, nil
}

// GetByIDs returns the job posts that still exist among ids, keyed by id
func (r *JobPostRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.JobPost, error) {
	found := make(map[string]models.JobPost, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	jobs, err := r.queryJobPosts(ctx, squirrel.Select(jobPostColumns...).
		From("job_posts").
		Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		found[j.ID] = j
	}
	return found, nil
}

// Update applies the column changes to a job post and returns the result
func (r *JobPostRepository) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.JobPost, error) {
	sql, args, err := squirrel.Update("job_posts").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(jobPostColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	j, err := scanJobPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Job post not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return j, nil
}

// Delete removes a job post. Applications referring to it are left in place
// and skipped when listed.
func (r *JobPostRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := squirrel.Delete("job_posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Job post not found")
	}
	return nil
}

// List returns job posts, newest first
func (r *JobPostRepository) List(ctx context.Context, filter JobPostFilter) ([]models.JobPost, error) {
	query := squirrel.Select(jobPostColumns...).
		From("job_posts").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit))

	if filter.EmployerID != "" {
		query = query.Where(squirrel.Eq{"employer_id": filter.EmployerID})
	}
	if filter.TypeOfWork != "" {
		query = query.Where(squirrel.Eq{"type_of_work": filter.TypeOfWork})
	}
	return r.queryJobPosts(ctx, query)
}
