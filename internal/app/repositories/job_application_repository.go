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

const applicationStatusCheck = "job_applications_status_check"

var applicationColumns = []string{"id", "worker_id", "job_id", "status", "created_at", "updated_at"}

// JobApplicationRepository handles database operations for job applications.
// Application ids are derived from (worker, job), so the primary key alone
// enforces one application per pair.
type JobApplicationRepository struct {
	db *pgxpool.Pool
}

// NewJobApplicationRepository creates a new JobApplicationRepository
func NewJobApplicationRepository(db *pgxpool.Pool) *JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

func scanApplication(row pgx.Row) (*models.JobApplication, error) {
	var a models.JobApplication
	if err := row.Scan(&a.ID, &a.WorkerID, &a.JobID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *JobApplicationRepository) queryApplications(ctx context.Context, where squirrel.Eq) ([]models.JobApplication, error) {
	sql, args, err := squirrel.Select(applicationColumns...).
		From("job_applications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
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

	apps := []models.JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return apps, nil
}

// Exists checks if an application with id exists
func (r *JobApplicationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// Create inserts a pending application. A concurrent or earlier application
// for the same pair yields ErrDuplicateApplication and leaves the stored row
// untouched.
func (r *JobApplicationRepository) Create(ctx context.Context, a *models.JobApplication) error {
	sql, args, err := squirrel.Insert("job_applications").
		Columns("id", "worker_id", "job_id", "status").
		Values(a.ID, a.WorkerID, a.JobID, a.Status).
		Suffix("ON CONFLICT (id) DO NOTHING RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrDuplicateApplication
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Delete removes an application
func (r *JobApplicationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("No application found for this worker and job")
	}
	return nil
}

// UpdateStatus overwrites the status of an application
func (r *JobApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.JobApplication, error) {
	sql, args, err := squirrel.Update("job_applications").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(applicationColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	a, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Application not found")
		}
		if dberrors.IsCheckViolation(err, applicationStatusCheck) {
			return nil, apperrors.ErrInvalidStatus
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return a, nil
}

// ListByWorker returns a worker's applications, newest first
func (r *JobApplicationRepository) ListByWorker(ctx context.Context, workerID string) ([]models.JobApplication, error) {
	return r.queryApplications(ctx, squirrel.Eq{"worker_id": workerID})
}

// ListByJob returns the applications to a job, newest first
func (r *JobApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	return r.queryApplications(ctx, squirrel.Eq{"job_id": jobID})
}
