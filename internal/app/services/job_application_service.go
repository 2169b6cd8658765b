package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/events"
	"github.com/yigit/bluecollar/internal/pkg/ids"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
)

// JobApplicationService runs the application lifecycle: a worker applies
// (pending), an employer sets the status, the worker may withdraw.
type JobApplicationService interface {
	Apply(ctx context.Context, workerID, jobID string) (*models.JobApplication, error)
	CheckExists(ctx context.Context, workerID, jobID string) (bool, error)
	Withdraw(ctx context.Context, workerID, jobID string) error
	SetStatus(ctx context.Context, applicationID, status string) (*models.JobApplication, error)
	ListForWorker(ctx context.Context, workerID string) (*dto.AppliedJobsResponse, error)
	ListForJob(ctx context.Context, jobID string) (*dto.JobApplicantsResponse, error)
}

type jobApplicationServiceImpl struct {
	applicationRepo JobApplicationStore
	jobPostRepo     JobPostStore
	profileRepo     UserProfileStore
	events          events.Publisher
	logger          zerolog.Logger
}

// NewJobApplicationService creates a new JobApplicationService
func NewJobApplicationService(
	applicationRepo JobApplicationStore,
	jobPostRepo JobPostStore,
	profileRepo UserProfileStore,
	publisher events.Publisher,
	logger zerolog.Logger,
) JobApplicationService {
	return &jobApplicationServiceImpl{
		applicationRepo: applicationRepo,
		jobPostRepo:     jobPostRepo,
		profileRepo:     profileRepo,
		events:          publisher,
		logger:          logger,
	}
}

func requirePair(workerID, jobID string) error {
	if strings.TrimSpace(workerID) == "" || strings.TrimSpace(jobID) == "" {
		return apperrors.NewValidationError("Missing required fields: worker_id and jobId are required")
	}
	return nil
}

// Apply creates a pending application for (workerID, jobID)
func (s *jobApplicationServiceImpl) Apply(ctx context.Context, workerID, jobID string) (app *models.JobApplication, err error) {
	defer func() { metrics.ObserveApplication("apply", err) }()

	if err := requirePair(workerID, jobID); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("workerId", workerID).Str("jobId", jobID).Msg("Applying for job")

	if _, err := s.jobPostRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	id := ids.ApplicationID(workerID, jobID)
	exists, err := s.applicationRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplication
	}

	app = &models.JobApplication{
		ID:       id,
		WorkerID: workerID,
		JobID:    jobID,
		Status:   models.ApplicationPending,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if !apperrors.Is(err, apperrors.ErrDuplicateApplication) {
			s.logger.Error().Err(err).Str("applicationId", id).Msg("Failed to create application")
		}
		return nil, err
	}

	s.events.Publish(ctx, events.TopicApplication, events.ApplicationCreated, jobID, app)
	return app, nil
}

// CheckExists reports whether workerID has applied to jobID
func (s *jobApplicationServiceImpl) CheckExists(ctx context.Context, workerID, jobID string) (bool, error) {
	if err := requirePair(workerID, jobID); err != nil {
		return false, err
	}
	return s.applicationRepo.Exists(ctx, ids.ApplicationID(workerID, jobID))
}

// Withdraw deletes the application for (workerID, jobID)
func (s *jobApplicationServiceImpl) Withdraw(ctx context.Context, workerID, jobID string) (err error) {
	defer func() { metrics.ObserveApplication("withdraw", err) }()

	if err := requirePair(workerID, jobID); err != nil {
		return err
	}

	id := ids.ApplicationID(workerID, jobID)
	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(ctx, events.TopicApplication, events.ApplicationWithdraw, jobID, map[string]string{
		"applicationId": id,
		"workerId":      workerID,
		"jobId":         jobID,
	})
	return nil
}

// SetStatus overwrites the status of an application. Any transition between
// the three statuses is allowed, including back to pending.
func (s *jobApplicationServiceImpl) SetStatus(ctx context.Context, applicationID, status string) (app *models.JobApplication, err error) {
	defer func() { metrics.ObserveApplication("set_status", err) }()

	if strings.TrimSpace(applicationID) == "" || strings.TrimSpace(status) == "" {
		return nil, apperrors.NewValidationError("Missing required fields: applicationId and status are required")
	}
	next := models.ApplicationStatus(status)
	if !next.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	app, err = s.applicationRepo.UpdateStatus(ctx, applicationID, next)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.TopicApplication, events.ApplicationStatus, app.JobID, app)
	return app, nil
}

// ListForWorker returns the jobs a worker applied to. Applications whose job
// post has been deleted are left out.
func (s *jobApplicationServiceImpl) ListForWorker(ctx context.Context, workerID string) (*dto.AppliedJobsResponse, error) {
	if strings.TrimSpace(workerID) == "" {
		return nil, apperrors.NewValidationError("workerId is required")
	}

	apps, err := s.applicationRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	jobIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
	}
	jobs, err := s.jobPostRepo.GetByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppliedJobResponse, 0, len(apps))
	for _, a := range apps {
		job, ok := jobs[a.JobID]
		if !ok {
			continue
		}
		out = append(out, dto.AppliedJobResponse{
			JobPost:           job,
			ApplicationID:     a.ID,
			ApplicationStatus: a.Status,
			AppliedAt:         a.CreatedAt,
		})
	}
	return &dto.AppliedJobsResponse{Jobs: out}, nil
}

// ListForJob returns the applicants of a job. Applicants without a profile
// are left out.
func (s *jobApplicationServiceImpl) ListForJob(ctx context.Context, jobID string) (*dto.JobApplicantsResponse, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.NewValidationError("Job ID is required")
	}

	apps, err := s.applicationRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	workerIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		workerIDs = append(workerIDs, a.WorkerID)
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, workerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.JobApplicantResponse, 0, len(apps))
	for _, a := range apps {
		profile, ok := profiles[a.WorkerID]
		if !ok {
			continue
		}
		out = append(out, dto.JobApplicantResponse{
			UserProfile:       profile,
			ApplicationID:     a.ID,
			ApplicationStatus: a.Status,
			AppliedAt:         a.CreatedAt,
		})
	}
	return &dto.JobApplicantsResponse{Workers: out}, nil
}
