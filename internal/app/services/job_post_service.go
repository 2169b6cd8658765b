package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/repositories"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/ids"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

// JobPostService defines the interface for job post operations
type JobPostService interface {
	CreateJobPost(ctx context.Context, req *dto.CreateJobPostRequest) (*models.JobPost, error)
	EditJobPost(ctx context.Context, req *dto.EditJobPostRequest) (*models.JobPost, error)
	DeleteJobPost(ctx context.Context, jobID, employerID string) error
	ListJobPosts(ctx context.Context, filter dto.JobPostFilter, rawLimit string) (*dto.JobPostListResponse, error)
	GetJobPost(ctx context.Context, id string) (*models.JobPost, error)
}

type jobPostServiceImpl struct {
	jobPostRepo JobPostStore
	logger      zerolog.Logger
}

// NewJobPostService creates a new JobPostService
func NewJobPostService(jobPostRepo JobPostStore, logger zerolog.Logger) JobPostService {
	return &jobPostServiceImpl{
		jobPostRepo: jobPostRepo,
		logger:      logger,
	}
}

// CreateJobPost publishes a new opening
func (s *jobPostServiceImpl) CreateJobPost(ctx context.Context, req *dto.CreateJobPostRequest) (*models.JobPost, error) {
	if strings.TrimSpace(req.EmployerID) == "" || strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.TypeOfWork) == "" {
		return nil, apperrors.NewValidationError("Missing required fields: employer_id, job_title, and type_of_work are required")
	}

	job := &models.JobPost{
		ID:           ids.New(),
		EmployerID:   req.EmployerID,
		EmployerName: req.EmployerName,
		JobTitle:     req.JobTitle,
		PlaceOfWork:  req.PlaceOfWork,
		Location: models.Location{
			City:     req.City,
			State:    req.State,
			District: req.District,
			Pincode:  req.Pincode,
		},
		Vacancies:                   req.Vacancies,
		SpecialWomanProvision:       req.SpecialWomanProvision,
		SpecialTransgenderProvision: req.SpecialTransgenderProvision,
		SpecialDisabilityProvision:  req.SpecialDisabilityProvision,
		Wage:                        req.Wage,
		HoursPerWeek:                req.HoursPerWeek,
		JobDuration:                 req.JobDuration,
		StartTime:                   req.StartTime,
		EndTime:                     req.EndTime,
		TypeOfWork:                  req.TypeOfWork,
		JobRoleDescription:          req.JobRoleDescription,
	}
	if err := s.jobPostRepo.Create(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("employerId", req.EmployerID).Msg("Failed to create job post")
		return nil, err
	}

	s.logger.Info().Str("jobId", job.ID).Str("employerId", job.EmployerID).Msg("Job post created")
	return job, nil
}

// ownedJob loads a job post and checks it belongs to employerID
func (s *jobPostServiceImpl) ownedJob(ctx context.Context, jobID, employerID string) (*models.JobPost, error) {
	if strings.TrimSpace(jobID) == "" || strings.TrimSpace(employerID) == "" {
		return nil, apperrors.NewValidationError("Missing required fields: jobId and employer_id are required")
	}
	job, err := s.jobPostRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, apperrors.NewForbiddenError("Unauthorized: employer_id does not match job post owner")
	}
	return job, nil
}

// EditJobPost updates the supplied fields of a job post owned by the caller
func (s *jobPostServiceImpl) EditJobPost(ctx context.Context, req *dto.EditJobPostRequest) (*models.JobPost, error) {
	job, err := s.ownedJob(ctx, req.JobID, req.EmployerID)
	if err != nil {
		return nil, err
	}

	changes := req.Changes()
	if v, ok := changes["job_title"].(string); ok && strings.TrimSpace(v) == "" {
		return nil, apperrors.NewValidationError("job_title cannot be empty")
	}
	if v, ok := changes["type_of_work"].(string); ok && strings.TrimSpace(v) == "" {
		return nil, apperrors.NewValidationError("type_of_work cannot be empty")
	}
	if len(changes) == 0 {
		return job, nil
	}

	return s.jobPostRepo.Update(ctx, req.JobID, changes)
}

// DeleteJobPost removes a job post owned by the caller
func (s *jobPostServiceImpl) DeleteJobPost(ctx context.Context, jobID, employerID string) error {
	if _, err := s.ownedJob(ctx, jobID, employerID); err != nil {
		return err
	}
	if err := s.jobPostRepo.Delete(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info().Str("jobId", jobID).Msg("Job post deleted")
	return nil
}

// ListJobPosts returns job posts, newest first
func (s *jobPostServiceImpl) ListJobPosts(ctx context.Context, filter dto.JobPostFilter, rawLimit string) (*dto.JobPostListResponse, error) {
	limit, err := pagination.ParseLimit(rawLimit, pagination.DefaultLimit, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobPostRepo.List(ctx, repositories.JobPostFilter{
		EmployerID: strings.TrimSpace(filter.EmployerID),
		TypeOfWork: strings.TrimSpace(filter.TypeOfWork),
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return &dto.JobPostListResponse{Jobs: jobs, Count: len(jobs)}, nil
}

// GetJobPost retrieves a single job post
func (s *jobPostServiceImpl) GetJobPost(ctx context.Context, id string) (*models.JobPost, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("Job post id is required")
	}
	return s.jobPostRepo.GetByID(ctx, id)
}
