package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
)

// UserProfileService defines the interface for profile operations
type UserProfileService interface {
	CreateProfile(ctx context.Context, userID string, req *dto.ProfileRequest, photo, resume *filestorage.Upload) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.ProfileRequest, photo, resume *filestorage.Upload) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type userProfileServiceImpl struct {
	profileRepo UserProfileStore
	blobs       filestorage.BlobStore
	logger      zerolog.Logger
}

// NewUserProfileService creates a new UserProfileService
func NewUserProfileService(profileRepo UserProfileStore, blobs filestorage.BlobStore, logger zerolog.Logger) UserProfileService {
	return &userProfileServiceImpl{
		profileRepo: profileRepo,
		blobs:       blobs,
		logger:      logger,
	}
}

func validateProfileFiles(photo, resume *filestorage.Upload) error {
	if err := filestorage.ValidateImage(photo); err != nil {
		return err
	}
	return filestorage.ValidatePDF(resume)
}

// CreateProfile stores a new profile for userID
func (s *userProfileServiceImpl) CreateProfile(ctx context.Context, userID string, req *dto.ProfileRequest, photo, resume *filestorage.Upload) (*models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("User ID not provided")
	}
	if err := validateProfileFiles(photo, resume); err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.GetByID(ctx, userID); err == nil {
		return nil, apperrors.NewConflictError("Profile already exists for this user.")
	} else if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	batch := newBlobBatch(s.blobs, s.logger)
	photoURL, err := batch.put(ctx, photo, filestorage.FolderProfilePhotos)
	if err != nil {
		return nil, err
	}
	resumeURL, err := batch.put(ctx, resume, filestorage.FolderResumes)
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:             userID,
		FirstName:          req.FirstName,
		MiddleName:         req.MiddleName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		EmailAddress:       req.EmailAddress,
		ProfilePhotoURL:    photoURL,
		ResidentialAddress: req.ResidentialAddress,
		ResumeURL:          resumeURL,
		Profession:         req.Profession,
		Gender:             req.Gender,
		Summary:            req.Summary,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		batch.discard(ctx)
		return nil, err
	}

	s.logger.Info().Str("userId", userID).Msg("Profile created")
	return profile, nil
}

// UpdateProfile changes the non-empty fields of an existing profile and
// replaces the photo or resume when a new one is sent
func (s *userProfileServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.ProfileRequest, photo, resume *filestorage.Upload) (*models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("User ID not provided")
	}
	if err := validateProfileFiles(photo, resume); err != nil {
		return nil, err
	}

	existing, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := profileChanges(req)

	batch := newBlobBatch(s.blobs, s.logger)
	photoURL, err := batch.put(ctx, photo, filestorage.FolderProfilePhotos)
	if err != nil {
		return nil, err
	}
	resumeURL, err := batch.put(ctx, resume, filestorage.FolderResumes)
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}
	if photoURL != nil {
		changes["profile_photo_url"] = *photoURL
	}
	if resumeURL != nil {
		changes["resume_url"] = *resumeURL
	}

	if len(changes) == 0 {
		return existing, nil
	}

	updated, err := s.profileRepo.Update(ctx, userID, changes)
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}

	// the replaced files are no longer referenced
	if photoURL != nil && existing.ProfilePhotoURL != nil {
		s.removeBlob(ctx, *existing.ProfilePhotoURL)
	}
	if resumeURL != nil && existing.ResumeURL != nil {
		s.removeBlob(ctx, *existing.ResumeURL)
	}
	return updated, nil
}

// GetProfile retrieves the profile of userID
func (s *userProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("User ID not provided")
	}
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *userProfileServiceImpl) removeBlob(ctx context.Context, url string) {
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to remove replaced upload")
	}
}

func profileChanges(req *dto.ProfileRequest) map[string]interface{} {
	changes := make(map[string]interface{})
	set := func(col, v string) {
		if strings.TrimSpace(v) != "" {
			changes[col] = v
		}
	}
	set("first_name", req.FirstName)
	set("middle_name", req.MiddleName)
	set("last_name", req.LastName)
	set("phone_number", req.PhoneNumber)
	set("email_address", req.EmailAddress)
	set("residential_address", req.ResidentialAddress)
	set("profession", req.Profession)
	set("gender", req.Gender)
	set("summary", req.Summary)
	return changes
}
