package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
	"github.com/yigit/bluecollar/internal/pkg/ids"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
	"github.com/yigit/bluecollar/internal/pkg/search"
)

// CommunityListLimit is the fixed page size of the community listing
const CommunityListLimit = 20

// CommunityService defines the interface for community operations
type CommunityService interface {
	CreateCommunity(ctx context.Context, req *dto.CreateCommunityRequest, profilePhoto, backgroundPhoto *filestorage.Upload) (*models.Community, error)
	GetCommunity(ctx context.Context, id string) (*models.Community, error)
	ListCommunities(ctx context.Context, cursor string) (*dto.CommunityListResponse, error)
	SearchCommunities(ctx context.Context, name, rawLimit string) (*dto.CommunitySearchResponse, error)
}

// communityServiceImpl implements CommunityService
type communityServiceImpl struct {
	communityRepo     CommunityStore
	cache             *CommunityCache
	blobs             filestorage.BlobStore
	fallbackScanLimit int
	logger            zerolog.Logger
}

// NewCommunityService creates a new CommunityService. fallbackScanLimit is
// how many of the newest communities the substring search fallback reads.
func NewCommunityService(
	communityRepo CommunityStore,
	cache *CommunityCache,
	blobs filestorage.BlobStore,
	fallbackScanLimit int,
	logger zerolog.Logger,
) CommunityService {
	return &communityServiceImpl{
		communityRepo:     communityRepo,
		cache:             cache,
		blobs:             blobs,
		fallbackScanLimit: fallbackScanLimit,
		logger:            logger,
	}
}

// CreateCommunity validates the request and both photos before anything is
// written, then uploads the photos and inserts the community.
func (s *communityServiceImpl) CreateCommunity(ctx context.Context, req *dto.CreateCommunityRequest, profilePhoto, backgroundPhoto *filestorage.Upload) (*models.Community, error) {
	s.logger.Debug().Str("name", req.Name).Msg("Creating community")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Community name is required")
	}
	communityType := models.CommunityType(req.Type)
	if !communityType.IsValid() {
		return nil, apperrors.NewValidationError("Community type must be one of: public, restricted, private")
	}
	if err := filestorage.ValidateImage(profilePhoto); err != nil {
		return nil, err
	}
	if err := filestorage.ValidateImage(backgroundPhoto); err != nil {
		return nil, err
	}

	batch := newBlobBatch(s.blobs, s.logger)
	profileURL, err := batch.put(ctx, profilePhoto, filestorage.FolderCommunityPhotos)
	if err != nil {
		return nil, err
	}
	backgroundURL, err := batch.put(ctx, backgroundPhoto, filestorage.FolderCommunityPhotos)
	if err != nil {
		batch.discard(ctx)
		return nil, err
	}

	community := &models.Community{
		ID:                 ids.New(),
		Name:               name,
		NameLower:          search.Normalize(name),
		Description:        req.Description,
		Type:               communityType,
		Topics:             compact(req.Topics),
		Rules:              compact(req.Rules),
		ProfilePhotoURL:    profileURL,
		BackgroundPhotoURL: backgroundURL,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		batch.discard(ctx)
		if !apperrors.Is(err, apperrors.ErrNameTaken) {
			s.logger.Error().Err(err).Str("name", name).Msg("Failed to create community")
		}
		return nil, err
	}

	s.logger.Info().Str("communityId", community.ID).Str("name", name).Msg("Community created")
	return community, nil
}

// GetCommunity reads a community through the cache
func (s *communityServiceImpl) GetCommunity(ctx context.Context, id string) (*models.Community, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("Community ID is required")
	}

	c, err := s.cache.Get(ctx, id, func(ctx context.Context) (models.Community, error) {
		c, err := s.communityRepo.GetByID(ctx, id)
		if err != nil {
			return models.Community{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommunities returns one fixed-size page of communities, newest first
func (s *communityServiceImpl) ListCommunities(ctx context.Context, cursor string) (*dto.CommunityListResponse, error) {
	s.logger.Debug().Str("cursor", cursor).Msg("Listing communities")

	communities, err := s.communityRepo.List(ctx, strings.TrimSpace(cursor), CommunityListLimit)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(communities, CommunityListLimit, func(c models.Community) string { return c.ID })
	return &dto.CommunityListResponse{
		Communities: page.Items,
		NextCursor:  page.NextCursor,
		HasMore:     page.HasMore,
	}, nil
}

// SearchCommunities finds communities whose name starts with name. When the
// prefix range is empty it falls back to a substring match over the newest
// communities, which also catches matches in the middle of a name.
func (s *communityServiceImpl) SearchCommunities(ctx context.Context, name, rawLimit string) (*dto.CommunitySearchResponse, error) {
	limit, err := pagination.ParseLimit(rawLimit, search.DefaultLimit, search.MaxLimit)
	if err != nil {
		return nil, err
	}
	lo, hi, err := search.PrefixBounds(name)
	if err != nil {
		return nil, err
	}

	results, err := s.communityRepo.SearchByPrefix(ctx, lo, hi, limit)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		scanned, err := s.communityRepo.ScanFirst(ctx, s.fallbackScanLimit)
		if err != nil {
			return nil, err
		}
		results = search.FilterSubstring(scanned, lo, func(c models.Community) string { return c.Name }, limit)
		metrics.ObserveSearchFallback()
		s.logger.Debug().Str("term", lo).Int("matches", len(results)).Msg("Search served by substring fallback")
	}

	return &dto.CommunitySearchResponse{Results: results, Count: len(results)}, nil
}

// compact trims entries and drops empty ones
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
