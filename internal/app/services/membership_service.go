package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/events"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
)

// MembershipService joins and leaves communities. It is the only code path
// that changes a community's member count.
type MembershipService interface {
	Join(ctx context.Context, req *dto.MembershipRequest) (*models.Membership, error)
	Leave(ctx context.Context, req *dto.MembershipRequest) error
	ListJoined(ctx context.Context, userID string) (*dto.JoinedCommunitiesResponse, error)
	IsMember(ctx context.Context, communityID, userID string) (bool, error)
}

type membershipServiceImpl struct {
	communityRepo  CommunityStore
	membershipRepo MembershipStore
	cache          *CommunityCache
	events         events.Publisher
	logger         zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	communityRepo CommunityStore,
	membershipRepo MembershipStore,
	cache *CommunityCache,
	publisher events.Publisher,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		events:         publisher,
		logger:         logger,
	}
}

func validateMembershipRequest(req *dto.MembershipRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	req.CommunityID = strings.TrimSpace(req.CommunityID)
	if req.UserID == "" || req.CommunityID == "" || req.CommunityName == "" {
		return apperrors.NewValidationError("Missing required fields: userId, communityId, communityName")
	}
	return nil
}

// Join adds userID to the community. Checks run in a fixed order: missing
// community, name mismatch, existing membership. The store repeats the
// last two under a row lock, so a racing duplicate join still fails cleanly.
func (s *membershipServiceImpl) Join(ctx context.Context, req *dto.MembershipRequest) (membership *models.Membership, err error) {
	defer func() { metrics.ObserveMembership("join", err) }()

	if err := validateMembershipRequest(req); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("userId", req.UserID).Str("communityId", req.CommunityID).Msg("Joining community")

	community, err := s.communityRepo.GetByID(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}
	if community.Name != req.CommunityName {
		return nil, apperrors.ErrNameMismatch
	}

	exists, err := s.membershipRepo.Exists(ctx, req.CommunityID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyMember
	}

	membership, err = s.membershipRepo.Join(ctx, req.UserID, req.CommunityID, req.CommunityName)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceNotFound, apperrors.ErrValidationFailed) {
			s.logger.Error().Err(err).Str("communityId", req.CommunityID).Msg("Join transaction failed")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, req.CommunityID)
	s.events.Publish(ctx, events.TopicMembership, events.MemberJoined, req.CommunityID, membership)
	s.logger.Info().Str("userId", req.UserID).Str("communityId", req.CommunityID).Msg("User joined community")
	return membership, nil
}

// Leave removes userID from the community. Checks run in a fixed order:
// missing membership, missing community, name mismatch.
func (s *membershipServiceImpl) Leave(ctx context.Context, req *dto.MembershipRequest) (err error) {
	defer func() { metrics.ObserveMembership("leave", err) }()

	if err := validateMembershipRequest(req); err != nil {
		return err
	}
	s.logger.Debug().Str("userId", req.UserID).Str("communityId", req.CommunityID).Msg("Leaving community")

	membership, err := s.membershipRepo.Get(ctx, req.CommunityID, req.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("User is not a member of this community")
		}
		return err
	}

	community, err := s.communityRepo.GetByID(ctx, req.CommunityID)
	if err != nil {
		return err
	}
	if community.Name != req.CommunityName {
		return apperrors.ErrNameMismatch
	}

	if err := s.membershipRepo.Leave(ctx, req.UserID, req.CommunityID); err != nil {
		if apperrors.Is(err, apperrors.ErrCounterUnderflow) {
			s.logger.Error().Str("communityId", req.CommunityID).Msg("Member count underflow, leave rolled back")
		} else if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Error().Err(err).Str("communityId", req.CommunityID).Msg("Leave transaction failed")
		}
		return err
	}

	s.cache.Invalidate(ctx, req.CommunityID)
	s.events.Publish(ctx, events.TopicMembership, events.MemberLeft, req.CommunityID, membership)
	s.logger.Info().Str("userId", req.UserID).Str("communityId", req.CommunityID).Msg("User left community")
	return nil
}

// ListJoined resolves each of the user's memberships to its community. A
// membership whose community is gone is still listed, flagged as orphaned.
// The schema cascades community deletes, so that only happens for rows
// written outside the API.
func (s *membershipServiceImpl) ListJoined(ctx context.Context, userID string) (*dto.JoinedCommunitiesResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("User ID is required")
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	joined := make([]dto.JoinedCommunityResponse, 0, len(memberships))
	for _, m := range memberships {
		entry := dto.JoinedCommunityResponse{
			CommunityID:   m.CommunityID,
			CommunityName: m.CommunityName,
			JoinedAt:      m.JoinedAt,
		}
		community, err := s.communityRepo.GetByID(ctx, m.CommunityID)
		switch {
		case err == nil:
			entry.Community = community
		case apperrors.Is(err, apperrors.ErrResourceNotFound):
			entry.Orphaned = true
			s.logger.Warn().Str("userId", userID).Str("communityId", m.CommunityID).Msg("Membership refers to a missing community")
		default:
			return nil, err
		}
		joined = append(joined, entry)
	}
	return &dto.JoinedCommunitiesResponse{Communities: joined}, nil
}

// IsMember reports whether userID belongs to communityID
func (s *membershipServiceImpl) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	return s.membershipRepo.Exists(ctx, communityID, userID)
}
