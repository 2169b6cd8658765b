package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
)

// CommunityCreator is the part of the community service the seeder needs
type CommunityCreator interface {
	CreateCommunity(ctx context.Context, req *dto.CreateCommunityRequest, profilePhoto, backgroundPhoto *filestorage.Upload) (*models.Community, error)
}

// DefaultCommunities are created on a fresh database when seeding is enabled
var DefaultCommunities = []dto.CreateCommunityRequest{
	{
		Name:        "Construction Workers",
		Description: "Site work, masonry, scaffolding and everything in between.",
		Type:        string(models.CommunityPublic),
		Topics:      []string{"construction", "safety"},
		Rules:       []string{"Be respectful", "No spam"},
	},
	{
		Name:        "Electricians",
		Description: "Wiring, maintenance and certification questions.",
		Type:        string(models.CommunityPublic),
		Topics:      []string{"electrical", "certification"},
		Rules:       []string{"Be respectful"},
	},
	{
		Name:        "Plumbers",
		Description: "Plumbing jobs, tools and tips.",
		Type:        string(models.CommunityPublic),
		Topics:      []string{"plumbing"},
	},
	{
		Name:        "Drivers and Logistics",
		Description: "Delivery, trucking and warehouse work.",
		Type:        string(models.CommunityPublic),
		Topics:      []string{"driving", "logistics"},
	},
}

// CreateDefaultData creates the default communities if they don't exist.
// A name that is already taken counts as seeded.
func CreateDefaultData(ctx context.Context, communities CommunityCreator, lgr zerolog.Logger) error {
	lgr.Info().Int("count", len(DefaultCommunities)).Msg("Checking/Creating default communities...")

	var finalErr error
	created := 0
	for i := range DefaultCommunities {
		req := DefaultCommunities[i]
		_, err := communities.CreateCommunity(ctx, &req, nil, nil)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrNameTaken):
		default:
			lgr.Error().Err(err).Str("name", req.Name).Msg("Error creating default community")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Default communities checked")
	return finalErr
}
