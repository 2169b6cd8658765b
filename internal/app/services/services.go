package services

import (
	"context"

	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/repositories"
	"github.com/yigit/bluecollar/internal/pkg/cache"
)

// The store interfaces below are what the services need from the
// repositories. The Postgres repositories satisfy them; tests use
// in-memory fakes.

// CommunityStore persists communities
type CommunityStore interface {
	Create(ctx context.Context, c *models.Community) error
	GetByID(ctx context.Context, id string) (*models.Community, error)
	List(ctx context.Context, cursor string, limit int) ([]models.Community, error)
	SearchByPrefix(ctx context.Context, lo, hi string, limit int) ([]models.Community, error)
	ScanFirst(ctx context.Context, n int) ([]models.Community, error)
}

// MembershipStore persists memberships together with the member counter
type MembershipStore interface {
	Get(ctx context.Context, communityID, userID string) (*models.Membership, error)
	Exists(ctx context.Context, communityID, userID string) (bool, error)
	Join(ctx context.Context, userID, communityID, communityName string) (*models.Membership, error)
	Leave(ctx context.Context, userID, communityID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Membership, error)
}

// PostStore persists posts and their embedded comments
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByCommunity(ctx context.Context, communityID, cursor string, limit int) ([]models.Post, error)
	LatestByCommunity(ctx context.Context, communityID string, n int) ([]models.Post, error)
	AppendComment(ctx context.Context, postID string, comment models.Comment) error
}

// JobPostStore persists job posts
type JobPostStore interface {
	Create(ctx context.Context, j *models.JobPost) error
	GetByID(ctx context.Context, id string) (*models.JobPost, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.JobPost, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*models.JobPost, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repositories.JobPostFilter) ([]models.JobPost, error)
}

// JobApplicationStore persists job applications
type JobApplicationStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, a *models.JobApplication) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.JobApplication, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error)
}

// UserProfileStore persists user profiles
type UserProfileStore interface {
	Create(ctx context.Context, p *models.UserProfile) error
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	GetByIDs(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error)
	Update(ctx context.Context, userID string, changes map[string]interface{}) (*models.UserProfile, error)
}

// CommunityCache is the read-through cache shared by the community and
// membership services
type CommunityCache = cache.ReadThrough[models.Community]
