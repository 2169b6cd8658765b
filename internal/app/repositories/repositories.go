package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CommunityRepository      *CommunityRepository
	MembershipRepository     *MembershipRepository
	PostRepository           *PostRepository
	JobPostRepository        *JobPostRepository
	JobApplicationRepository *JobApplicationRepository
	UserProfileRepository    *UserProfileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CommunityRepository:      NewCommunityRepository(db),
		MembershipRepository:     NewMembershipRepository(db),
		PostRepository:           NewPostRepository(db),
		JobPostRepository:        NewJobPostRepository(db),
		JobApplicationRepository: NewJobApplicationRepository(db),
		UserProfileRepository:    NewUserProfileRepository(db),
	}
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
