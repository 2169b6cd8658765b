package dto

import (
	"time"

	"github.com/yigit/bluecollar/internal/app/models"
)

// --- Request DTOs ---

// MembershipRequest is the body of both join and leave, sent as JSON or as a
// multipart form
type MembershipRequest struct {
	UserID        string `json:"userId" form:"userId" binding:"required"`
	CommunityID   string `json:"communityId" form:"communityId" binding:"required"`
	CommunityName string `json:"communityName" form:"communityName" binding:"required"`
}

// CreateCommunityRequest represents community creation data. Photos are
// separate multipart file parts.
type CreateCommunityRequest struct {
	Name        string   `form:"communityName" binding:"required,max=100"`
	Description string   `form:"communityDescription" binding:"required"`
	Type        string   `form:"communityType" binding:"required,oneof=public restricted private"`
	Topics      []string `form:"communityTopics"`
	Rules       []string `form:"communityRules"`
}

// --- Response DTOs ---

// CommunityListResponse is one page of communities
type CommunityListResponse struct {
	Communities []models.Community `json:"communities"`
	NextCursor  string             `json:"nextCursor"`
	HasMore     bool               `json:"hasMore"`
}

// CommunitySearchResponse holds search results
type CommunitySearchResponse struct {
	Results []models.Community `json:"results"`
	Count   int                `json:"count"`
}

// JoinedCommunityResponse is a membership resolved to its community. When the
// community no longer exists only the membership fields are filled and
// Orphaned is set.
type JoinedCommunityResponse struct {
	CommunityID   string            `json:"communityId"`
	CommunityName string            `json:"communityName"`
	JoinedAt      time.Time         `json:"joinedAt"`
	Community     *models.Community `json:"community,omitempty"`
	Orphaned      bool              `json:"orphaned,omitempty"`
}

// JoinedCommunitiesResponse lists the communities a user belongs to
type JoinedCommunitiesResponse struct {
	Communities []JoinedCommunityResponse `json:"communities"`
}
