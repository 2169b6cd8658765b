package dto

import "github.com/yigit/bluecollar/internal/app/models"

// CreatePostRequest is the multipart form of a new post. Author is the
// member's user id and DisplayAuthor the name shown on the post.
type CreatePostRequest struct {
	CommunityID   string `form:"communityId" binding:"required"`
	Title         string `form:"title" binding:"required,max=300"`
	Content       string `form:"content" binding:"required"`
	Author        string `form:"author" binding:"required"`
	DisplayAuthor string `form:"displayAuthor" binding:"required"`
}

// AddCommentRequest is the JSON body of a new comment
type AddCommentRequest struct {
	UserID  string `json:"userId" binding:"required"`
	PostID  string `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostListResponse is one page of posts
type PostListResponse struct {
	Posts      []models.Post `json:"posts"`
	Count      int           `json:"count"`
	NextCursor string        `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
}

// CommunityFeed holds the latest posts of one joined community
type CommunityFeed struct {
	CommunityID string        `json:"communityId"`
	Posts       []models.Post `json:"posts"`
}

// FeedResponse is the joined-communities feed
type FeedResponse struct {
	Communities []CommunityFeed `json:"communities"`
}
