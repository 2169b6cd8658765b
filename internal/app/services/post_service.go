package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/events"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
	"github.com/yigit/bluecollar/internal/pkg/ids"
	"github.com/yigit/bluecollar/internal/pkg/pagination"
)

const (
	feedCommunities = 5
	feedPostsEach   = 5
)

// PostService defines the interface for community post operations
type PostService interface {
	CreatePost(ctx context.Context, req *dto.CreatePostRequest, image *filestorage.Upload) (*models.Post, error)
	ListPosts(ctx context.Context, communityID, cursor, rawLimit string) (*dto.PostListResponse, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	AddComment(ctx context.Context, req *dto.AddCommentRequest) (*models.Comment, error)
	JoinedFeed(ctx context.Context, userID string) (*dto.FeedResponse, error)
}

type postServiceImpl struct {
	communityRepo  CommunityStore
	membershipRepo MembershipStore
	postRepo       PostStore
	blobs          filestorage.BlobStore
	events         events.Publisher
	logger         zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	communityRepo CommunityStore,
	membershipRepo MembershipStore,
	postRepo PostStore,
	blobs filestorage.BlobStore,
	publisher events.Publisher,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		postRepo:       postRepo,
		blobs:          blobs,
		events:         publisher,
		logger:         logger,
	}
}

// CreatePost publishes a post in a community the author belongs to
func (s *postServiceImpl) CreatePost(ctx context.Context, req *dto.CreatePostRequest, image *filestorage.Upload) (*models.Post, error) {
	if strings.TrimSpace(req.CommunityID) == "" || strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Author) == "" ||
		strings.TrimSpace(req.DisplayAuthor) == "" {
		return nil, apperrors.NewValidationError("Missing required fields: communityId, title, content, author, displayAuthor")
	}
	if err := filestorage.ValidateImage(image); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("communityId", req.CommunityID).Str("author", req.Author).Msg("Creating post")

	if _, err := s.communityRepo.GetByID(ctx, req.CommunityID); err != nil {
		return nil, err
	}
	member, err := s.membershipRepo.Exists(ctx, req.CommunityID, req.Author)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.ErrNotMember
	}

	batch := newBlobBatch(s.blobs, s.logger)
	imageURL, err := batch.put(ctx, image, filestorage.FolderPostImages)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:          ids.New(),
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Content:     req.Content,
		Author:      req.DisplayAuthor,
		AuthorID:    req.Author,
		ImageURL:    imageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		batch.discard(ctx)
		s.logger.Error().Err(err).Str("communityId", req.CommunityID).Msg("Failed to create post")
		return nil, err
	}

	s.events.Publish(ctx, events.TopicPost, events.PostCreated, post.CommunityID, post)
	return post, nil
}

// ListPosts returns one page of a community's posts, newest first
func (s *postServiceImpl) ListPosts(ctx context.Context, communityID, cursor, rawLimit string) (*dto.PostListResponse, error) {
	if strings.TrimSpace(communityID) == "" {
		return nil, apperrors.NewValidationError("Community ID is required")
	}
	req, err := pagination.NewRequest(cursor, rawLimit, pagination.DefaultLimit, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}

	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByCommunity(ctx, communityID, req.Cursor, req.Limit)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(posts, req.Limit, func(p models.Post) string { return p.ID })
	return &dto.PostListResponse{
		Posts:      page.Items,
		Count:      len(page.Items),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// GetPost retrieves a single post
func (s *postServiceImpl) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("Post ID is required")
	}
	return s.postRepo.GetByID(ctx, id)
}

// AddComment appends a comment authored by the user to a post
func (s *postServiceImpl) AddComment(ctx context.Context, req *dto.AddCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.PostID) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.NewValidationError("userId, postId and content are required")
	}

	comment := models.Comment{
		ID:      ids.New(),
		Author:  req.UserID,
		Content: req.Content,
	}
	if err := s.postRepo.AppendComment(ctx, req.PostID, comment); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.TopicPost, events.CommentAdded, req.PostID, comment)
	return &comment, nil
}

// JoinedFeed returns the latest posts of the most recently joined communities
func (s *postServiceImpl) JoinedFeed(ctx context.Context, userID string) (*dto.FeedResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("User ID is required")
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userID, feedCommunities)
	if err != nil {
		return nil, err
	}

	feed := &dto.FeedResponse{Communities: make([]dto.CommunityFeed, 0, len(memberships))}
	for _, m := range memberships {
		posts, err := s.postRepo.LatestByCommunity(ctx, m.CommunityID, feedPostsEach)
		if err != nil {
			return nil, err
		}
		feed.Communities = append(feed.Communities, dto.CommunityFeed{CommunityID: m.CommunityID, Posts: posts})
	}
	return feed, nil
}
