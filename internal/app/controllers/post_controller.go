package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
	"github.com/yigit/bluecollar/internal/pkg/helpers"
)

// PostController handles community posts and comments
type PostController struct {
	postService    services.PostService
	maxUploadBytes int64
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, maxUploadBytes int64) *PostController {
	return &PostController{
		postService:    postService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreatePost handles publishing a post
// @Summary Create a post
// @Description The author must be a member of the community. The image is an optional JPEG or PNG.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param communityId formData string true "Community ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param author formData string true "Author user ID"
// @Param displayAuthor formData string true "Name shown on the post"
// @Param image formData file false "Image"
// @Success 201 {object} dto.APIResponse{data=models.Post} "Post created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Author is not a member"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /community/post/create [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.Author) {
		return
	}

	image, err := helpers.OptionalUpload(ctx, "image", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// ListPosts handles the paged post listing of a community
// @Summary List posts of a community
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param communityId path string true "Community ID"
// @Param cursor query string false "ID of the last post of the previous page"
// @Param limit query int false "Page size (default 20, max 100)" minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid cursor or limit"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /community/{communityId}/posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	resp, err := c.postService.ListPosts(ctx.Request.Context(), ctx.Param("communityId"), ctx.Query("cursor"), ctx.Query("limit"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetPost handles retrieving a post
// @Summary Get post by ID
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /community/post/{postId} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	post, err := c.postService.GetPost(ctx.Request.Context(), ctx.Param("postId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// AddComment handles commenting on a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 200 {object} dto.APIResponse{data=models.Comment} "Comment added"
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /community/post/comment [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	var req dto.AddCommentRequest
	if !middleware.BindJSON(ctx, &req) || !middleware.RequireActor(ctx, req.UserID) {
		return
	}

	comment, err := c.postService.AddComment(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	resp := dto.NewSuccessResponse(comment)
	resp.Message = "Comment added successfully"
	ctx.JSON(http.StatusOK, resp)
}

// JoinedFeed handles the home feed of a user
// @Summary Latest posts from joined communities
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse} "Feed"
// @Router /community/feed/{userId} [get]
func (c *PostController) JoinedFeed(ctx *gin.Context) {
	feed, err := c.postService.JoinedFeed(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}
