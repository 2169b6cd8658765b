package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
	"github.com/yigit/bluecollar/internal/pkg/helpers"
)

// CommunityController handles community and membership operations
type CommunityController struct {
	communityService  services.CommunityService
	membershipService services.MembershipService
	maxUploadBytes    int64
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService, membershipService services.MembershipService, maxUploadBytes int64) *CommunityController {
	return &CommunityController{
		communityService:  communityService,
		membershipService: membershipService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// CreateCommunity handles community creation
// @Summary Create a community
// @Description Creates a community from a multipart form. Both photos are optional JPEG or PNG files.
// @Tags communities
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param communityName formData string true "Community name"
// @Param communityDescription formData string true "Description"
// @Param communityType formData string true "public, restricted or private"
// @Param communityTopics formData []string false "Topics" collectionFormat(multi)
// @Param communityRules formData []string false "Rules" collectionFormat(multi)
// @Param communityProfilePhoto formData file false "Profile photo"
// @Param communityBackgroundPhoto formData file false "Background photo"
// @Success 201 {object} dto.APIResponse{data=models.Community} "Community created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input, unsupported file or name taken"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /community/create [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	var req dto.CreateCommunityRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	profilePhoto, err := helpers.OptionalUpload(ctx, "communityProfilePhoto", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	backgroundPhoto, err := helpers.OptionalUpload(ctx, "communityBackgroundPhoto", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	community, err := c.communityService.CreateCommunity(ctx.Request.Context(), &req, profilePhoto, backgroundPhoto)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(community))
}

// GetCommunity handles retrieving a specific community by ID
// @Summary Get community by ID
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param communityId path string true "Community ID"
// @Success 200 {object} dto.APIResponse{data=models.Community} "Community retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /community/{communityId} [get]
func (c *CommunityController) GetCommunity(ctx *gin.Context) {
	community, err := c.communityService.GetCommunity(ctx.Request.Context(), ctx.Param("communityId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(community))
}

// ListCommunities handles the paged community listing
// @Summary List communities
// @Description Returns 20 communities per page, newest first. Pass nextCursor back as cursor for the next page.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "ID of the last community of the previous page"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityListResponse} "Communities retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid cursor"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /community/all [get]
func (c *CommunityController) ListCommunities(ctx *gin.Context) {
	resp, err := c.communityService.ListCommunities(ctx.Request.Context(), ctx.Query("cursor"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SearchCommunities handles community name search
// @Summary Search communities by name
// @Description Case-insensitive prefix match on the community name, falling back to a substring match over recent communities.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param name query string true "Search term"
// @Param limit query int false "Maximum results (default 10, max 100)" minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CommunitySearchResponse} "Search results"
// @Failure 400 {object} dto.ErrorResponse "Missing term or invalid limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /community/search [get]
func (c *CommunityController) SearchCommunities(ctx *gin.Context) {
	resp, err := c.communityService.SearchCommunities(ctx.Request.Context(), ctx.Query("name"), ctx.Query("limit"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// JoinCommunity handles joining a community
// @Summary Join a community
// @Tags memberships
// @Accept json,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.MembershipRequest true "Membership"
// @Success 201 {object} dto.APIResponse{data=models.Membership} "Joined community"
// @Failure 400 {object} dto.ErrorResponse "Missing fields, name mismatch or already a member"
// @Failure 403 {object} dto.ErrorResponse "userId does not match the token"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /community/join [post]
func (c *CommunityController) JoinCommunity(ctx *gin.Context) {
	var req dto.MembershipRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.UserID) {
		return
	}

	membership, err := c.membershipService.Join(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(membership))
}

// LeaveCommunity handles leaving a community
// @Summary Leave a community
// @Tags memberships
// @Accept json,multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.MembershipRequest true "Membership"
// @Success 200 {object} dto.APIResponse "Left community"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or name mismatch"
// @Failure 403 {object} dto.ErrorResponse "userId does not match the token"
// @Failure 404 {object} dto.ErrorResponse "Not a member or community not found"
// @Router /community/leave [post]
func (c *CommunityController) LeaveCommunity(ctx *gin.Context) {
	var req dto.MembershipRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.UserID) {
		return
	}

	if err := c.membershipService.Leave(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Successfully left the community"))
}

// ListJoinedCommunities handles listing a user's communities
// @Summary List joined communities
// @Description Memberships whose community no longer exists are returned with orphaned=true.
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.JoinedCommunitiesResponse} "Joined communities"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /community/user/{userId} [get]
func (c *CommunityController) ListJoinedCommunities(ctx *gin.Context) {
	resp, err := c.membershipService.ListJoined(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
