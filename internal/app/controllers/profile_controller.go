package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
	"github.com/yigit/bluecollar/internal/pkg/helpers"
)

// ProfileController handles user profiles
type ProfileController struct {
	profileService services.UserProfileService
	maxUploadBytes int64
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.UserProfileService, maxUploadBytes int64) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		maxUploadBytes: maxUploadBytes,
	}
}

// readProfileForm binds the profile fields and the two optional files
func (c *ProfileController) readProfileForm(ctx *gin.Context) (*dto.ProfileRequest, *filestorage.Upload, *filestorage.Upload, bool) {
	var req dto.ProfileRequest
	if !middleware.Bind(ctx, &req) {
		return nil, nil, nil, false
	}
	photo, err := helpers.OptionalUpload(ctx, "profilePhoto", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, nil, false
	}
	resume, err := helpers.OptionalUpload(ctx, "resume", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, nil, false
	}
	return &req, photo, resume, true
}

// CreateProfile handles profile creation
// @Summary Create a profile
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param firstName formData string false "First name"
// @Param lastName formData string false "Last name"
// @Param emailAddress formData string false "Email"
// @Param profession formData string false "Profession"
// @Param profilePhoto formData file false "JPEG or PNG photo"
// @Param resume formData file false "PDF resume"
// @Success 201 {object} dto.APIResponse{data=models.UserProfile} "Profile created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Failure 409 {object} dto.ErrorResponse "Profile already exists"
// @Router /user/profile/{id} [post]
func (c *ProfileController) CreateProfile(ctx *gin.Context) {
	userID := ctx.Param("id")
	if !middleware.RequireActor(ctx, userID) {
		return
	}
	req, photo, resume, ok := c.readProfileForm(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.CreateProfile(ctx.Request.Context(), userID, req, photo, resume)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(profile))
}

// UpdateProfile handles profile updates
// @Summary Update a profile
// @Description Empty fields are left unchanged. A new photo or resume replaces the old one.
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param profilePhoto formData file false "JPEG or PNG photo"
// @Param resume formData file false "PDF resume"
// @Success 200 {object} dto.APIResponse{data=models.UserProfile} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Not your profile"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /user/profile/{id} [patch]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID := ctx.Param("id")
	if !middleware.RequireActor(ctx, userID) {
		return
	}
	req, photo, resume, ok := c.readProfileForm(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, req, photo, resume)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// GetProfile handles retrieving a profile
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.UserProfile} "Profile"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /user/profile/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
