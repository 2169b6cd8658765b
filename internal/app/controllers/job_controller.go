package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
)

// JobController handles job post operations
type JobController struct {
	jobPostService services.JobPostService
}

// NewJobController creates a new JobController
func NewJobController(jobPostService services.JobPostService) *JobController {
	return &JobController{jobPostService: jobPostService}
}

// CreateJobPost handles publishing a job post
// @Summary Create a job post
// @Tags jobs
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobPostRequest true "Job post"
// @Success 201 {object} dto.APIResponse{data=models.JobPost} "Job post created"
// @Failure 400 {object} dto.ErrorResponse "Missing employer_id, job_title or type_of_work"
// @Failure 403 {object} dto.ErrorResponse "Not an employer or employer_id does not match the token"
// @Router /job/create [post]
func (c *JobController) CreateJobPost(ctx *gin.Context) {
	var req dto.CreateJobPostRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.EmployerID) {
		return
	}

	job, err := c.jobPostService.CreateJobPost(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(job))
}

// EditJobPost handles partial updates of a job post
// @Summary Edit a job post
// @Description Only the supplied fields change. The caller must own the job post.
// @Tags jobs
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EditJobPostRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.JobPost} "Job post updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Job post not found"
// @Router /job/edit [patch]
func (c *JobController) EditJobPost(ctx *gin.Context) {
	var req dto.EditJobPostRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.EmployerID) {
		return
	}

	job, err := c.jobPostService.EditJobPost(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job))
}

// DeleteJobPost handles removing a job post
// @Summary Delete a job post
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job post ID"
// @Success 200 {object} dto.APIResponse "Job post deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Job post not found"
// @Router /job/delete/{jobId} [post]
func (c *JobController) DeleteJobPost(ctx *gin.Context) {
	if err := c.jobPostService.DeleteJobPost(ctx.Request.Context(), ctx.Param("jobId"), middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Job post deleted successfully"))
}

// ListJobPosts handles the job post listing
// @Summary List job posts
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param employer_id query string false "Only posts of this employer"
// @Param type_of_work query string false "Only posts of this type of work"
// @Param limit query int false "Maximum results (default 20, max 100)" minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.JobPostListResponse} "Job posts"
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Router /job/all [get]
func (c *JobController) ListJobPosts(ctx *gin.Context) {
	var filter dto.JobPostFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.jobPostService.ListJobPosts(ctx.Request.Context(), filter, ctx.Query("limit"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetJobPost handles retrieving a job post
// @Summary Get job post by ID
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job post ID"
// @Success 200 {object} dto.APIResponse{data=models.JobPost} "Job post"
// @Failure 404 {object} dto.ErrorResponse "Job post not found"
// @Router /job/job-post/{jobId} [get]
func (c *JobController) GetJobPost(ctx *gin.Context) {
	job, err := c.jobPostService.GetJobPost(ctx.Request.Context(), ctx.Param("jobId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job))
}
