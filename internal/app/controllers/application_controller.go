package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/app/services"
	"github.com/yigit/bluecollar/internal/middleware"
)

// ApplicationController handles job applications
type ApplicationController struct {
	applicationService services.JobApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.JobApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Apply handles a worker applying for a job
// @Summary Apply for a job
// @Tags applications
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param worker_id formData string true "Worker ID"
// @Param jobId formData string true "Job post ID"
// @Success 201 {object} dto.APIResponse{data=models.JobApplication} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or already applied"
// @Failure 404 {object} dto.ErrorResponse "Job post not found"
// @Router /job/apply [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	var req dto.ApplicationRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.WorkerID) {
		return
	}

	app, err := c.applicationService.Apply(ctx.Request.Context(), req.WorkerID, req.JobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	resp := dto.NewSuccessResponse(app)
	resp.Message = "Application submitted successfully"
	ctx.JSON(http.StatusCreated, resp)
}

// CheckApplication handles checking whether a worker applied for a job
// @Summary Check for an application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplicationRequest true "Worker and job"
// @Success 200 {object} dto.APIResponse{data=dto.CheckApplicationResponse} "Whether the application exists"
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Router /job/check-application [post]
func (c *ApplicationController) CheckApplication(ctx *gin.Context) {
	var req dto.ApplicationRequest
	if !middleware.BindJSON(ctx, &req) || !middleware.RequireActor(ctx, req.WorkerID) {
		return
	}

	exists, err := c.applicationService.CheckExists(ctx.Request.Context(), req.WorkerID, req.JobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CheckApplicationResponse{Exists: exists}))
}

// Withdraw handles a worker withdrawing an application
// @Summary Withdraw an application
// @Tags applications
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param worker_id formData string true "Worker ID"
// @Param jobId formData string true "Job post ID"
// @Success 200 {object} dto.APIResponse "Application withdrawn"
// @Failure 404 {object} dto.ErrorResponse "No application found"
// @Router /job/application/delete [post]
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	var req dto.ApplicationRequest
	if !middleware.Bind(ctx, &req) || !middleware.RequireActor(ctx, req.WorkerID) {
		return
	}

	if err := c.applicationService.Withdraw(ctx.Request.Context(), req.WorkerID, req.JobID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Application deleted successfully"))
}

// UpdateStatus handles an employer reviewing an application
// @Summary Update application status
// @Tags applications
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param applicationId formData string true "Application ID"
// @Param status formData string true "pending, accepted or rejected"
// @Success 200 {object} dto.APIResponse{data=models.JobApplication} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /job/update-application [patch]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateApplicationStatusRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	app, err := c.applicationService.SetStatus(ctx.Request.Context(), req.ApplicationID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	resp := dto.NewSuccessResponse(app)
	resp.Message = "Application status updated successfully"
	ctx.JSON(http.StatusOK, resp)
}

// ListAppliedJobs handles listing the jobs a worker applied to
// @Summary List applied jobs
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param workerId path string true "Worker ID"
// @Success 200 {object} dto.APIResponse{data=dto.AppliedJobsResponse} "Applied jobs"
// @Router /job/applied-jobs/{workerId} [get]
func (c *ApplicationController) ListAppliedJobs(ctx *gin.Context) {
	resp, err := c.applicationService.ListForWorker(ctx.Request.Context(), ctx.Param("workerId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListApplicants handles listing the applicants of a job
// @Summary List applicants of a job
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job post ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobApplicantsResponse} "Applicants"
// @Router /job/workers/{jobId} [get]
func (c *ApplicationController) ListApplicants(ctx *gin.Context) {
	resp, err := c.applicationService.ListForJob(ctx.Request.Context(), ctx.Param("jobId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
