package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/app/controllers"
	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/middleware"
	"github.com/yigit/bluecollar/internal/pkg/validation"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Community   *controllers.CommunityController
	Post        *controllers.PostController
	Job         *controllers.JobController
	Application *controllers.ApplicationController
	Profile     *controllers.ProfileController
}

// SetupRouter configures all application routes. Every /api route requires
// a bearer token; extra is applied after authentication, so per-user
// middleware such as rate limiting sees the caller.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, extra ...gin.HandlerFunc) {
	validation.RegisterRules()

	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	api.Use(authMiddleware.JWTAuth())
	api.Use(extra...)

	community := api.Group("/community")
	{
		community.POST("/create", c.Community.CreateCommunity)
		community.GET("/all", c.Community.ListCommunities)
		community.GET("/search", c.Community.SearchCommunities)
		community.POST("/join", c.Community.JoinCommunity)
		community.POST("/leave", c.Community.LeaveCommunity)
		community.GET("/user/:userId", c.Community.ListJoinedCommunities)
		community.GET("/:communityId", c.Community.GetCommunity)

		community.GET("/:communityId/posts", c.Post.ListPosts)
		community.POST("/post/create", c.Post.CreatePost)
		community.POST("/post/comment", c.Post.AddComment)
		community.GET("/post/:postId", c.Post.GetPost)
		community.GET("/feed/:userId", c.Post.JoinedFeed)
	}

	job := api.Group("/job")
	{
		job.GET("/all", c.Job.ListJobPosts)
		job.GET("/job-post/:jobId", c.Job.GetJobPost)
		job.GET("/applied-jobs/:workerId", c.Application.ListAppliedJobs)

		employer := job.Group("")
		employer.Use(authMiddleware.RoleRequired(models.RoleEmployer))
		{
			employer.POST("/create", c.Job.CreateJobPost)
			employer.PATCH("/edit", c.Job.EditJobPost)
			employer.POST("/delete/:jobId", c.Job.DeleteJobPost)
			employer.PATCH("/update-application", c.Application.UpdateStatus)
			employer.GET("/workers/:jobId", c.Application.ListApplicants)
		}

		worker := job.Group("")
		worker.Use(authMiddleware.RoleRequired(models.RoleWorker))
		{
			worker.POST("/apply", c.Application.Apply)
			worker.POST("/check-application", c.Application.CheckApplication)
			worker.POST("/application/delete", c.Application.Withdraw)
		}
	}

	profile := api.Group("/user/profile")
	{
		profile.POST("/:id", c.Profile.CreateProfile)
		profile.PATCH("/:id", c.Profile.UpdateProfile)
		profile.GET("/:id", c.Profile.GetProfile)
	}
}
