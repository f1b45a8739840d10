package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Catalog    *CatalogHandler
	Ratings    *RatingHandler
	Videos     *VideoHandler
	Engagement *EngagementHandler
	Dashboard  *DashboardHandler
}

// RegisterRoutes mounts the domain routes. Fixed paths are registered next to the
// /:slug catch-all; course slugs never take those names. Teacher-only routes are
// gated before their bodies are bound, so other roles always get 403.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	requireUser := middleware.JWT(tokens)
	optionalUser := middleware.OptionalJWT(tokens)
	links := service.NewLinks(api.BasePath())
	teacherOnly := func(message string) gin.HandlerFunc {
		return middleware.RequireRolesOr(appErrors.Forbidden(message, links.Catalog()), models.RoleTeacher)
	}
	courseAuthor := teacherOnly("Only teachers can create courses.")
	topicAuthor := teacherOnly("Only teachers can create topics.")
	uploader := teacherOnly("Only teachers can upload videos.")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", requireUser, h.Auth.Me)
	auth.PUT("/me", requireUser, h.Auth.UpdateProfile)

	api.GET("/dashboard", requireUser, h.Dashboard.Dashboard)
	api.GET("/dashboard/export", requireUser, middleware.RequireRoles(models.RoleTeacher), h.Dashboard.Export)

	api.GET("/topics", h.Catalog.ListTopics)
	api.GET("/topics/:slug", h.Catalog.GetTopic)
	api.GET("/create", requireUser, courseAuthor, h.Catalog.CourseForm)
	api.POST("/create", requireUser, courseAuthor, h.Catalog.CreateCourse)
	api.GET("/create-topic", requireUser, topicAuthor, h.Catalog.TopicForm)
	api.POST("/create-topic", requireUser, topicAuthor, h.Catalog.CreateTopic)

	videos := api.Group("/videos")
	videos.GET("/upload/:course_id", requireUser, uploader, h.Videos.UploadForm)
	videos.POST("/upload/:course_id", requireUser, uploader, h.Videos.Upload)
	videos.GET("/:video_id", optionalUser, h.Videos.Get)
	videos.POST("/:video_id", requireUser, h.Engagement.AddComment)
	videos.DELETE("/:video_id", requireUser, h.Videos.Delete)
	videos.GET("/:video_id/stream", h.Videos.Stream)
	videos.POST("/:video_id/bookmark", requireUser, h.Engagement.ToggleBookmark)
	videos.POST("/:video_id/comment", requireUser, h.Engagement.AddComment)
	videos.POST("/:video_id/progress", requireUser, h.Engagement.RecordProgress)

	api.GET("/", optionalUser, h.Catalog.ListCourses)
	api.GET("/:slug", optionalUser, h.Catalog.GetCourse)
	api.DELETE("/:slug", requireUser, h.Catalog.DeleteCourse)
	api.GET("/:slug/ratings", h.Ratings.List)
	api.POST("/:slug/ratings", requireUser, h.Ratings.Rate)
}

// RegisterOperational mounts health, readiness and metrics at the root.
func RegisterOperational(r gin.IRoutes, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}
