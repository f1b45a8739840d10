package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type catalogService interface {
	ListCourses(ctx context.Context, search, topicSlug string) *dto.CourseList
	ListTopics(ctx context.Context) ([]models.Topic, error)
	GetTopic(ctx context.Context, topicSlug string) (*dto.TopicDetail, error)
	CourseForm(ctx context.Context, actor *models.Principal) (*dto.CourseFormContext, error)
	TopicForm(actor *models.Principal) error
	CreateCourse(ctx context.Context, actor *models.Principal, req models.CreateCourseRequest, meta service.RequestMeta) (*models.Course, error)
	CreateTopic(ctx context.Context, actor *models.Principal, req models.CreateTopicRequest, meta service.RequestMeta) (*models.Topic, error)
	GetCourse(ctx context.Context, courseSlug string, actor *models.Principal) (*dto.CourseDetail, error)
	DeleteCourse(ctx context.Context, actor *models.Principal, courseSlug string, meta service.RequestMeta) error
}

// CatalogHandler exposes topics and courses.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListCourses godoc
// @Summary List courses
// @Description Newest first. search and topic narrow the result together.
// @Tags Catalog
// @Produce json
// @Param search query string false "Matches title, description, teacher or topic"
// @Param topic query string false "Topic slug"
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	list := h.service.ListCourses(c.Request.Context(), strings.TrimSpace(c.Query("search")), strings.TrimSpace(c.Query("topic")))
	if list.Unavailable {
		middleware.SetMeta(c, "warning", gin.H{
			"code":    appErrors.ErrCatalogUnavailable.Code,
			"message": appErrors.ErrCatalogUnavailable.Message,
		})
	}
	response.OK(c, list, middleware.ExtractMeta(c))
}

// ListTopics godoc
// @Summary List topics
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	topics, err := h.service.ListTopics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, topics)
}

// GetTopic godoc
// @Summary Topic detail
// @Tags Catalog
// @Produce json
// @Param slug path string true "Topic slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /topics/{slug} [get]
func (h *CatalogHandler) GetTopic(c *gin.Context) {
	detail, err := h.service.GetTopic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// CourseForm godoc
// @Summary Course creation form context
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /create [get]
func (h *CatalogHandler) CourseForm(c *gin.Context) {
	form, err := h.service.CourseForm(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, form)
}

// CreateCourse godoc
// @Summary Create course
// @Description Teachers only. The slug is derived from the title and made unique.
// @Tags Catalog
// @Accept json,mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param topic_id formData string true "Topic ID"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /create [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid course payload"))
		return
	}
	thumbnail, closeFile, err := formFile(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()
	req.Thumbnail = thumbnail

	course, err := h.service.CreateCourse(c.Request.Context(), principalFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// TopicForm godoc
// @Summary Topic creation form context
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /create-topic [get]
func (h *CatalogHandler) TopicForm(c *gin.Context) {
	if err := h.service.TopicForm(principalFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"fields": []string{"name", "slug", "description"}})
}

// CreateTopic godoc
// @Summary Create topic
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body models.CreateTopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /create-topic [post]
func (h *CatalogHandler) CreateTopic(c *gin.Context) {
	var req models.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid topic payload"))
		return
	}
	topic, err := h.service.CreateTopic(c.Request.Context(), principalFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// GetCourse godoc
// @Summary Course detail
// @Description Includes videos, rating summary and student count.
// @Tags Catalog
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{slug} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	detail, err := h.service.GetCourse(c.Request.Context(), c.Param("slug"), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// DeleteCourse godoc
// @Summary Delete course
// @Tags Catalog
// @Param slug path string true "Course slug"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{slug} [delete]
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Request.Context(), principalFromContext(c), c.Param("slug"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
