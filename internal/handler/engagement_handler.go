package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type engagementService interface {
	ToggleBookmark(ctx context.Context, actor *models.Principal, videoID string) (*dto.BookmarkToggle, error)
	AddComment(ctx context.Context, actor *models.Principal, videoID string, req models.CommentRequest) (*models.Comment, error)
	RecordProgress(ctx context.Context, actor *models.Principal, videoID string, req models.ProgressRequest) (*dto.ProgressView, error)
}

// EngagementHandler exposes bookmarks, comments and watch progress.
type EngagementHandler struct {
	service engagementService
	links   service.Links
}

// NewEngagementHandler constructs the handler. links builds the page a
// plain form post returns to.
func NewEngagementHandler(svc engagementService, links service.Links) *EngagementHandler {
	return &EngagementHandler{service: svc, links: links}
}

// ToggleBookmark godoc
// @Summary Toggle bookmark
// @Description Adds the bookmark when missing, removes it otherwise. Non-XHR callers also get the video page link.
// @Tags Engagement
// @Produce json
// @Param video_id path string true "Video ID"
// @Success 200 {object} dto.BookmarkToggle
// @Failure 404 {object} response.Envelope
// @Router /videos/{video_id}/bookmark [post]
func (h *EngagementHandler) ToggleBookmark(c *gin.Context) {
	result, err := h.service.ToggleBookmark(c.Request.Context(), principalFromContext(c), c.Param("video_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	view := *result
	if c.GetHeader("X-Requested-With") == "" {
		view.Redirect = h.links.Video(c.Param("video_id"))
	}
	response.OK(c, view)
}

// AddComment godoc
// @Summary Comment on a video
// @Tags Engagement
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param video_id path string true "Video ID"
// @Param payload body models.CommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /videos/{video_id}/comment [post]
func (h *EngagementHandler) AddComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid comment payload"))
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), principalFromContext(c), c.Param("video_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// RecordProgress godoc
// @Summary Record watch progress
// @Tags Engagement
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param video_id path string true "Video ID"
// @Param payload body models.ProgressRequest true "Progress"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /videos/{video_id}/progress [post]
func (h *EngagementHandler) RecordProgress(c *gin.Context) {
	var req models.ProgressRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid progress payload"))
		return
	}
	progress, err := h.service.RecordProgress(c.Request.Context(), principalFromContext(c), c.Param("video_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, progress)
}
