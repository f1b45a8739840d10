package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type videoService interface {
	UploadForm(ctx context.Context, actor *models.Principal, courseID string) (*dto.UploadFormContext, error)
	AuthorizeUpload(ctx context.Context, actor *models.Principal, courseID string) error
	Upload(ctx context.Context, actor *models.Principal, courseID string, req models.UploadVideoRequest, meta service.RequestMeta) (*models.Video, error)
	Get(ctx context.Context, id string, actor *models.Principal) (*dto.VideoDetail, error)
	Stream(ctx context.Context, id, token string) (*service.MediaStream, error)
	Delete(ctx context.Context, actor *models.Principal, id string, meta service.RequestMeta) error
}

// VideoHandler exposes video upload, playback and removal.
type VideoHandler struct {
	service videoService
}

// NewVideoHandler constructs the handler.
func NewVideoHandler(svc videoService) *VideoHandler {
	return &VideoHandler{service: svc}
}

// UploadForm godoc
// @Summary Video upload form context
// @Tags Videos
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /videos/upload/{course_id} [get]
func (h *VideoHandler) UploadForm(c *gin.Context) {
	form, err := h.service.UploadForm(c.Request.Context(), principalFromContext(c), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, form)
}

// Upload godoc
// @Summary Upload video
// @Description Course owner only.
// @Tags Videos
// @Accept mpfd
// @Produce json
// @Param course_id path string true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param order formData int false "Position in the course"
// @Param duration formData int false "Duration in seconds"
// @Param video_file formData file true "Video file"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /videos/upload/{course_id} [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	if err := h.service.AuthorizeUpload(c.Request.Context(), principalFromContext(c), c.Param("course_id")); err != nil {
		response.Error(c, err)
		return
	}
	if !isMultipart(c) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart/form-data required"))
		return
	}
	var req models.UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid video payload"))
		return
	}
	file, closeFile, err := formFile(c, "video_file")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFile()
	thumbnail, closeThumb, err := formFile(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeThumb()
	req.File = file
	req.Thumbnail = thumbnail

	video, err := h.service.Upload(c.Request.Context(), principalFromContext(c), c.Param("course_id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, video)
}

// Get godoc
// @Summary Video detail
// @Description Every read counts as a view. Includes a signed stream URL.
// @Tags Videos
// @Produce json
// @Param video_id path string true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{video_id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("video_id"), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Stream godoc
// @Summary Stream video file
// @Description Supports range requests. Requires the token from the video detail.
// @Tags Videos
// @Produce octet-stream
// @Param video_id path string true "Video ID"
// @Param token query string true "Signed stream token"
// @Success 200 {file} binary
// @Success 206 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /videos/{video_id}/stream [get]
func (h *VideoHandler) Stream(c *gin.Context) {
	stream, err := h.service.Stream(c.Request.Context(), c.Param("video_id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.File.Close() //nolint:errcheck

	c.Header("Content-Type", stream.MimeType)
	c.Header("Cache-Control", "private, no-store")
	http.ServeContent(c.Writer, c.Request, stream.Filename, stream.ModTime, stream.File)
}

// Delete godoc
// @Summary Delete video
// @Tags Videos
// @Param video_id path string true "Video ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{video_id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), principalFromContext(c), c.Param("video_id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
