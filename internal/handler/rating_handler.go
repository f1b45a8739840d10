package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type ratingService interface {
	Rate(ctx context.Context, actor *models.Principal, courseSlug string, req models.RateCourseRequest) (*models.CourseRating, error)
	List(ctx context.Context, courseSlug string) ([]models.CourseRating, error)
}

// RatingHandler exposes course ratings.
type RatingHandler struct {
	service ratingService
}

// NewRatingHandler constructs the handler.
func NewRatingHandler(svc ratingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// List godoc
// @Summary List course ratings
// @Tags Ratings
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} response.Envelope
// @Router /{slug}/ratings [get]
func (h *RatingHandler) List(c *gin.Context) {
	ratings, err := h.service.List(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ratings)
}

// Rate godoc
// @Summary Rate a course
// @Description One rating per user and course.
// @Tags Ratings
// @Accept json
// @Produce json
// @Param slug path string true "Course slug"
// @Param payload body models.RateCourseRequest true "Rating"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /{slug}/ratings [post]
func (h *RatingHandler) Rate(c *gin.Context) {
	var req models.RateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid rating payload"))
		return
	}
	rating, err := h.service.Rate(c.Request.Context(), principalFromContext(c), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rating)
}
