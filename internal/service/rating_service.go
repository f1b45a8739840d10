package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/pkg/database"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type ratingRepository interface {
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, rating *models.CourseRating) error
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseRating, error)
}

type ratingCourseFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Course, error)
}

// RatingService records one rating per user and course.
type RatingService struct {
	repo      ratingRepository
	courses   ratingCourseFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRatingService wires the rating dependencies.
func NewRatingService(repo ratingRepository, courses ratingCourseFinder, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Rate stores the caller's rating. A second rating for the same course is a conflict.
func (s *RatingService) Rate(ctx context.Context, actor *models.Principal, courseSlug string, req models.RateCourseRequest) (*models.CourseRating, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	req.Review = strings.TrimSpace(req.Review)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rating must be between 1 and 5")
	}
	course, err := s.findCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, actor.UserID, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check existing rating")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "You have already rated this course.")
	}

	rating := &models.CourseRating{
		UserID:   actor.UserID,
		CourseID: course.ID,
		Rating:   req.Rating,
		Review:   req.Review,
		Username: actor.Username,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "You have already rated this course.")
		}
		return nil, appErrors.Internal(err, "failed to save rating")
	}
	return rating, nil
}

// List returns the course's ratings newest first.
func (s *RatingService) List(ctx context.Context, courseSlug string) ([]models.CourseRating, error) {
	course, err := s.findCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list ratings")
	}
	return ratings, nil
}

func (s *RatingService) findCourse(ctx context.Context, courseSlug string) (*models.Course, error) {
	course, err := s.courses.FindBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	return course, nil
}
