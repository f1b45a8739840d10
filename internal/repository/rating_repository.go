package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// RatingRepository persists course ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Exists reports whether the user already rated the course.
func (r *RatingRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM course_ratings WHERE user_id = $1 AND course_id = $2)`, userID, courseID); err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}
	return exists, nil
}

// Create inserts a rating. A second rating for the same pair fails with a unique violation.
func (r *RatingRepository) Create(ctx context.Context, rating *models.CourseRating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	rating.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO course_ratings (id, user_id, course_id, rating, review, created_at)
	VALUES (:id, :user_id, :course_id, :rating, :review, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// ListByCourse returns ratings newest first with rater usernames.
func (r *RatingRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseRating, error) {
	const query = `SELECT cr.id, cr.user_id, cr.course_id, cr.rating, cr.review, cr.created_at, u.username
FROM course_ratings cr
JOIN users u ON u.id = cr.user_id
WHERE cr.course_id = $1
ORDER BY cr.created_at DESC`
	ratings := make([]models.CourseRating, 0)
	if err := r.db.SelectContext(ctx, &ratings, query, courseID); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}
