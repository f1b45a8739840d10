package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/learnhub-api/internal/models"
)

const videoColumns = `id, title, description, course_id, video_file, thumbnail, duration_seconds, sort_order, view_count, created_at`

// VideoRepository persists course videos.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository constructs the repository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ListByCourse returns the course videos in playback order.
func (r *VideoRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Video, error) {
	const query = `SELECT ` + videoColumns + ` FROM videos WHERE course_id = $1 ORDER BY sort_order ASC, created_at ASC`
	videos := make([]models.Video, 0)
	if err := r.db.SelectContext(ctx, &videos, query, courseID); err != nil {
		return nil, fmt.Errorf("list course videos: %w", err)
	}
	return videos, nil
}

// FindByID returns one video or sql.ErrNoRows.
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	const query = `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	var video models.Video
	if err := r.db.GetContext(ctx, &video, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &video, nil
}

// Create inserts a video.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO videos (` + videoColumns + `)
	VALUES (:id, :title, :description, :course_id, :video_file, :thumbnail, :duration_seconds, :sort_order, :view_count, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// Delete removes a video; bookmarks, comments and progress cascade.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete video rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the counter in a single statement and returns the new value.
func (r *VideoRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	if err := r.db.GetContext(ctx, &views, `UPDATE videos SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("increment video views: %w", err)
	}
	return views, nil
}
