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

// EngagementRepository persists bookmarks, comments and watch progress.
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository constructs the repository.
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// DeleteBookmark removes the bookmark and reports whether one existed.
func (r *EngagementRepository) DeleteBookmark(ctx context.Context, userID, videoID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND video_id = $2`, userID, videoID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete bookmark rows affected: %w", err)
	}
	return affected > 0, nil
}

// InsertBookmark adds the bookmark; an existing row for the pair is left as is.
func (r *EngagementRepository) InsertBookmark(ctx context.Context, userID, videoID string) error {
	const query = `INSERT INTO bookmarks (id, user_id, video_id, created_at) VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, video_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, videoID, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// IsBookmarked reports whether the user bookmarked the video.
func (r *EngagementRepository) IsBookmarked(ctx context.Context, userID, videoID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND video_id = $2)`, userID, videoID); err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return exists, nil
}

// ListBookmarkDetails returns the user's bookmarks joined with video and course, newest first.
func (r *EngagementRepository) ListBookmarkDetails(ctx context.Context, userID string) ([]models.BookmarkDetail, error) {
	const query = `SELECT b.id, b.user_id, b.video_id, b.created_at,
       v.title AS video_title, v.thumbnail AS video_thumbnail,
       c.id AS course_id, c.title AS course_title, c.slug AS course_slug
FROM bookmarks b
JOIN videos v ON v.id = b.video_id
JOIN courses c ON c.id = v.course_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC`
	rows := make([]models.BookmarkDetail, 0)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return rows, nil
}

// CreateComment inserts a comment.
func (r *EngagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	const query = `INSERT INTO comments (id, user_id, video_id, content, created_at, updated_at)
	VALUES (:id, :user_id, :video_id, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListComments returns a video's comments newest first with author usernames.
func (r *EngagementRepository) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	const query = `SELECT cm.id, cm.user_id, cm.video_id, cm.content, cm.created_at, cm.updated_at, u.username
FROM comments cm
JOIN users u ON u.id = cm.user_id
WHERE cm.video_id = $1
ORDER BY cm.created_at DESC`
	comments := make([]models.Comment, 0)
	if err := r.db.SelectContext(ctx, &comments, query, videoID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// UpsertProgress records the latest watch position for the pair in one statement.
func (r *EngagementRepository) UpsertProgress(ctx context.Context, progress *models.VideoProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	if progress.LastWatched.IsZero() {
		progress.LastWatched = time.Now().UTC()
	}
	const query = `INSERT INTO video_progress (id, user_id, video_id, watched_seconds, completed, last_watched)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, video_id) DO UPDATE
	SET watched_seconds = EXCLUDED.watched_seconds, completed = EXCLUDED.completed, last_watched = EXCLUDED.last_watched
	RETURNING id, user_id, video_id, watched_seconds, completed, last_watched`
	if err := r.db.GetContext(ctx, progress, query,
		progress.ID, progress.UserID, progress.VideoID, progress.WatchedSeconds, progress.Completed, progress.LastWatched); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// FindProgress returns the user's progress on a video or sql.ErrNoRows.
func (r *EngagementRepository) FindProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	const query = `SELECT id, user_id, video_id, watched_seconds, completed, last_watched
	FROM video_progress WHERE user_id = $1 AND video_id = $2`
	var progress models.VideoProgress
	if err := r.db.GetContext(ctx, &progress, query, userID, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return &progress, nil
}
