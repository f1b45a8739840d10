package models

import (
	"math"
	"time"
)

// Bookmark marks a video for a user. A (user, video) pair is bookmarked at most once.
type Bookmark struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VideoID   string    `db:"video_id" json:"video_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookmarkDetail is a bookmark joined with its video and course, used by the student dashboard.
type BookmarkDetail struct {
	Bookmark
	VideoTitle     string  `db:"video_title" json:"video_title"`
	VideoThumbnail *string `db:"video_thumbnail" json:"video_thumbnail,omitempty"`
	CourseID       string  `db:"course_id" json:"course_id"`
	CourseTitle    string  `db:"course_title" json:"course_title"`
	CourseSlug     string  `db:"course_slug" json:"course_slug"`
}

// Comment on a video, listed newest first.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VideoID   string    `db:"video_id" json:"video_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Username  string    `db:"username" json:"username"`
}

// CommentRequest payload for commenting on a video.
type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=5000"`
}

// VideoProgress tracks how far a user has watched a video.
type VideoProgress struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	VideoID        string    `db:"video_id" json:"video_id"`
	WatchedSeconds int       `db:"watched_seconds" json:"watched_seconds"`
	Completed      bool      `db:"completed" json:"completed"`
	LastWatched    time.Time `db:"last_watched" json:"last_watched"`
}

// ProgressRequest payload for recording watch progress.
type ProgressRequest struct {
	WatchedSeconds int `json:"watched_seconds" form:"watched_seconds" validate:"min=0"`
}

// ProgressPercentage is watched/duration as a percentage clamped to [0, 100].
// Unknown or zero durations yield 0.
func ProgressPercentage(watchedSeconds int, durationSeconds *int) float64 {
	if durationSeconds == nil || *durationSeconds <= 0 {
		return 0
	}
	pct := float64(watchedSeconds) / float64(*durationSeconds) * 100
	return math.Max(0, math.Min(100, pct))
}

// IsCompleted reports whether the watched time covers a known duration.
func IsCompleted(watchedSeconds int, durationSeconds *int) bool {
	return durationSeconds != nil && watchedSeconds >= *durationSeconds
}
