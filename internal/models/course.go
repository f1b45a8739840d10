package models

import (
	"math"
	"time"
)

// Course is a teacher-owned collection of videos. Teacher and topic labels are joined on read.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	TeacherID       string    `db:"teacher_id" json:"teacher_id"`
	TopicID         string    `db:"topic_id" json:"topic_id"`
	Thumbnail       *string   `db:"thumbnail" json:"thumbnail,omitempty"`
	ViewCount       int       `db:"view_count" json:"view_count"`
	Slug            string    `db:"slug" json:"slug"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	TeacherUsername string    `db:"teacher_username" json:"teacher_username"`
	TopicName       string    `db:"topic_name" json:"topic_name"`
	TopicSlug       string    `db:"topic_slug" json:"topic_slug"`
}

// CourseFilter narrows the catalog listing. Both criteria apply together.
type CourseFilter struct {
	Search    string
	TopicSlug string
	Limit     int
}

// CreateCourseRequest payload for creating a course.
type CreateCourseRequest struct {
	Title       string      `json:"title" form:"title" validate:"required,max=200"`
	Description string      `json:"description" form:"description" validate:"required"`
	TopicID     string      `json:"topic_id" form:"topic_id" validate:"required"`
	Thumbnail   *FileUpload `json:"-" form:"-"`
}

// CourseWithVideoCount is a teacher dashboard row.
type CourseWithVideoCount struct {
	Course
	VideoCount int `db:"video_count" json:"video_count"`
}

// CourseAggregates holds the raw sums a course detail is derived from.
type CourseAggregates struct {
	RatingCount     int   `db:"rating_count"`
	RatingSum       int64 `db:"rating_sum"`
	DurationSeconds int64 `db:"duration_seconds"`
	VideoCount      int   `db:"video_count"`
	StudentCount    int   `db:"student_count"`
}

// AverageRating returns nil when nothing has been rated yet.
func (a CourseAggregates) AverageRating() *float64 {
	if a.RatingCount == 0 {
		return nil
	}
	avg := float64(a.RatingSum) / float64(a.RatingCount)
	return &avg
}

// DurationMinutes converts the summed durations to minutes with one decimal.
func (a CourseAggregates) DurationMinutes() float64 {
	return math.Round(float64(a.DurationSeconds)/60*10) / 10
}
