package models

import "time"

// Video belongs to a course. Videos sort by Order then CreatedAt, ascending.
type Video struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	CourseID        string    `db:"course_id" json:"course_id"`
	VideoFile       string    `db:"video_file" json:"-"`
	Thumbnail       *string   `db:"thumbnail" json:"thumbnail,omitempty"`
	DurationSeconds *int      `db:"duration_seconds" json:"duration_seconds,omitempty"`
	Order           int       `db:"sort_order" json:"order"`
	ViewCount       int       `db:"view_count" json:"view_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// UploadVideoRequest payload for adding a video to a course.
type UploadVideoRequest struct {
	Title           string      `form:"title" validate:"required,max=200"`
	Description     string      `form:"description"`
	Order           int         `form:"order" validate:"min=0"`
	DurationSeconds *int        `form:"duration" validate:"omitempty,min=0"`
	File            *FileUpload `form:"-" validate:"required"`
	Thumbnail       *FileUpload `form:"-"`
}
