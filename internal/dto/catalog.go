package dto

import "github.com/noah-isme/learnhub-api/internal/models"

// CourseList is the catalog landing payload.
type CourseList struct {
	Courses     []models.Course `json:"courses"`
	Topics      []models.Topic  `json:"topics"`
	SearchQuery string          `json:"search_query"`
	TopicFilter string          `json:"topic_filter"`
	Unavailable bool            `json:"-"`
}

// TopicDetail is a topic with the courses filed under it.
type TopicDetail struct {
	Topic   models.Topic    `json:"topic"`
	Courses []models.Course `json:"courses"`
}

// CourseDetail is a course with its ordered videos and derived aggregates.
type CourseDetail struct {
	Course          models.Course  `json:"course"`
	Videos          []models.Video `json:"videos"`
	AverageRating   *float64       `json:"average_rating"`
	RatingCount     int            `json:"rating_count"`
	DurationMinutes float64        `json:"total_duration_minutes"`
	StudentCount    int            `json:"student_count"`
	VideoCount      int            `json:"video_count"`
	IsOwner         bool           `json:"is_owner"`
}

// CourseFormContext lists what a course form needs.
type CourseFormContext struct {
	Topics []models.Topic `json:"topics"`
}

// UploadFormContext identifies the course a video will be added to.
type UploadFormContext struct {
	Course       models.Course `json:"course"`
	NextOrder    int           `json:"next_order"`
	AllowedMIMEs []string      `json:"allowed_mime_types"`
	MaxSizeBytes int64         `json:"max_size_bytes"`
}
