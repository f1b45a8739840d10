package dto

import (
	"time"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// VideoDetail is a video with the caller-specific engagement state.
type VideoDetail struct {
	Video              models.Video          `json:"video"`
	Course             models.Course         `json:"course"`
	Comments           []models.Comment      `json:"comments"`
	IsBookmarked       bool                  `json:"is_bookmarked"`
	Progress           *models.VideoProgress `json:"progress,omitempty"`
	ProgressPercentage float64               `json:"progress_percentage"`
	StreamURL          string                `json:"stream_url"`
	StreamExpiresAt    time.Time             `json:"stream_expires_at"`
	CanComment         bool                  `json:"can_comment"`
}

// BookmarkToggle reports the state after a toggle.
type BookmarkToggle struct {
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
	Redirect   string `json:"redirect,omitempty"`
}

// ProgressView is the stored progress plus its derived percentage.
type ProgressView struct {
	models.VideoProgress
	ProgressPercentage float64 `json:"progress_percentage"`
}
