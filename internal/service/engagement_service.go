package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

const (
	messageBookmarked      = "Video bookmarked"
	messageBookmarkRemoved = "Bookmark removed"
)

type engagementRepository interface {
	DeleteBookmark(ctx context.Context, userID, videoID string) (bool, error)
	InsertBookmark(ctx context.Context, userID, videoID string) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpsertProgress(ctx context.Context, progress *models.VideoProgress) error
}

type engagementVideoFinder interface {
	FindByID(ctx context.Context, id string) (*models.Video, error)
}

// EngagementService handles per-user interactions with videos.
type EngagementService struct {
	repo      engagementRepository
	videos    engagementVideoFinder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngagementService wires the engagement dependencies.
func NewEngagementService(repo engagementRepository, videos engagementVideoFinder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EngagementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{repo: repo, videos: videos, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// ToggleBookmark removes an existing bookmark or adds a missing one.
func (s *EngagementService) ToggleBookmark(ctx context.Context, actor *models.Principal, videoID string) (*dto.BookmarkToggle, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	video, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	removed, err := s.repo.DeleteBookmark(ctx, actor.UserID, video.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to toggle bookmark")
	}
	result := &dto.BookmarkToggle{Bookmarked: false, Message: messageBookmarkRemoved}
	if !removed {
		if err := s.repo.InsertBookmark(ctx, actor.UserID, video.ID); err != nil {
			return nil, appErrors.Internal(err, "failed to toggle bookmark")
		}
		result = &dto.BookmarkToggle{Bookmarked: true, Message: messageBookmarked}
	}
	s.metrics.BookmarkToggled(result.Bookmarked)
	return result, nil
}

// AddComment attaches a non-blank comment to the video.
func (s *EngagementService) AddComment(ctx context.Context, actor *models.Principal, videoID string, req models.CommentRequest) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "comment content is required")
	}
	video, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: actor.UserID, VideoID: video.ID, Content: req.Content, Username: actor.Username}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Internal(err, "failed to add comment")
	}
	return comment, nil
}

// RecordProgress stores the latest watched position; completion needs a known duration.
func (s *EngagementService) RecordProgress(ctx context.Context, actor *models.Principal, videoID string, req models.ProgressRequest) (*dto.ProgressView, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "watched_seconds must be zero or more")
	}
	video, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	progress := &models.VideoProgress{
		UserID:         actor.UserID,
		VideoID:        video.ID,
		WatchedSeconds: req.WatchedSeconds,
		Completed:      models.IsCompleted(req.WatchedSeconds, video.DurationSeconds),
		LastWatched:    s.now().UTC(),
	}
	if err := s.repo.UpsertProgress(ctx, progress); err != nil {
		return nil, appErrors.Internal(err, "failed to record progress")
	}
	return &dto.ProgressView{
		VideoProgress:      *progress,
		ProgressPercentage: models.ProgressPercentage(progress.WatchedSeconds, video.DurationSeconds),
	}, nil
}

func (s *EngagementService) findVideo(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Video not found")
		}
		return nil, appErrors.Internal(err, "failed to load video")
	}
	return video, nil
}
