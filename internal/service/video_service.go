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

type videoRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Video, error)
	FindByID(ctx context.Context, id string) (*models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
}

type videoCourseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type videoEngagementReader interface {
	ListComments(ctx context.Context, videoID string) ([]models.Comment, error)
	IsBookmarked(ctx context.Context, userID, videoID string) (bool, error)
	FindProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error)
}

type videoMedia interface {
	StoreVideo(upload *models.FileUpload) (string, error)
	StoreImage(dir string, upload *models.FileUpload) (string, error)
	Remove(paths ...string)
	StreamURL(videoID, relPath string) (string, time.Time, error)
	OpenStream(ctx context.Context, video *models.Video, token string) (*MediaStream, error)
	Limits() ([]string, int64)
}

// VideoService manages course videos and their playback.
type VideoService struct {
	videos     videoRepository
	courses    videoCourseFinder
	engagement videoEngagementReader
	media      videoMedia
	metrics    *MetricsService
	audit      auditLogger
	links      Links
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewVideoService wires the video dependencies.
func NewVideoService(videos videoRepository, courses videoCourseFinder, engagement videoEngagementReader, media videoMedia, metrics *MetricsService, audit auditLogger, links Links, validate *validator.Validate, logger *zap.Logger) *VideoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{
		videos:     videos,
		courses:    courses,
		engagement: engagement,
		media:      media,
		metrics:    metrics,
		audit:      audit,
		links:      links,
		validator:  validate,
		logger:     logger,
	}
}

// UploadForm returns the target course when the actor owns it.
func (s *VideoService) UploadForm(ctx context.Context, actor *models.Principal, courseID string) (*dto.UploadFormContext, error) {
	course, err := s.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course videos")
	}
	mimes, maxSize := s.media.Limits()
	return &dto.UploadFormContext{Course: *course, NextOrder: len(videos), AllowedMIMEs: mimes, MaxSizeBytes: maxSize}, nil
}

// AuthorizeUpload reports whether actor may add videos to the course, without reading a payload.
func (s *VideoService) AuthorizeUpload(ctx context.Context, actor *models.Principal, courseID string) error {
	_, err := s.ownedCourse(ctx, actor, courseID)
	return err
}

// Upload stores the file and thumbnail and adds the video to an owned course.
func (s *VideoService) Upload(ctx context.Context, actor *models.Principal, courseID string, req models.UploadVideoRequest, meta RequestMeta) (*models.Video, error) {
	course, err := s.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}

	videoPath, err := s.media.StoreVideo(req.File)
	if err != nil {
		return nil, err
	}
	video := &models.Video{
		Title:           req.Title,
		Description:     req.Description,
		CourseID:        course.ID,
		VideoFile:       videoPath,
		DurationSeconds: req.DurationSeconds,
		Order:           req.Order,
	}
	if req.Thumbnail != nil {
		thumb, err := s.media.StoreImage(MediaDirVideoThumbnails, req.Thumbnail)
		if err != nil {
			s.media.Remove(videoPath)
			return nil, err
		}
		if thumb != "" {
			video.Thumbnail = &thumb
		}
	}

	if err := s.videos.Create(ctx, video); err != nil {
		s.media.Remove(video.VideoFile)
		if video.Thumbnail != nil {
			s.media.Remove(*video.Thumbnail)
		}
		return nil, appErrors.Internal(err, "failed to create video")
	}

	recordAudit(ctx, s.audit, s.logger, actor.UserID, models.AuditActionVideoUpload, "video", video.ID,
		map[string]string{"title": video.Title, "course_id": course.ID}, meta)
	s.logger.Info("video uploaded", zap.String("video_id", video.ID), zap.String("course_id", course.ID))
	return video, nil
}

// Get returns the video with comments and the caller's engagement. Every read counts as a view.
func (s *VideoService) Get(ctx context.Context, id string, actor *models.Principal) (*dto.VideoDetail, error) {
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.videos.IncrementViews(ctx, video.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Video not found")
		}
		return nil, appErrors.Internal(err, "failed to record video view")
	}
	video.ViewCount = views
	s.metrics.VideoViewed()

	course, err := s.courses.FindByID(ctx, video.CourseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load video course")
	}
	comments, err := s.engagement.ListComments(ctx, video.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list comments")
	}

	detail := &dto.VideoDetail{
		Video:      *video,
		Course:     *course,
		Comments:   comments,
		CanComment: actor.Authenticated(),
	}

	if actor.Authenticated() {
		detail.IsBookmarked, err = s.engagement.IsBookmarked(ctx, actor.UserID, video.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load bookmark state")
		}
		progress, err := s.engagement.FindProgress(ctx, actor.UserID, video.ID)
		switch {
		case err == nil:
			detail.Progress = progress
			detail.ProgressPercentage = models.ProgressPercentage(progress.WatchedSeconds, video.DurationSeconds)
		case errors.Is(err, sql.ErrNoRows):
		default:
			return nil, appErrors.Internal(err, "failed to load progress")
		}
	}

	detail.StreamURL, detail.StreamExpiresAt, err = s.media.StreamURL(video.ID, video.VideoFile)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Stream opens the video file when the signed token matches.
func (s *VideoService) Stream(ctx context.Context, id, token string) (*MediaStream, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "stream token required")
	}
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.media.OpenStream(ctx, video, token)
}

// Delete removes a video from an owned course and its stored files.
func (s *VideoService) Delete(ctx context.Context, actor *models.Principal, id string, meta RequestMeta) error {
	if !actor.Authenticated() {
		return appErrors.ErrUnauthorized
	}
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return err
	}
	course, err := s.courses.FindByID(ctx, video.CourseID)
	if err != nil {
		return appErrors.Internal(err, "failed to load video course")
	}
	if course.TeacherID != actor.UserID {
		return appErrors.Forbidden("You can only delete videos from your own courses.", s.links.Video(video.ID))
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Video not found")
		}
		return appErrors.Internal(err, "failed to delete video")
	}
	s.media.Remove(video.VideoFile)
	if video.Thumbnail != nil {
		s.media.Remove(*video.Thumbnail)
	}
	recordAudit(ctx, s.audit, s.logger, actor.UserID, models.AuditActionVideoDelete, "video", video.ID,
		map[string]string{"course_id": course.ID}, meta)
	return nil
}

func (s *VideoService) findVideo(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Video not found")
		}
		return nil, appErrors.Internal(err, "failed to load video")
	}
	return video, nil
}

func (s *VideoService) ownedCourse(ctx context.Context, actor *models.Principal, courseID string) (*models.Course, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	if course.TeacherID != actor.UserID {
		return nil, appErrors.Forbidden("You can only upload videos to your own courses.", s.links.Course(course.Slug))
	}
	return course, nil
}
