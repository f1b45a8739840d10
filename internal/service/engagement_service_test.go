package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type engagementFixture struct {
	db      *memDB
	metrics *MetricsService
	svc     *EngagementService
	student *models.Principal
	course  *models.Course
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	db := newMemDB()
	teacher := db.addUser("teach", models.RoleTeacher)
	f := &engagementFixture{
		db:      db,
		metrics: NewMetricsService(),
		student: db.addUser("learner", models.RoleStudent),
		course:  db.addCourse(teacher, db.addTopic("Programming", "programming"), "Go", "go"),
	}
	f.svc = NewEngagementService(memEngagement{db: db}, memVideos{db: db}, f.metrics, nil, nil)
	return f
}

func TestToggleBookmarkTwiceRestoresState(t *testing.T) {
	f := newEngagementFixture(t)
	video := f.db.addVideo(f.course, "intro", 0, nil)
	ctx := context.Background()

	first, err := f.svc.ToggleBookmark(ctx, f.student, video.ID)
	require.NoError(t, err)
	assert.True(t, first.Bookmarked)
	assert.Equal(t, "Video bookmarked", first.Message)
	assert.Len(t, f.db.bookmarks, 1)

	second, err := f.svc.ToggleBookmark(ctx, f.student, video.ID)
	require.NoError(t, err)
	assert.False(t, second.Bookmarked)
	assert.Equal(t, "Bookmark removed", second.Message)
	assert.Empty(t, f.db.bookmarks)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.bookmarks.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.bookmarks.WithLabelValues("removed")))
}

func TestToggleBookmarkRequiresUserAndVideo(t *testing.T) {
	f := newEngagementFixture(t)

	_, err := f.svc.ToggleBookmark(context.Background(), nil, "video-x")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.ToggleBookmark(context.Background(), f.student, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAddCommentRejectsBlankContent(t *testing.T) {
	f := newEngagementFixture(t)
	video := f.db.addVideo(f.course, "intro", 0, nil)

	_, err := f.svc.AddComment(context.Background(), f.student, video.ID, models.CommentRequest{Content: "   \n"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	comment, err := f.svc.AddComment(context.Background(), f.student, video.ID, models.CommentRequest{Content: "  great video  "})
	require.NoError(t, err)
	assert.Equal(t, "great video", comment.Content)
	assert.Equal(t, "learner", comment.Username)
	assert.NotEmpty(t, comment.ID)
}

func TestRecordProgressClampsPercentage(t *testing.T) {
	f := newEngagementFixture(t)
	duration := 100
	video := f.db.addVideo(f.course, "intro", 0, &duration)
	ctx := context.Background()

	view, err := f.svc.RecordProgress(ctx, f.student, video.ID, models.ProgressRequest{WatchedSeconds: 40})
	require.NoError(t, err)
	assert.Equal(t, 40.0, view.ProgressPercentage)
	assert.False(t, view.Completed)

	view, err = f.svc.RecordProgress(ctx, f.student, video.ID, models.ProgressRequest{WatchedSeconds: 150})
	require.NoError(t, err)
	assert.Equal(t, 100.0, view.ProgressPercentage)
	assert.True(t, view.Completed)
	assert.Len(t, f.db.progress, 1)

	_, err = f.svc.RecordProgress(ctx, f.student, video.ID, models.ProgressRequest{WatchedSeconds: -1})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRecordProgressWithUnknownDuration(t *testing.T) {
	f := newEngagementFixture(t)
	video := f.db.addVideo(f.course, "intro", 0, nil)

	view, err := f.svc.RecordProgress(context.Background(), f.student, video.ID, models.ProgressRequest{WatchedSeconds: 500})
	require.NoError(t, err)
	assert.Zero(t, view.ProgressPercentage)
	assert.False(t, view.Completed)
	assert.Equal(t, 500, view.WatchedSeconds)
}
