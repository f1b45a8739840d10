package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
)

var courseRowColumns = []string{
	"id", "title", "description", "teacher_id", "topic_id", "thumbnail", "view_count",
	"slug", "is_active", "created_at", "updated_at", "teacher_username", "topic_name", "topic_slug",
}

func TestTopicListOrderedByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM topics ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at"}).
			AddRow("t1", "Go", "go", "", now, now))

	topics, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "go", topics[0].Slug)
}

func TestTopicExistsByNameOrSlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) = LOWER($1) OR slug = $2")).
		WithArgs("Go", "go").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByNameOrSlug(context.Background(), "Go", "go")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCourseListCombinesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (c.title ILIKE $1 OR c.description ILIKE $1 OR u.username ILIKE $1 OR t.name ILIKE $1) AND t.slug = $2 ORDER BY c.created_at DESC")).
		WithArgs(`%50\% off%`, "go").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c1", "Go", "desc", "u1", "t1", nil, 3, "go", true, now, now, "ana", "Go", "go"))

	courses, err := repo.List(context.Background(), models.CourseFilter{Search: " 50% off ", TopicSlug: "go"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "ana", courses[0].TeacherUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListRecentLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN topics t ON t.id = c.topic_id ORDER BY c.created_at DESC LIMIT 6")).
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	courses, err := repo.List(context.Background(), models.CourseFilter{Limit: 6})
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NotNil(t, courses)
}

func TestCourseIncrementViewsIsSingleStatement(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(8))

	views, err := repo.IncrementViews(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 8, views)
}

func TestCourseAggregates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("AS rating_count").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"rating_count", "rating_sum", "duration_seconds", "video_count", "student_count"}).
			AddRow(2, 6, 600, 3, 5))

	agg, err := repo.Aggregates(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, *agg.AverageRating())
	assert.Equal(t, 10.0, agg.DurationMinutes())
	assert.Equal(t, 5, agg.StudentCount)
}

func TestCourseDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("DELETE FROM courses").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "c1"), sql.ErrNoRows)
}

func TestListByTeacherWithVideoCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	cols := append(append([]string{}, courseRowColumns...), "video_count")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.teacher_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c1", "Go", "desc", "u1", "t1", nil, 0, "go", true, now, now, "ana", "Go", "go", 4))

	rows, err := repo.ListByTeacherWithVideoCount(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].VideoCount)
	assert.Equal(t, "Go", rows[0].Title)
}

func TestVideoListByCourseOrdering(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = $1 ORDER BY sort_order ASC, created_at ASC")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "course_id", "video_file", "thumbnail", "duration_seconds", "sort_order", "view_count", "created_at"}).
			AddRow("v1", "Intro", "", "c1", "videos/v1.mp4", nil, nil, 0, 0, now).
			AddRow("v2", "Next", "", "c1", "videos/v2.mp4", nil, 120, 1, 0, now))

	videos, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Nil(t, videos[0].DurationSeconds)
	require.NotNil(t, videos[1].DurationSeconds)
	assert.Equal(t, 120, *videos[1].DurationSeconds)
	assert.Equal(t, 1, videos[1].Order)
}

func TestVideoIncrementViewsMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	mock.ExpectQuery("UPDATE videos SET view_count = view_count \\+ 1").WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementViews(context.Background(), "v1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
