package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/learnhub-api/internal/models"
)

const courseSelect = `SELECT c.id, c.title, c.description, c.teacher_id, c.topic_id, c.thumbnail, c.view_count,
       c.slug, c.is_active, c.created_at, c.updated_at,
       u.username AS teacher_username, t.name AS topic_name, t.slug AS topic_slug
FROM courses c
JOIN users u ON u.id = c.teacher_id
JOIN topics t ON t.id = c.topic_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CourseRepository persists courses and computes their aggregates.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses newest first. Search and topic filters are combined with AND.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	builder := strings.Builder{}
	builder.WriteString(courseSelect)
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(c.title ILIKE $%d OR c.description ILIKE $%d OR u.username ILIKE $%d OR t.name ILIKE $%d)", n, n, n, n))
	}
	if filter.TopicSlug != "" {
		args = append(args, filter.TopicSlug)
		conditions = append(conditions, fmt.Sprintf("t.slug = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY c.created_at DESC")
	if filter.Limit > 0 {
		builder.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	}

	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindBySlug returns the course with its teacher and topic labels.
func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.findOne(ctx, courseSelect+` WHERE c.slug = $1`, slug)
}

// FindByID returns the course with its teacher and topic labels.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return r.findOne(ctx, courseSelect+` WHERE c.id = $1`, id)
}

func (r *CourseRepository) findOne(ctx context.Context, query, arg string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// ExistsBySlug reports whether a course already uses slug.
func (r *CourseRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)`, slug); err != nil {
		return false, fmt.Errorf("check course slug: %w", err)
	}
	return exists, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, description, teacher_id, topic_id, thumbnail, view_count, slug, is_active, created_at, updated_at)
	VALUES (:id, :title, :description, :teacher_id, :topic_id, :thumbnail, :view_count, :slug, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Delete removes a course; videos, ratings and their engagement rows cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the counter in a single statement and returns the new value.
func (r *CourseRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	if err := r.db.GetContext(ctx, &views, `UPDATE courses SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("increment course views: %w", err)
	}
	return views, nil
}

// Aggregates gathers rating, duration, video and student totals for a course.
// Students are non-teacher users who recorded progress on one of its videos or rated it.
func (r *CourseRepository) Aggregates(ctx context.Context, courseID string) (*models.CourseAggregates, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM course_ratings WHERE course_id = $1) AS rating_count,
	(SELECT COALESCE(SUM(rating), 0) FROM course_ratings WHERE course_id = $1) AS rating_sum,
	(SELECT COALESCE(SUM(duration_seconds), 0) FROM videos WHERE course_id = $1) AS duration_seconds,
	(SELECT COUNT(*) FROM videos WHERE course_id = $1) AS video_count,
	(SELECT COUNT(DISTINCT s.user_id) FROM (
		SELECT vp.user_id FROM video_progress vp JOIN videos v ON v.id = vp.video_id WHERE v.course_id = $1
		UNION
		SELECT cr.user_id FROM course_ratings cr WHERE cr.course_id = $1
	) s JOIN users su ON su.id = s.user_id WHERE su.role <> 'teacher') AS student_count`
	var agg models.CourseAggregates
	if err := r.db.GetContext(ctx, &agg, query, courseID); err != nil {
		return nil, fmt.Errorf("course aggregates: %w", err)
	}
	return &agg, nil
}

// ListByTeacherWithVideoCount returns the teacher's courses newest first with their video counts.
func (r *CourseRepository) ListByTeacherWithVideoCount(ctx context.Context, teacherID string) ([]models.CourseWithVideoCount, error) {
	query := `SELECT c.id, c.title, c.description, c.teacher_id, c.topic_id, c.thumbnail, c.view_count,
       c.slug, c.is_active, c.created_at, c.updated_at,
       u.username AS teacher_username, t.name AS topic_name, t.slug AS topic_slug,
       (SELECT COUNT(*) FROM videos v WHERE v.course_id = c.id) AS video_count
FROM courses c
JOIN users u ON u.id = c.teacher_id
JOIN topics t ON t.id = c.topic_id
WHERE c.teacher_id = $1
ORDER BY c.created_at DESC`
	rows := make([]models.CourseWithVideoCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return rows, nil
}
