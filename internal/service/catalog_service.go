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
	"github.com/noah-isme/learnhub-api/pkg/database"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/slug"
)

// reservedSlugs collide with fixed routes mounted next to /:slug.
var reservedSlugs = map[string]struct{}{
	"topics":       {},
	"create":       {},
	"create-topic": {},
	"videos":       {},
	"dashboard":    {},
	"auth":         {},
}

const maxSlugAttempts = 3

type catalogCourseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindBySlug(ctx context.Context, slug string) (*models.Course, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
	Aggregates(ctx context.Context, courseID string) (*models.CourseAggregates, error)
}

type catalogTopicRepository interface {
	List(ctx context.Context) ([]models.Topic, error)
	FindBySlug(ctx context.Context, slug string) (*models.Topic, error)
	FindByID(ctx context.Context, id string) (*models.Topic, error)
	ExistsByNameOrSlug(ctx context.Context, name, slug string) (bool, error)
	Create(ctx context.Context, topic *models.Topic) error
}

type courseVideoLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Video, error)
}

type catalogMedia interface {
	StoreImage(dir string, upload *models.FileUpload) (string, error)
	Remove(paths ...string)
}

// CatalogServiceConfig tunes caching.
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService manages topics and courses.
type CatalogService struct {
	courses   catalogCourseRepository
	topics    catalogTopicRepository
	videos    courseVideoLister
	media     catalogMedia
	cache     *CacheService
	metrics   *MetricsService
	audit     auditLogger
	links     Links
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CatalogServiceConfig
}

// NewCatalogService wires the catalog dependencies.
func NewCatalogService(
	courses catalogCourseRepository,
	topics catalogTopicRepository,
	videos courseVideoLister,
	media catalogMedia,
	cache *CacheService,
	metrics *MetricsService,
	audit auditLogger,
	links Links,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg CatalogServiceConfig,
) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		courses:   courses,
		topics:    topics,
		videos:    videos,
		media:     media,
		cache:     cache,
		metrics:   metrics,
		audit:     audit,
		links:     links,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// ListCourses never fails: a storage error yields an empty listing flagged as unavailable.
func (s *CatalogService) ListCourses(ctx context.Context, search, topicSlug string) *dto.CourseList {
	result := &dto.CourseList{
		Courses:     []models.Course{},
		Topics:      []models.Topic{},
		SearchQuery: search,
		TopicFilter: topicSlug,
	}

	courses, err := s.courses.List(ctx, models.CourseFilter{Search: search, TopicSlug: topicSlug})
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		result.Unavailable = true
		return result
	}
	result.Courses = courses

	topics, err := s.ListTopics(ctx)
	if err != nil {
		s.logger.Error("failed to list topics for catalog", zap.Error(err))
		result.Unavailable = true
		return result
	}
	result.Topics = topics
	return result
}

// ListTopics returns every topic ordered by name.
func (s *CatalogService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var cached []models.Topic
	if s.cache.Get(ctx, cacheKeyTopics, &cached) {
		return cached, nil
	}
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list topics")
	}
	s.cache.Set(ctx, cacheKeyTopics, topics, s.cfg.CacheTTL)
	return topics, nil
}

// GetTopic returns a topic and its courses, newest first.
func (s *CatalogService) GetTopic(ctx context.Context, topicSlug string) (*dto.TopicDetail, error) {
	topic, err := s.topics.FindBySlug(ctx, topicSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Topic not found")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}
	courses, err := s.courses.List(ctx, models.CourseFilter{TopicSlug: topic.Slug})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list topic courses")
	}
	return &dto.TopicDetail{Topic: *topic, Courses: courses}, nil
}

// RecentCourses returns the newest courses platform-wide.
func (s *CatalogService) RecentCourses(ctx context.Context, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 6
	}
	var cached []models.Course
	if s.cache.Get(ctx, cacheKeyRecentCourses, &cached) && len(cached) >= limit {
		return cached[:limit], nil
	}
	courses, err := s.courses.List(ctx, models.CourseFilter{Limit: limit})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent courses")
	}
	if len(courses) == limit {
		s.cache.Set(ctx, cacheKeyRecentCourses, courses, s.cfg.CacheTTL)
	}
	return courses, nil
}

// CourseForm returns what a teacher needs to fill in the course form.
func (s *CatalogService) CourseForm(ctx context.Context, actor *models.Principal) (*dto.CourseFormContext, error) {
	if err := s.requireTeacher(actor, "Only teachers can create courses."); err != nil {
		return nil, err
	}
	topics, err := s.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CourseFormContext{Topics: topics}, nil
}

// TopicForm only checks that the caller may create topics.
func (s *CatalogService) TopicForm(actor *models.Principal) error {
	return s.requireTeacher(actor, "Only teachers can create topics.")
}

// CreateCourse stores a course owned by the acting teacher under a unique slug.
func (s *CatalogService) CreateCourse(ctx context.Context, actor *models.Principal, req models.CreateCourseRequest, meta RequestMeta) (*models.Course, error) {
	if err := s.requireTeacher(actor, "Only teachers can create courses."); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	topic, err := s.topics.FindByID(ctx, req.TopicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Select a valid topic.")
		}
		return nil, appErrors.Internal(err, "failed to load topic")
	}

	course := &models.Course{
		Title:           req.Title,
		Description:     req.Description,
		TeacherID:       actor.UserID,
		TopicID:         topic.ID,
		IsActive:        true,
		TeacherUsername: actor.Username,
		TopicName:       topic.Name,
		TopicSlug:       topic.Slug,
	}
	if req.Thumbnail != nil && s.media != nil {
		stored, err := s.media.StoreImage(MediaDirCourseThumbs, req.Thumbnail)
		if err != nil {
			return nil, err
		}
		if stored != "" {
			course.Thumbnail = &stored
		}
	}

	if err := s.insertWithUniqueSlug(ctx, course); err != nil {
		if course.Thumbnail != nil {
			s.media.Remove(*course.Thumbnail)
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeyRecentCourses)
	recordAudit(ctx, s.audit, s.logger, actor.UserID, models.AuditActionCourseCreate, "course", course.ID,
		map[string]string{"title": course.Title, "slug": course.Slug}, meta)
	return course, nil
}

// insertWithUniqueSlug picks the first free slug from title, title-1, title-2 and so on.
// A concurrent insert that wins the same slug triggers a fresh search.
func (s *CatalogService) insertWithUniqueSlug(ctx context.Context, course *models.Course) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate, err := s.nextCourseSlug(ctx, course.Title)
		if err != nil {
			return err
		}
		course.Slug = candidate
		err = s.courses.Create(ctx, course)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return appErrors.Internal(err, "failed to create course")
		}
		s.logger.Warn("course slug taken concurrently, retrying", zap.String("slug", candidate))
	}
	return appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique course slug, please retry")
}

func (s *CatalogService) nextCourseSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}
	candidate := base
	for n := 1; ; n++ {
		if _, reserved := reservedSlugs[candidate]; !reserved {
			exists, err := s.courses.ExistsBySlug(ctx, candidate)
			if err != nil {
				return "", appErrors.Internal(err, "failed to check course slug")
			}
			if !exists {
				return candidate, nil
			}
		}
		candidate = slug.WithSuffix(base, n)
	}
}

// CreateTopic stores a topic. Slug defaults to the slugified name.
func (s *CatalogService) CreateTopic(ctx context.Context, actor *models.Principal, req models.CreateTopicRequest, meta RequestMeta) (*models.Topic, error) {
	if err := s.requireTeacher(actor, "Only teachers can create topics."); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}
	topicSlug := slug.Make(req.Slug)
	if topicSlug == "" {
		topicSlug = slug.Make(req.Name)
	}
	if topicSlug == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Topic name must contain letters or digits.")
	}

	exists, err := s.topics.ExistsByNameOrSlug(ctx, req.Name, topicSlug)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check topic")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Topic with this name or slug already exists.")
	}

	topic := &models.Topic{Name: req.Name, Slug: topicSlug, Description: req.Description}
	if err := s.topics.Create(ctx, topic); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Topic with this name or slug already exists.")
		}
		return nil, appErrors.Internal(err, "failed to create topic")
	}

	s.cache.Invalidate(ctx, cacheKeyTopics)
	recordAudit(ctx, s.audit, s.logger, actor.UserID, models.AuditActionTopicCreate, "topic", topic.ID,
		map[string]string{"name": topic.Name, "slug": topic.Slug}, meta)
	return topic, nil
}

// GetCourse returns the course detail. Authenticated callers count as one view each.
func (s *CatalogService) GetCourse(ctx context.Context, courseSlug string, actor *models.Principal) (*dto.CourseDetail, error) {
	course, err := s.findCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	if actor.Authenticated() {
		views, err := s.courses.IncrementViews(ctx, course.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
			}
			return nil, appErrors.Internal(err, "failed to record course view")
		}
		course.ViewCount = views
		s.metrics.CourseViewed()
	}

	videos, err := s.videos.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course videos")
	}
	agg, err := s.courses.Aggregates(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to compute course statistics")
	}

	return &dto.CourseDetail{
		Course:          *course,
		Videos:          videos,
		AverageRating:   agg.AverageRating(),
		RatingCount:     agg.RatingCount,
		DurationMinutes: agg.DurationMinutes(),
		StudentCount:    agg.StudentCount,
		VideoCount:      agg.VideoCount,
		IsOwner:         actor.Authenticated() && actor.UserID == course.TeacherID,
	}, nil
}

// DeleteCourse removes an owned course together with its stored media.
func (s *CatalogService) DeleteCourse(ctx context.Context, actor *models.Principal, courseSlug string, meta RequestMeta) error {
	if !actor.Authenticated() {
		return appErrors.ErrUnauthorized
	}
	course, err := s.findCourse(ctx, courseSlug)
	if err != nil {
		return err
	}
	if course.TeacherID != actor.UserID {
		return appErrors.Forbidden("You can only delete your own courses.", s.links.Course(course.Slug))
	}

	videos, err := s.videos.ListByCourse(ctx, course.ID)
	if err != nil {
		return appErrors.Internal(err, "failed to list course videos")
	}
	if err := s.courses.Delete(ctx, course.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return appErrors.Internal(err, "failed to delete course")
	}

	if s.media != nil {
		files := make([]string, 0, len(videos)*2+1)
		if course.Thumbnail != nil {
			files = append(files, *course.Thumbnail)
		}
		for _, v := range videos {
			files = append(files, v.VideoFile)
			if v.Thumbnail != nil {
				files = append(files, *v.Thumbnail)
			}
		}
		s.media.Remove(files...)
	}

	s.cache.Invalidate(ctx, cacheKeyRecentCourses)
	recordAudit(ctx, s.audit, s.logger, actor.UserID, models.AuditActionCourseDelete, "course", course.ID,
		map[string]string{"slug": course.Slug}, meta)
	return nil
}

func (s *CatalogService) findCourse(ctx context.Context, courseSlug string) (*models.Course, error) {
	course, err := s.courses.FindBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	return course, nil
}

func (s *CatalogService) requireTeacher(actor *models.Principal, message string) error {
	if !actor.Authenticated() {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleTeacher {
		return appErrors.Forbidden(message, s.links.Catalog())
	}
	return nil
}
