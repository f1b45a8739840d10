package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

const defaultRecentCoursesLimit = 6

type teacherCourseLister interface {
	ListByTeacherWithVideoCount(ctx context.Context, teacherID string) ([]models.CourseWithVideoCount, error)
}

type bookmarkDetailLister interface {
	ListBookmarkDetails(ctx context.Context, userID string) ([]models.BookmarkDetail, error)
}

type recentCourseProvider interface {
	RecentCourses(ctx context.Context, limit int) ([]models.Course, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	RecentCoursesLimit int
}

// DashboardService composes the role-specific landing page.
type DashboardService struct {
	courses   teacherCourseLister
	bookmarks bookmarkDetailLister
	recent    recentCourseProvider
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs the dashboard orchestrator.
func NewDashboardService(courses teacherCourseLister, bookmarks bookmarkDetailLister, recent recentCourseProvider, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecentCoursesLimit <= 0 {
		cfg.RecentCoursesLimit = defaultRecentCoursesLimit
	}
	return &DashboardService{courses: courses, bookmarks: bookmarks, recent: recent, logger: logger, cfg: cfg}
}

// Dashboard returns the teacher or student view for the caller.
func (s *DashboardService) Dashboard(ctx context.Context, actor *models.Principal) (*dto.Dashboard, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.IsTeacher() {
		teacher, err := s.teacherDashboard(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		return &dto.Dashboard{Role: models.RoleTeacher, Teacher: teacher}, nil
	}

	student, err := s.studentDashboard(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.Dashboard{Role: models.RoleStudent, Student: student}, nil
}

func (s *DashboardService) teacherDashboard(ctx context.Context, teacherID string) (*dto.TeacherDashboard, error) {
	courses, err := s.courses.ListByTeacherWithVideoCount(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load dashboard")
	}
	result := &dto.TeacherDashboard{Courses: courses, TotalCourses: len(courses)}
	for _, course := range courses {
		result.TotalVideos += course.VideoCount
	}
	return result, nil
}

func (s *DashboardService) studentDashboard(ctx context.Context, userID string) (*dto.StudentDashboard, error) {
	bookmarks, err := s.bookmarks.ListBookmarkDetails(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load dashboard")
	}
	recent, err := s.recent.RecentCourses(ctx, s.cfg.RecentCoursesLimit)
	if err != nil {
		return nil, err
	}
	return &dto.StudentDashboard{
		Bookmarks:      bookmarks,
		RecentCourses:  recent,
		TotalBookmarks: len(bookmarks),
	}, nil
}
