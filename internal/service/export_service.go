package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
)

var exportHeaders = []string{"Title", "Slug", "Topic", "Videos", "Views", "Students", "Average Rating", "Created"}

type exportCourseRepository interface {
	ListByTeacherWithVideoCount(ctx context.Context, teacherID string) ([]models.CourseWithVideoCount, error)
	Aggregates(ctx context.Context, courseID string) (*models.CourseAggregates, error)
}

// ExportFile is a rendered report ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a teacher's course statistics in several formats.
type ExportService struct {
	courses   exportCourseRepository
	renderers map[string]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Missing renderers fall back to the defaults.
func NewExportService(courses exportCourseRepository, logger *zap.Logger, renderers map[string]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	merged := map[string]export.Renderer{
		ExportFormatCSV:  export.NewCSVExporter(),
		ExportFormatPDF:  export.NewPDFExporter(),
		ExportFormatXLSX: export.NewXLSXExporter(),
	}
	for format, renderer := range renderers {
		merged[format] = renderer
	}
	return &ExportService{courses: courses, renderers: merged, logger: logger, now: time.Now}
}

// ExportDashboard renders the caller's courses. Only teachers have something to export.
func (s *ExportService) ExportDashboard(ctx context.Context, actor *models.Principal, format string) (*ExportFile, error) {
	if !actor.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsTeacher() {
		return nil, appErrors.Forbidden("Only teachers can export course statistics.", "")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	dataset, err := s.buildDataset(ctx, actor)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("dashboard exported",
		zap.String("user_id", actor.UserID),
		zap.String("format", format),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("courses-%s-%s.%s", actor.Username, s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, actor *models.Principal) (export.Dataset, error) {
	courses, err := s.courses.ListByTeacherWithVideoCount(ctx, actor.UserID)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load courses")
	}

	rows := make([]map[string]string, 0, len(courses))
	for _, course := range courses {
		agg, err := s.courses.Aggregates(ctx, course.ID)
		if err != nil {
			return export.Dataset{}, appErrors.Internal(err, "failed to load course statistics")
		}
		average := "-"
		if avg := agg.AverageRating(); avg != nil {
			average = strconv.FormatFloat(*avg, 'f', 1, 64)
		}
		rows = append(rows, map[string]string{
			"Title":          course.Title,
			"Slug":           course.Slug,
			"Topic":          course.TopicName,
			"Videos":         strconv.Itoa(course.VideoCount),
			"Views":          strconv.Itoa(course.ViewCount),
			"Students":       strconv.Itoa(agg.StudentCount),
			"Average Rating": average,
			"Created":        course.CreatedAt.Format("2006-01-02"),
		})
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Courses by %s", actor.Username),
		Headers: exportHeaders,
		Rows:    rows,
	}, nil
}
