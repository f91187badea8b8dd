package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/storage"
	"go.uber.org/zap"
)

const chartContentType = "image/svg+xml"

// ReportService computes student and course reports from a mark source
// and publishes course charts to storage.
type ReportService struct {
	source report.MarkSource
	store  storage.Storage
	logger *zap.Logger
}

// NewReportService creates a new report service. store may be nil, in
// which case PublishCourseChart is unavailable.
func NewReportService(source report.MarkSource, store storage.Storage, logger *zap.Logger) *ReportService {
	return &ReportService{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Student returns the report for studentID; see report.StudentReport for errors
func (s *ReportService) Student(ctx context.Context, studentID int) (*report.StudentSummary, error) {
	if studentID <= 0 {
		return nil, report.ErrInvalidID
	}
	records, err := s.source.Marks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load marks: %w", err)
	}
	return report.StudentReport(records, studentID)
}

// Course returns the report for courseID; see report.CourseReport for errors
func (s *ReportService) Course(ctx context.Context, courseID int) (*report.CourseSummary, error) {
	if courseID <= 0 {
		return nil, report.ErrInvalidID
	}
	records, err := s.source.Marks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load marks: %w", err)
	}
	return report.CourseReport(records, courseID)
}

// CourseChart renders the course histogram as SVG
func (s *ReportService) CourseChart(ctx context.Context, courseID int) ([]byte, error) {
	summary, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.RenderBarChartSVG(&buf, summary.Histogram); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PublishCourseChart renders the summary's histogram into storage and
// returns the object key.
func (s *ReportService) PublishCourseChart(ctx context.Context, summary *report.CourseSummary) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("chart storage is not configured")
	}

	var buf bytes.Buffer
	if err := report.RenderBarChartSVG(&buf, summary.Histogram); err != nil {
		return "", err
	}

	key := ChartKey(summary.CourseID)
	if _, err := s.store.Upload(ctx, key, chartContentType, &buf); err != nil {
		return "", fmt.Errorf("failed to store chart: %w", err)
	}

	s.logger.Debug("course chart published",
		zap.Int("course_id", summary.CourseID),
		zap.String("key", key),
	)
	return key, nil
}

// OpenChart opens a published chart
func (s *ReportService) OpenChart(ctx context.Context, key string) (*storage.Object, error) {
	if s.store == nil {
		return nil, storage.ErrNotFound
	}
	return s.store.Download(ctx, key)
}

// ChartKey is the storage key of a course's chart
func ChartKey(courseID int) string {
	return fmt.Sprintf("course-%d.svg", courseID)
}
