package service

import (
	"context"
	"fmt"
	"io"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"go.uber.org/zap"
)

// MarkService imports marks sheets into the marks table and serves them
// back as a report.MarkSource.
type MarkService struct {
	markRepo *repository.MarkRepository
	logger   *zap.Logger
}

// NewMarkService creates a new mark service instance
func NewMarkService(markRepo *repository.MarkRepository, logger *zap.Logger) *MarkService {
	return &MarkService{
		markRepo: markRepo,
		logger:   logger,
	}
}

// Import parses a CSV sheet and replaces the stored marks with it. A
// malformed sheet leaves the table untouched and returns a *report.ParseError.
func (s *MarkService) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := report.ReadMarks(r)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, records)
}

// ImportFile imports the sheet at path; a missing file clears the table
func (s *MarkService) ImportFile(ctx context.Context, path string) (int, error) {
	records, err := report.ReadMarksFile(path)
	if err != nil {
		return 0, err
	}
	return s.store(ctx, records)
}

// Marks implements report.MarkSource over the marks table
func (s *MarkService) Marks(ctx context.Context) ([]report.MarkRecord, error) {
	marks, err := s.markRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load marks: %w", err)
	}

	records := make([]report.MarkRecord, len(marks))
	for i, m := range marks {
		records[i] = report.MarkRecord{
			StudentID: int(m.StudentID),
			CourseID:  int(m.CourseID),
			Marks:     m.Marks,
			Line:      m.Line,
		}
	}
	return records, nil
}

// Count returns the number of stored marks
func (s *MarkService) Count(ctx context.Context) (int64, error) {
	n, err := s.markRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count marks: %w", err)
	}
	return n, nil
}

func (s *MarkService) store(ctx context.Context, records []report.MarkRecord) (int, error) {
	marks := make([]domain.Mark, 0, len(records))
	for _, rec := range records {
		if rec.StudentID <= 0 || rec.CourseID <= 0 {
			return 0, &report.ParseError{Line: rec.Line, Err: report.ErrInvalidID}
		}
		marks = append(marks, domain.Mark{
			StudentID: uint(rec.StudentID),
			CourseID:  uint(rec.CourseID),
			Marks:     rec.Marks,
			Line:      rec.Line,
		})
	}

	if err := s.markRepo.ReplaceAll(ctx, marks); err != nil {
		return 0, fmt.Errorf("failed to store marks: %w", err)
	}

	s.logger.Info("marks imported", zap.Int("rows", len(marks)))
	return len(marks), nil
}
