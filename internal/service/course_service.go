package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/mapper"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService handles business logic for courses
type CourseService struct {
	courseRepo *repository.CourseRepository
	logger     *zap.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repository.CourseRepository, logger *zap.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// Create validates and stores a new course
func (s *CourseService) Create(ctx context.Context, req *domain.CreateCourseRequest) (*domain.CourseDTO, error) {
	in, err := normalizeCourse(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.courseRepo.GetByCode(ctx, in.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateCourseCode
	}

	course := &domain.Course{
		CourseCode:        in.CourseCode,
		CourseName:        in.CourseName,
		CourseDescription: in.CourseDescription,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCourseCode
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("course created",
		zap.Uint("course_id", course.ID),
		zap.String("course_code", course.CourseCode),
	)

	dto := mapper.ToCourseDTO(course)
	return &dto, nil
}

// GetByID retrieves a course by id
func (s *CourseService) GetByID(ctx context.Context, id uint) (*domain.CourseDTO, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	dto := mapper.ToCourseDTO(course)
	return &dto, nil
}

// GetDetail retrieves a course with its enrolled students
func (s *CourseService) GetDetail(ctx context.Context, id uint) (*domain.CourseDetailDTO, error) {
	course, err := s.courseRepo.GetWithStudents(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	dto := mapper.ToCourseDetailDTO(course)
	return &dto, nil
}

// List returns a paginated list of courses
func (s *CourseService) List(ctx context.Context, page, pageSize int, filters *repository.CourseFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	courses, total, err := s.courseRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	resp := domain.NewPaginatedResponse(mapper.ToCourseDTOs(courses), total, page, pageSize)
	return &resp, nil
}

// ListAll returns every course, ordered by id
func (s *CourseService) ListAll(ctx context.Context) ([]domain.CourseDTO, error) {
	courses, err := s.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return mapper.ToCourseDTOs(courses), nil
}

// Update replaces a course's fields. The code may change as long as no
// other course uses it.
func (s *CourseService) Update(ctx context.Context, id uint, req *domain.UpdateCourseRequest) (*domain.CourseDTO, error) {
	in, err := normalizeCourse(req)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if in.CourseCode != course.CourseCode {
		existing, err := s.courseRepo.GetByCode(ctx, in.CourseCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check course code: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateCourseCode
		}
	}

	course.CourseCode = in.CourseCode
	course.CourseName = in.CourseName
	course.CourseDescription = in.CourseDescription

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCourseCode
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	dto := mapper.ToCourseDTO(course)
	return &dto, nil
}

// Delete removes a course together with its enrollments
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("course deleted", zap.Uint("course_id", id))
	return nil
}
