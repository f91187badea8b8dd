package service

import (
	"context"
	"fmt"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/mapper"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"go.uber.org/zap"
)

// EnrollmentService manages which students take which courses
type EnrollmentService struct {
	enrollmentRepo *repository.EnrollmentRepository
	studentRepo    *repository.StudentRepository
	courseRepo     *repository.CourseRepository
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	studentRepo *repository.StudentRepository,
	courseRepo *repository.CourseRepository,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

// ListForStudent returns the student's enrollments. It fails with
// domain.ErrStudentDoesNotExist for unknown students and ErrNotEnrolled when
// the list would be empty.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID uint) ([]domain.EnrollmentDTO, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, ErrNotEnrolled
	}
	return mapper.ToEnrollmentDTOs(enrollments), nil
}

// ListStudentsInCourse returns the students enrolled in a course
func (s *EnrollmentService) ListStudentsInCourse(ctx context.Context, courseID uint) ([]domain.StudentDTO, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	enrollments, err := s.enrollmentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	students := make([]domain.StudentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Student != nil {
			students = append(students, mapper.ToStudentDTO(e.Student))
		}
	}
	return students, nil
}

// Enroll adds the student to the course
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID uint) (*domain.EnrollmentDTO, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	existing, err := s.enrollmentRepo.Get(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &domain.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("student enrolled",
		zap.Uint("student_id", studentID),
		zap.Uint("course_id", courseID),
	)

	dto := mapper.ToEnrollmentDTO(enrollment)
	return &dto, nil
}

// Withdraw removes the student from the course. The course is checked first.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID, courseID uint) error {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return err
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return err
	}

	enrollment, err := s.enrollmentRepo.Get(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}

	if err := s.enrollmentRepo.Delete(ctx, enrollment.ID); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.Info("student withdrawn",
		zap.Uint("student_id", studentID),
		zap.Uint("course_id", courseID),
	)
	return nil
}

func (s *EnrollmentService) requireStudent(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.ErrStudentDoesNotExist
	}
	exists, err := s.studentRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return domain.ErrStudentDoesNotExist
	}
	return nil
}

func (s *EnrollmentService) requireCourse(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.ErrCourseDoesNotExist
	}
	exists, err := s.courseRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return domain.ErrCourseDoesNotExist
	}
	return nil
}
