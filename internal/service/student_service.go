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

// StudentService handles business logic for students
type StudentService struct {
	studentRepo *repository.StudentRepository
	courseRepo  *repository.CourseRepository
	logger      *zap.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo *repository.StudentRepository,
	courseRepo *repository.CourseRepository,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		logger:      logger,
	}
}

// Create validates and stores a new student
func (s *StudentService) Create(ctx context.Context, req *domain.CreateStudentRequest) (*domain.StudentDTO, error) {
	return s.CreateWithCourses(ctx, req, nil)
}

// CreateWithCourses stores a new student and enrolls them in courseIDs atomically
func (s *StudentService) CreateWithCourses(ctx context.Context, req *domain.CreateStudentRequest, courseIDs []uint) (*domain.StudentDTO, error) {
	in, err := normalizeStudent(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkRollNumberFree(ctx, in.RollNumber, 0); err != nil {
		return nil, err
	}

	courseIDs = uniqueIDs(courseIDs)
	if err := s.checkCoursesExist(ctx, courseIDs); err != nil {
		return nil, err
	}

	student := &domain.Student{
		RollNumber: in.RollNumber,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
	}
	if err := s.studentRepo.CreateWithCourses(ctx, student, courseIDs); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRollNumber
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("student created",
		zap.Uint("student_id", student.ID),
		zap.String("roll_number", student.RollNumber),
		zap.Int("courses", len(courseIDs)),
	)

	dto := mapper.ToStudentDTO(student)
	return &dto, nil
}

// GetByID retrieves a student by id
func (s *StudentService) GetByID(ctx context.Context, id uint) (*domain.StudentDTO, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	dto := mapper.ToStudentDTO(student)
	return &dto, nil
}

// GetDetail retrieves a student with the courses they take
func (s *StudentService) GetDetail(ctx context.Context, id uint) (*domain.StudentDetailDTO, error) {
	student, err := s.studentRepo.GetWithCourses(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	dto := mapper.ToStudentDetailDTO(student)
	return &dto, nil
}

// List returns a paginated list of students
func (s *StudentService) List(ctx context.Context, page, pageSize int, filters *repository.StudentFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	students, total, err := s.studentRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	resp := domain.NewPaginatedResponse(mapper.ToStudentDTOs(students), total, page, pageSize)
	return &resp, nil
}

// ListWithCourses returns every student with their courses, for the home page
func (s *StudentService) ListWithCourses(ctx context.Context) ([]domain.StudentDetailDTO, error) {
	students, err := s.studentRepo.ListAllWithCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	dtos := make([]domain.StudentDetailDTO, len(students))
	for i := range students {
		dtos[i] = mapper.ToStudentDetailDTO(&students[i])
	}
	return dtos, nil
}

// Update replaces a student's fields and persists them
func (s *StudentService) Update(ctx context.Context, id uint, req *domain.UpdateStudentRequest) (*domain.StudentDTO, error) {
	student, err := s.prepareUpdate(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRollNumber
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	dto := mapper.ToStudentDTO(student)
	return &dto, nil
}

// UpdateWithCourses replaces a student's fields and enrollment set atomically
func (s *StudentService) UpdateWithCourses(ctx context.Context, id uint, req *domain.UpdateStudentRequest, courseIDs []uint) (*domain.StudentDTO, error) {
	student, err := s.prepareUpdate(ctx, id, req)
	if err != nil {
		return nil, err
	}

	courseIDs = uniqueIDs(courseIDs)
	if err := s.checkCoursesExist(ctx, courseIDs); err != nil {
		return nil, err
	}

	if err := s.studentRepo.UpdateWithCourses(ctx, student, courseIDs); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRollNumber
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info("student updated",
		zap.Uint("student_id", student.ID),
		zap.Int("courses", len(courseIDs)),
	)

	dto := mapper.ToStudentDTO(student)
	return &dto, nil
}

// Delete removes a student together with their enrollments
func (s *StudentService) Delete(ctx context.Context, id uint) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info("student deleted", zap.Uint("student_id", id))
	return nil
}

func (s *StudentService) prepareUpdate(ctx context.Context, id uint, req *domain.UpdateStudentRequest) (*domain.Student, error) {
	in, err := normalizeStudent(req)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	if in.RollNumber != student.RollNumber {
		if err := s.checkRollNumberFree(ctx, in.RollNumber, id); err != nil {
			return nil, err
		}
	}

	student.RollNumber = in.RollNumber
	student.FirstName = in.FirstName
	student.LastName = in.LastName
	return student, nil
}

func (s *StudentService) checkRollNumberFree(ctx context.Context, rollNumber string, selfID uint) error {
	existing, err := s.studentRepo.GetByRollNumber(ctx, rollNumber)
	if err != nil {
		return fmt.Errorf("failed to check roll number: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateRollNumber
	}
	return nil
}

func (s *StudentService) checkCoursesExist(ctx context.Context, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}
	n, err := s.courseRepo.CountExisting(ctx, courseIDs)
	if err != nil {
		return fmt.Errorf("failed to check courses: %w", err)
	}
	if n != int64(len(courseIDs)) {
		return domain.ErrCourseDoesNotExist
	}
	return nil
}
