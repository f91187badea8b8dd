package repository

import (
	"context"
	"errors"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"gorm.io/gorm"
)

// EnrollmentRepository handles enrollment data access operations
type EnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository instance
func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts an enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Student", "Course").Create(enrollment).Error
}

// Get finds the enrollment of a student in a course; (nil, nil) when absent
func (r *EnrollmentRepository) Get(ctx context.Context, studentID, courseID uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

// ListByStudent returns a student's enrollments in insertion order
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrollment_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListByCourse returns a course's enrollments with students preloaded
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("enrollment_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

// Delete removes a single enrollment by id
func (r *EnrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("enrollment_id = ?", id).Delete(&domain.Enrollment{}).Error
}
