package repository

import (
	"context"
	"errors"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"gorm.io/gorm"
)

// StudentFilters defines filter options for student listing
type StudentFilters struct {
	Search string
}

var studentSortableFields = map[string]string{
	"id":         "student_id",
	"rollNumber": "roll_number",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"createdAt":  "created_at",
}

// StudentRepository handles student data access operations
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository instance
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Omit("Enrollments").Create(student).Error
}

// CreateWithCourses inserts a student and enrolls them in courseIDs in one transaction
func (r *StudentRepository) CreateWithCourses(ctx context.Context, student *domain.Student, courseIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Enrollments").Create(student).Error; err != nil {
			return err
		}
		return insertEnrollments(tx, student.ID, courseIDs)
	})
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id uint) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Where("student_id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetWithCourses retrieves a student with enrollments and their courses preloaded
func (r *StudentRepository) GetWithCourses(ctx context.Context, id uint) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("enrollment_id ASC")
		}).
		Preload("Enrollments.Course").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByRollNumber finds a student by roll number; (nil, nil) when absent
func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Where("roll_number = ?", rollNumber).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// Exists reports whether a student with the id exists
func (r *StudentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Student{}).Where("student_id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update saves all student columns
func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Omit("Enrollments").Save(student).Error
}

// UpdateWithCourses saves the student and replaces their enrollment set in one transaction
func (r *StudentRepository) UpdateWithCourses(ctx context.Context, student *domain.Student, courseIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Enrollments").Save(student).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		return insertEnrollments(tx, student.ID, courseIDs)
	})
}

// Delete removes the student and their enrollments
func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		res := tx.Where("student_id = ?", id).Delete(&domain.Student{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List returns a page of students and the total number of matches
func (r *StudentRepository) List(ctx context.Context, page, pageSize int, filters *StudentFilters, sort SortConfig) ([]domain.Student, int64, error) {
	var students []domain.Student
	var total int64

	page, pageSize = NormalizePage(page, pageSize)
	query := r.db.WithContext(ctx).Model(&domain.Student{})

	if filters != nil && filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(roll_number) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, studentSortableFields, "student_id")
	err := paginate(query, page, pageSize).Order(orderClause).Find(&students).Error
	return students, total, err
}

// ListAllWithCourses returns every student with courses preloaded, for the home page
func (r *StudentRepository) ListAllWithCourses(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	err := r.db.WithContext(ctx).
		Preload("Enrollments.Course").
		Order("student_id ASC").
		Find(&students).Error
	return students, err
}

func insertEnrollments(tx *gorm.DB, studentID uint, courseIDs []uint) error {
	seen := make(map[uint]bool, len(courseIDs))
	for _, courseID := range courseIDs {
		if seen[courseID] {
			continue
		}
		seen[courseID] = true
		e := &domain.Enrollment{StudentID: studentID, CourseID: courseID}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
	}
	return nil
}
