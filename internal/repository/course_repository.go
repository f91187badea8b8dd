package repository

import (
	"context"
	"errors"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"gorm.io/gorm"
)

// CourseFilters defines filter options for course listing
type CourseFilters struct {
	Search string
}

var courseSortableFields = map[string]string{
	"id":         "course_id",
	"courseCode": "course_code",
	"courseName": "course_name",
	"createdAt":  "created_at",
}

// CourseRepository handles course data access operations
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository instance
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Omit("Enrollments").Create(course).Error
}

// GetByID retrieves a course by id
func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetWithStudents retrieves a course with its enrolled students preloaded
func (r *CourseRepository) GetWithStudents(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("enrollment_id ASC")
		}).
		Preload("Enrollments.Student").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByCode finds a course by code; (nil, nil) when absent
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).Where("course_code = ?", code).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// Exists reports whether a course with the id exists
func (r *CourseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Where("course_id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountExisting returns how many of ids name existing courses
func (r *CourseRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Where("course_id IN ?", ids).Count(&count).Error
	return count, err
}

// Update saves all course columns
func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Omit("Enrollments").Save(course).Error
}

// Delete removes the course and its enrollments
func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		res := tx.Where("course_id = ?", id).Delete(&domain.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List returns a page of courses and the total number of matches
func (r *CourseRepository) List(ctx context.Context, page, pageSize int, filters *CourseFilters, sort SortConfig) ([]domain.Course, int64, error) {
	var courses []domain.Course
	var total int64

	page, pageSize = NormalizePage(page, pageSize)
	query := r.db.WithContext(ctx).Model(&domain.Course{})

	if filters != nil && filters.Search != "" {
		p := likePattern(filters.Search)
		query = query.Where("LOWER(course_code) LIKE ? OR LOWER(course_name) LIKE ?", p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, courseSortableFields, "course_id")
	err := paginate(query, page, pageSize).Order(orderClause).Find(&courses).Error
	return courses, total, err
}

// ListAll returns every course ordered by id, for form checkboxes
func (r *CourseRepository) ListAll(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).Order("course_id ASC").Find(&courses).Error
	return courses, err
}
