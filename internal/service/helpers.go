package service

import (
	"strings"

	"github.com/coursedesk/enrollment-api/internal/domain"
)

// isUniqueViolation recognises unique index errors from both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func normalizeStudent(req *domain.CreateStudentRequest) (*domain.CreateStudentRequest, error) {
	out := &domain.CreateStudentRequest{
		RollNumber: strings.TrimSpace(req.RollNumber),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
	}
	if out.RollNumber == "" {
		return nil, domain.ErrRollNumberRequired
	}
	if out.FirstName == "" {
		return nil, domain.ErrFirstNameRequired
	}
	return out, nil
}

func normalizeCourse(req *domain.CreateCourseRequest) (*domain.CreateCourseRequest, error) {
	out := &domain.CreateCourseRequest{
		CourseCode:        strings.TrimSpace(req.CourseCode),
		CourseName:        strings.TrimSpace(req.CourseName),
		CourseDescription: strings.TrimSpace(req.CourseDescription),
	}
	if out.CourseName == "" {
		return nil, domain.ErrCourseNameRequired
	}
	if out.CourseCode == "" {
		return nil, domain.ErrCourseCodeRequired
	}
	return out, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
