package mapper

import (
	"testing"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToStudentDetailDTO(t *testing.T) {
	student := &domain.Student{ID: 7, RollNumber: "R7", FirstName: "Ada", LastName: "Lovelace"}
	student.Enrollments = []domain.Enrollment{
		{ID: 1, StudentID: 7, CourseID: 1, Course: &domain.Course{ID: 1, CourseCode: "CSE01", CourseName: "MAD 1"}},
		{ID: 2, StudentID: 7, CourseID: 2}, // course not preloaded
	}

	dto := ToStudentDetailDTO(student)

	assert.Equal(t, uint(7), dto.ID)
	assert.Equal(t, "R7", dto.RollNumber)
	assert.Len(t, dto.Courses, 1)
	assert.Equal(t, "CSE01", dto.Courses[0].CourseCode)
}

func TestToCourseDetailDTO_NoEnrollments(t *testing.T) {
	dto := ToCourseDetailDTO(&domain.Course{ID: 3, CourseCode: "BST13", CourseName: "BDM"})

	assert.NotNil(t, dto.Students, "students must serialize as [] rather than null")
	assert.Empty(t, dto.Students)
}
