package mapper

import (
	"github.com/coursedesk/enrollment-api/internal/domain"
)

// ToStudentDTO converts Student to StudentDTO
func ToStudentDTO(student *domain.Student) domain.StudentDTO {
	return domain.StudentDTO{
		ID:         student.ID,
		RollNumber: student.RollNumber,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
	}
}

// ToCourseDTO converts Course to CourseDTO
func ToCourseDTO(course *domain.Course) domain.CourseDTO {
	return domain.CourseDTO{
		ID:                course.ID,
		CourseCode:        course.CourseCode,
		CourseName:        course.CourseName,
		CourseDescription: course.CourseDescription,
	}
}

// ToEnrollmentDTO converts Enrollment to EnrollmentDTO
func ToEnrollmentDTO(enrollment *domain.Enrollment) domain.EnrollmentDTO {
	return domain.EnrollmentDTO{
		ID:        enrollment.ID,
		StudentID: enrollment.StudentID,
		CourseID:  enrollment.CourseID,
	}
}

func ToStudentDTOs(students []domain.Student) []domain.StudentDTO {
	dtos := make([]domain.StudentDTO, len(students))
	for i := range students {
		dtos[i] = ToStudentDTO(&students[i])
	}
	return dtos
}

func ToCourseDTOs(courses []domain.Course) []domain.CourseDTO {
	dtos := make([]domain.CourseDTO, len(courses))
	for i := range courses {
		dtos[i] = ToCourseDTO(&courses[i])
	}
	return dtos
}

func ToEnrollmentDTOs(enrollments []domain.Enrollment) []domain.EnrollmentDTO {
	dtos := make([]domain.EnrollmentDTO, len(enrollments))
	for i := range enrollments {
		dtos[i] = ToEnrollmentDTO(&enrollments[i])
	}
	return dtos
}

// ToStudentDetailDTO includes the courses reachable through preloaded enrollments
func ToStudentDetailDTO(student *domain.Student) domain.StudentDetailDTO {
	dto := domain.StudentDetailDTO{
		StudentDTO: ToStudentDTO(student),
		Courses:    []domain.CourseDTO{},
	}
	for _, e := range student.Enrollments {
		if e.Course != nil {
			dto.Courses = append(dto.Courses, ToCourseDTO(e.Course))
		}
	}
	return dto
}

// ToCourseDetailDTO includes the students reachable through preloaded enrollments
func ToCourseDetailDTO(course *domain.Course) domain.CourseDetailDTO {
	dto := domain.CourseDetailDTO{
		CourseDTO: ToCourseDTO(course),
		Students:  []domain.StudentDTO{},
	}
	for _, e := range course.Enrollments {
		if e.Student != nil {
			dto.Students = append(dto.Students, ToStudentDTO(e.Student))
		}
	}
	return dto
}
