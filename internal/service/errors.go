package service

import "errors"

// Common service errors
var (
	// ErrStudentNotFound is returned when a student id does not exist
	ErrStudentNotFound = errors.New("student not found")

	// ErrCourseNotFound is returned when a course id does not exist
	ErrCourseNotFound = errors.New("course not found")

	// ErrDuplicateRollNumber is returned when another student already has the roll number
	ErrDuplicateRollNumber = errors.New("student with this roll number already exists")

	// ErrDuplicateCourseCode is returned when another course already has the code
	ErrDuplicateCourseCode = errors.New("course with this code already exists")

	// ErrAlreadyEnrolled is returned when the student already takes the course
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")

	// ErrEnrollmentNotFound is returned when the student does not take the course
	ErrEnrollmentNotFound = errors.New("enrollment for the student not found")

	// ErrNotEnrolled is returned when a student has no enrollments at all
	ErrNotEnrolled = errors.New("student is not enrolled in any course")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
