package domain

// JSON field names follow the snake_case contract of the public API.

type StudentDTO struct {
	ID         uint   `json:"student_id"`
	RollNumber string `json:"roll_number"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type CourseDTO struct {
	ID                uint   `json:"course_id"`
	CourseCode        string `json:"course_code"`
	CourseName        string `json:"course_name"`
	CourseDescription string `json:"course_description"`
}

type EnrollmentDTO struct {
	ID        uint `json:"enrollment_id"`
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
}

// StudentDetailDTO is a student together with the courses they take
type StudentDetailDTO struct {
	StudentDTO
	Courses []CourseDTO `json:"courses"`
}

// CourseDetailDTO is a course together with its enrolled students
type CourseDetailDTO struct {
	CourseDTO
	Students []StudentDTO `json:"students"`
}

// Requests. Required-field checks are done by the services so they can
// return the coded errors; validator tags only bound lengths.

type CreateStudentRequest struct {
	RollNumber string `json:"roll_number" validate:"max=50"`
	FirstName  string `json:"first_name" validate:"max=50"`
	LastName   string `json:"last_name" validate:"max=50"`
}

type UpdateStudentRequest = CreateStudentRequest

type CreateCourseRequest struct {
	CourseCode        string `json:"course_code" validate:"max=200"`
	CourseName        string `json:"course_name" validate:"max=50"`
	CourseDescription string `json:"course_description" validate:"max=500"`
}

type UpdateCourseRequest = CreateCourseRequest

type EnrollRequest struct {
	CourseID uint `json:"course_id"`
}

// StudentForm is the create/update form of the web pages
type StudentForm struct {
	RollNumber string `validate:"required,max=50"`
	FirstName  string `validate:"required,max=50"`
	LastName   string `validate:"max=50"`
	CourseIDs  []uint
}

// CourseForm is the create/update form of the web pages
type CourseForm struct {
	CourseCode        string `validate:"required,max=200"`
	CourseName        string `validate:"required,max=50"`
	CourseDescription string `validate:"max=500"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int `json:"imported"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse fills in TotalPages from total and pageSize
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
