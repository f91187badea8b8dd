package domain

// APIError is the coded error body returned by the JSON API for input the
// client can fix, e.g. {"error_code":"COURSE001","error_message":"Course name is required"}
type APIError struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Error codes understood by API clients
const (
	CodeCourseNameRequired  = "COURSE001"
	CodeCourseCodeRequired  = "COURSE002"
	CodeRollNumberRequired  = "STUDENT001"
	CodeFirstNameRequired   = "STUDENT002"
	CodeCourseDoesNotExist  = "ENROLLMENT001"
	CodeStudentDoesNotExist = "ENROLLMENT002"
)

var (
	ErrCourseNameRequired  = &APIError{Code: CodeCourseNameRequired, Message: "Course name is required"}
	ErrCourseCodeRequired  = &APIError{Code: CodeCourseCodeRequired, Message: "Course code is required"}
	ErrRollNumberRequired  = &APIError{Code: CodeRollNumberRequired, Message: "Roll number required"}
	ErrFirstNameRequired   = &APIError{Code: CodeFirstNameRequired, Message: "First name required"}
	ErrCourseDoesNotExist  = &APIError{Code: CodeCourseDoesNotExist, Message: "Course does not exist"}
	ErrStudentDoesNotExist = &APIError{Code: CodeStudentDoesNotExist, Message: "Student does not exist"}
)

// ValidationMessages maps validator tags to user-facing messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gt":       "Must be greater than minimum value",
	"gte":      "Must be greater than or equal to minimum value",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
