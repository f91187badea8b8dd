package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/service"
	"go.uber.org/zap"
)

// EnrollmentHandler handles the /student/{id}/course endpoints
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	logger            *zap.Logger
}

// NewEnrollmentHandler creates a new enrollment handler instance
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List a student's enrollments
// @Tags Enrollments
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} domain.EnrollmentDTO
// @Failure 404 {object} domain.APIError "ENROLLMENT002, or no enrollments"
// @Router /student/{id}/course [get]
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "id")
	if err != nil {
		respondAPIError(w, http.StatusNotFound, domain.ErrStudentDoesNotExist)
		return
	}

	enrollments, err := h.enrollmentService.ListForStudent(r.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStudentDoesNotExist):
			respondAPIError(w, http.StatusNotFound, domain.ErrStudentDoesNotExist)
		case errors.Is(err, service.ErrNotEnrolled):
			respondError(w, http.StatusNotFound, "Student is not enrolled in any course")
		default:
			h.logger.Error("failed to list enrollments", zap.Error(err))
			respondInternalError(w, "Failed to list enrollments")
		}
		return
	}

	respondJSON(w, http.StatusOK, enrollments)
}

// Create godoc
// @Summary Enroll a student in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body domain.EnrollRequest true "Course to enroll in"
// @Success 201 {object} domain.EnrollmentDTO
// @Failure 400 {object} domain.APIError "ENROLLMENT001"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.APIError "ENROLLMENT002"
// @Failure 409 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /student/{id}/course [post]
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseID(r, "id")
	if err != nil {
		respondAPIError(w, http.StatusNotFound, domain.ErrStudentDoesNotExist)
		return
	}

	var req domain.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAPIError(w, http.StatusBadRequest, domain.ErrCourseDoesNotExist)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), studentID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStudentDoesNotExist):
			respondAPIError(w, http.StatusNotFound, domain.ErrStudentDoesNotExist)
		case errors.Is(err, domain.ErrCourseDoesNotExist):
			respondAPIError(w, http.StatusBadRequest, domain.ErrCourseDoesNotExist)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Student is already enrolled in this course",
			})
		default:
			h.logger.Error("failed to enroll student", zap.Error(err))
			respondInternalError(w, "Failed to enroll student")
		}
		return
	}

	respondJSON(w, http.StatusCreated, enrollment)
}

// Delete godoc
// @Summary Withdraw a student from a course
// @Tags Enrollments
// @Produce json
// @Param id path int true "Student ID"
// @Param course_id path int true "Course ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError "ENROLLMENT001 or ENROLLMENT002"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /student/{id}/course/{course_id} [delete]
func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r, "course_id")
	if err != nil {
		respondAPIError(w, http.StatusBadRequest, domain.ErrCourseDoesNotExist)
		return
	}
	studentID, err := parseID(r, "id")
	if err != nil {
		respondAPIError(w, http.StatusBadRequest, domain.ErrStudentDoesNotExist)
		return
	}

	if err := h.enrollmentService.Withdraw(r.Context(), studentID, courseID); err != nil {
		var apiErr *domain.APIError
		switch {
		case errors.As(err, &apiErr):
			respondAPIError(w, http.StatusBadRequest, apiErr)
		case errors.Is(err, service.ErrEnrollmentNotFound):
			respondError(w, http.StatusNotFound, "Enrollment for the student not found")
		default:
			h.logger.Error("failed to withdraw student", zap.Error(err))
			respondInternalError(w, "Failed to withdraw student")
		}
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Successfully deleted"})
}
