package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"go.uber.org/zap"
)

// StudentHandler handles HTTP requests for student operations
type StudentHandler struct {
	studentService *service.StudentService
	logger         *zap.Logger
}

// NewStudentHandler creates a new student handler instance
func NewStudentHandler(studentService *service.StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		logger:         logger,
	}
}

// List godoc
// @Summary List students
// @Description Get paginated list of students
// @Tags Students
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by roll number, first or last name"
// @Param sortBy query string false "Sort field" Enums(id, rollNumber, firstName, lastName, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.StudentDTO}
// @Failure 500 {object} domain.ErrorResponse
// @Router /student [get]
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, sort := parseListParams(r)
	filters := &repository.StudentFilters{Search: r.URL.Query().Get("search")}

	result, err := h.studentService.List(r.Context(), page, pageSize, filters, sort)
	if err != nil {
		h.logger.Error("failed to list students", zap.Error(err))
		respondInternalError(w, "Failed to list students")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get student by ID
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} domain.StudentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /student/{id} [get]
func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "Failed to get student")
		return
	}

	respondJSON(w, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Description Create a new student. roll_number and first_name are required.
// @Tags Students
// @Accept json
// @Produce json
// @Param request body domain.CreateStudentRequest true "Student data"
// @Success 201 {object} domain.StudentDTO
// @Failure 400 {object} domain.APIError "STUDENT001 or STUDENT002"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate roll number"
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /student [post]
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	student, err := h.studentService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "Failed to create student")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/student/%d", student.ID))
	respondJSON(w, http.StatusCreated, student)
}

// Update godoc
// @Summary Update student
// @Description Replace all fields of a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body domain.UpdateStudentRequest true "Student data"
// @Success 200 {object} domain.StudentDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /student/{id} [put]
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req domain.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	student, err := h.studentService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "Failed to update student")
		return
	}

	respondJSON(w, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Description Delete a student and all their enrollments
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /student/{id} [delete]
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	if err := h.studentService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "Failed to delete student")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Successfully Deleted"})
}

func (h *StudentHandler) handleError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		respondAPIError(w, http.StatusBadRequest, apiErr)
	case errors.Is(err, service.ErrStudentNotFound):
		respondError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, service.ErrDuplicateRollNumber):
		respondJSON(w, http.StatusConflict, domain.ErrorResponse{
			Error:   "Conflict",
			Message: "Student already exists",
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		respondInternalError(w, fallback)
	}
}
