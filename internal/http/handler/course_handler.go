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

// CourseHandler handles HTTP requests for course operations
type CourseHandler struct {
	courseService     *service.CourseService
	enrollmentService *service.EnrollmentService
	logger            *zap.Logger
}

// NewCourseHandler creates a new course handler instance
func NewCourseHandler(
	courseService *service.CourseService,
	enrollmentService *service.EnrollmentService,
	logger *zap.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List courses
// @Description Get paginated list of courses
// @Tags Courses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by course code or name"
// @Param sortBy query string false "Sort field" Enums(id, courseCode, courseName, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CourseDTO}
// @Failure 500 {object} domain.ErrorResponse
// @Router /course [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, sort := parseListParams(r)
	filters := &repository.CourseFilters{Search: r.URL.Query().Get("search")}

	result, err := h.courseService.List(r.Context(), page, pageSize, filters, sort)
	if err != nil {
		h.logger.Error("failed to list courses", zap.Error(err))
		respondInternalError(w, "Failed to list courses")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get course by ID
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} domain.CourseDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /course/{id} [get]
func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	course, err := h.courseService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "Failed to get course")
		return
	}

	respondJSON(w, http.StatusOK, course)
}

// Create godoc
// @Summary Create course
// @Description Create a new course. course_name and course_code are required.
// @Tags Courses
// @Accept json
// @Produce json
// @Param request body domain.CreateCourseRequest true "Course data"
// @Success 201 {object} domain.CourseDTO
// @Failure 400 {object} domain.APIError "COURSE001 or COURSE002"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate course code"
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /course [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	course, err := h.courseService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "Failed to create course")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/course/%d", course.ID))
	respondJSON(w, http.StatusCreated, course)
}

// Update godoc
// @Summary Update course
// @Description Replace all fields of a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body domain.UpdateCourseRequest true "Course data"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /course/{id} [put]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req domain.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if _, err := h.courseService.Update(r.Context(), id, &req); err != nil {
		h.handleError(w, err, "Failed to update course")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Course updated successfully"})
}

// Delete godoc
// @Summary Delete course
// @Description Delete a course and all enrollments in it
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /course/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	if err := h.courseService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "Failed to delete course")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Successfully Deleted"})
}

// ListStudents godoc
// @Summary List students in a course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} domain.StudentDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /course/{id}/student [get]
func (h *CourseHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	students, err := h.enrollmentService.ListStudentsInCourse(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "Failed to list students")
		return
	}

	respondJSON(w, http.StatusOK, students)
}

func (h *CourseHandler) handleError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		respondAPIError(w, http.StatusBadRequest, apiErr)
	case errors.Is(err, service.ErrCourseNotFound):
		respondError(w, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrDuplicateCourseCode):
		respondJSON(w, http.StatusConflict, domain.ErrorResponse{
			Error:   "Conflict",
			Message: "course_code already exists",
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		respondInternalError(w, fallback)
	}
}
