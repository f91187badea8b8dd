package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/service"
)

type courseFormData struct {
	Action string
	Submit string
	Form   domain.CourseForm
}

// Courses lists every course
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListAll(r.Context())
	if err != nil {
		h.renderInternalError(w, "failed to list courses", err)
		return
	}
	h.render(w, http.StatusOK, "courses.html", page{Title: "Courses", Data: courses})
}

// NewCourse shows the empty course form
func (h *Handler) NewCourse(w http.ResponseWriter, r *http.Request) {
	h.renderCourseForm(w, http.StatusOK, "Add Course", "/courses/create", domain.CourseForm{}, "", nil)
}

// CreateCourse handles the course form submission
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	const title, action = "Add Course", "/courses/create"

	form, errs := parseCourseForm(r)
	if len(errs) > 0 {
		h.renderCourseForm(w, http.StatusBadRequest, title, action, form, "", errs)
		return
	}

	course, err := h.courseService.Create(r.Context(), courseRequest(form))
	if err != nil {
		if status, msg, ok := courseFormError(err); ok {
			h.renderCourseForm(w, status, title, action, form, msg, nil)
			return
		}
		h.renderInternalError(w, "failed to create course", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/courses/%d", course.ID))
}

// CourseDetail shows a course and its enrolled students
func (h *Handler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Course not found")
		return
	}

	course, err := h.courseService.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			h.renderError(w, http.StatusNotFound, "Course not found")
			return
		}
		h.renderInternalError(w, "failed to get course", err)
		return
	}

	h.render(w, http.StatusOK, "course_detail.html", page{Title: course.CourseName, Data: course})
}

// EditCourse shows the course form filled with the current values
func (h *Handler) EditCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Course not found")
		return
	}

	course, err := h.courseService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			h.renderError(w, http.StatusNotFound, "Course not found")
			return
		}
		h.renderInternalError(w, "failed to get course", err)
		return
	}

	form := domain.CourseForm{
		CourseCode:        course.CourseCode,
		CourseName:        course.CourseName,
		CourseDescription: course.CourseDescription,
	}
	h.renderCourseForm(w, http.StatusOK, "Update Course", fmt.Sprintf("/courses/%d/update", id), form, "", nil)
}

// UpdateCourse handles the edit form submission
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Course not found")
		return
	}
	title, action := "Update Course", fmt.Sprintf("/courses/%d/update", id)

	form, errs := parseCourseForm(r)
	if len(errs) > 0 {
		h.renderCourseForm(w, http.StatusBadRequest, title, action, form, "", errs)
		return
	}

	if _, err := h.courseService.Update(r.Context(), id, courseRequest(form)); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			h.renderError(w, http.StatusNotFound, "Course not found")
			return
		}
		if status, msg, ok := courseFormError(err); ok {
			h.renderCourseForm(w, status, title, action, form, msg, nil)
			return
		}
		h.renderInternalError(w, "failed to update course", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/courses/%d", id))
}

// DeleteCourse removes a course and its enrollments
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Course not found")
		return
	}

	if err := h.courseService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			h.renderError(w, http.StatusNotFound, "Course not found")
			return
		}
		h.renderInternalError(w, "failed to delete course", err)
		return
	}

	redirect(w, r, "/courses")
}

func (h *Handler) renderCourseForm(w http.ResponseWriter, status int, title, action string, form domain.CourseForm, msg string, errs map[string]string) {
	h.render(w, status, "course_form.html", page{
		Title:   title,
		Message: msg,
		Errors:  errs,
		Data:    courseFormData{Action: action, Submit: title, Form: form},
	})
}

func courseRequest(form domain.CourseForm) *domain.CreateCourseRequest {
	return &domain.CreateCourseRequest{
		CourseCode:        form.CourseCode,
		CourseName:        form.CourseName,
		CourseDescription: form.CourseDescription,
	}
}

// courseFormError reports whether err is something the user can fix by
// editing the form, and with which status and message
func courseFormError(err error) (int, string, bool) {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, service.ErrDuplicateCourseCode):
		return http.StatusConflict, "Course code already exists", true
	case errors.As(err, &apiErr):
		return http.StatusBadRequest, apiErr.Message, true
	}
	return 0, "", false
}
