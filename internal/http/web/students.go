package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/service"
)

type studentFormData struct {
	Action   string
	Submit   string
	Form     domain.StudentForm
	Courses  []domain.CourseDTO
	Selected map[uint]bool
}

// Home lists every student with the codes of the courses they take
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.ListWithCourses(r.Context())
	if err != nil {
		h.renderInternalError(w, "failed to list students", err)
		return
	}
	h.render(w, http.StatusOK, "home.html", page{Title: "Students", Data: students})
}

// NewStudent shows the empty student form
func (h *Handler) NewStudent(w http.ResponseWriter, r *http.Request) {
	h.renderStudentForm(w, r, http.StatusOK, "Add Student", "/students/create", domain.StudentForm{}, "", nil)
}

// CreateStudent creates the student and their enrollments together
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	const title, action = "Add Student", "/students/create"

	form, errs := parseStudentForm(r)
	if len(errs) > 0 {
		h.renderStudentForm(w, r, http.StatusBadRequest, title, action, form, "", errs)
		return
	}

	student, err := h.studentService.CreateWithCourses(r.Context(), studentRequest(form), form.CourseIDs)
	if err != nil {
		if status, msg, ok := studentFormError(err); ok {
			h.renderStudentForm(w, r, status, title, action, form, msg, nil)
			return
		}
		h.renderInternalError(w, "failed to create student", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/students/%d", student.ID))
}

// StudentDetail shows a student and their courses
func (h *Handler) StudentDetail(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, "student_detail.html", page{Title: student.RollNumber, Data: student})
}

// EditStudent shows the student form with the current values and enrollments
func (h *Handler) EditStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	form := domain.StudentForm{
		RollNumber: student.RollNumber,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
	}
	for _, c := range student.Courses {
		form.CourseIDs = append(form.CourseIDs, c.ID)
	}
	h.renderStudentForm(w, r, http.StatusOK, "Update Student", fmt.Sprintf("/students/%d/update", student.ID), form, "", nil)
}

// UpdateStudent replaces the student's fields and enrollment set
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Student not found")
		return
	}
	title, action := "Update Student", fmt.Sprintf("/students/%d/update", id)

	form, errs := parseStudentForm(r)
	if len(errs) > 0 {
		h.renderStudentForm(w, r, http.StatusBadRequest, title, action, form, "", errs)
		return
	}

	if _, err := h.studentService.UpdateWithCourses(r.Context(), id, studentRequest(form), form.CourseIDs); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			h.renderError(w, http.StatusNotFound, "Student not found")
			return
		}
		if status, msg, ok := studentFormError(err); ok {
			h.renderStudentForm(w, r, status, title, action, form, msg, nil)
			return
		}
		h.renderInternalError(w, "failed to update student", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/students/%d", id))
}

// DeleteStudent removes a student and their enrollments
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Student not found")
		return
	}

	if err := h.studentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			h.renderError(w, http.StatusNotFound, "Student not found")
			return
		}
		h.renderInternalError(w, "failed to delete student", err)
		return
	}

	redirect(w, r, "/")
}

// loadStudent resolves the {id} param, rendering the error page itself when it fails
func (h *Handler) loadStudent(w http.ResponseWriter, r *http.Request) (*domain.StudentDetailDTO, bool) {
	id, ok := parseID(r)
	if !ok {
		h.renderError(w, http.StatusNotFound, "Student not found")
		return nil, false
	}

	student, err := h.studentService.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			h.renderError(w, http.StatusNotFound, "Student not found")
			return nil, false
		}
		h.renderInternalError(w, "failed to get student", err)
		return nil, false
	}
	return student, true
}

func (h *Handler) renderStudentForm(w http.ResponseWriter, r *http.Request, status int, title, action string, form domain.StudentForm, msg string, errs map[string]string) {
	courses, err := h.courseService.ListAll(r.Context())
	if err != nil {
		h.renderInternalError(w, "failed to list courses", err)
		return
	}

	h.render(w, status, "student_form.html", page{
		Title:   title,
		Message: msg,
		Errors:  errs,
		Data: studentFormData{
			Action:   action,
			Submit:   title,
			Form:     form,
			Courses:  courses,
			Selected: selectedSet(form.CourseIDs),
		},
	})
}

func studentRequest(form domain.StudentForm) *domain.CreateStudentRequest {
	return &domain.CreateStudentRequest{
		RollNumber: form.RollNumber,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
	}
}

func studentFormError(err error) (int, string, bool) {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, service.ErrDuplicateRollNumber):
		return http.StatusConflict, "Student with this roll number already exists", true
	case errors.As(err, &apiErr):
		return http.StatusBadRequest, apiErr.Message, true
	}
	return 0, "", false
}
