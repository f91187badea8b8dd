// Package web serves the server-rendered pages for managing students,
// courses and mark reports.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strconv"

	"github.com/Masterminds/sprig/v3"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home.html",
	"courses.html",
	"course_form.html",
	"course_detail.html",
	"student_form.html",
	"student_detail.html",
	"reports.html",
	"error.html",
}

// Handler renders the HTML pages
type Handler struct {
	studentService    *service.StudentService
	courseService     *service.CourseService
	enrollmentService *service.EnrollmentService
	reportService     *service.ReportService
	templates         map[string]*template.Template
	logger            *zap.Logger
}

// NewHandler parses the embedded templates and creates the page handler
func NewHandler(
	studentService *service.StudentService,
	courseService *service.CourseService,
	enrollmentService *service.EnrollmentService,
	reportService *service.ReportService,
	logger *zap.Logger,
) (*Handler, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/layout.html", path.Join("templates", name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &Handler{
		studentService:    studentService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
		reportService:     reportService,
		templates:         templates,
		logger:            logger,
	}, nil
}

// Routes registers the page routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Home)

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.Courses)
		r.Get("/create", h.NewCourse)
		r.Post("/create", h.CreateCourse)
		r.Get("/{id}", h.CourseDetail)
		r.Get("/{id}/update", h.EditCourse)
		r.Post("/{id}/update", h.UpdateCourse)
		r.Post("/{id}/delete", h.DeleteCourse)
	})

	r.Route("/students", func(r chi.Router) {
		r.Get("/create", h.NewStudent)
		r.Post("/create", h.CreateStudent)
		r.Get("/{id}", h.StudentDetail)
		r.Get("/{id}/update", h.EditStudent)
		r.Post("/{id}/update", h.UpdateStudent)
		r.Post("/{id}/delete", h.DeleteStudent)
	})

	r.Get("/reports", h.Reports)
	r.Post("/reports", h.RunReport)
	r.Get("/reports/charts/{key}", h.Chart)
}

// page is the data passed to every template
type page struct {
	Title   string
	Message string
	Errors  map[string]string
	Data    interface{}
}

// render executes into a buffer first so a template error never leaves
// a half-written page behind
func (h *Handler) render(w http.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, status int, message string) {
	h.render(w, status, "error.html", page{
		Title:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) renderInternalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	h.renderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
