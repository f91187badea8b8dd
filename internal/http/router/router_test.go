package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/auth"
	"github.com/coursedesk/enrollment-api/internal/config"
	"github.com/coursedesk/enrollment-api/internal/http/handler"
	"github.com/coursedesk/enrollment-api/internal/http/middleware"
	"github.com/coursedesk/enrollment-api/internal/http/router"
	"github.com/coursedesk/enrollment-api/internal/http/web"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "Enrollment API", Environment: "development"},
		Server:    config.ServerConfig{EnableSwagger: true, MaxUploadSizeMB: 1},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Auth:      config.AuthConfig{Enabled: true, APIKey: "test-key"},
		CORS:      config.CORSConfig{AllowedMethods: []string{"GET", "POST"}},
	}
}

func setupRouter(t *testing.T) *router.Router {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()
	db := testutil.SetupTestDB(t)

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	markRepo := repository.NewMarkRepository(db)

	studentService := service.NewStudentService(studentRepo, courseRepo, logger)
	courseService := service.NewCourseService(courseRepo, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, logger)
	markService := service.NewMarkService(markRepo, logger)
	reportService := service.NewReportService(markService, nil, logger)

	webHandler, err := web.NewHandler(studentService, courseService, enrollmentService, reportService, logger)
	require.NoError(t, err)

	return router.NewRouter(
		cfg,
		logger,
		db,
		auth.NewMiddleware(&cfg.Auth, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		handler.NewCourseHandler(courseService, enrollmentService, logger),
		handler.NewStudentHandler(studentService, logger),
		handler.NewEnrollmentHandler(enrollmentService, logger),
		handler.NewReportHandler(reportService, markService, cfg.Server.MaxUploadBytes(), logger),
		webHandler,
	)
}

func do(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	h := setupRouter(t).Setup()

	rr := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = do(h, http.MethodGet, "/health/db", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"healthy"`)

	rr = do(h, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ReadinessFailure(t *testing.T) {
	rt := setupRouter(t)
	rt.AddReadinessCheck("marks", func(context.Context) error { return errors.New("csv unreadable") })

	rr := do(rt.Setup(), http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "csv unreadable")
}

func TestRouter_APIAuthOnWrites(t *testing.T) {
	h := setupRouter(t).Setup()
	body := `{"course_code":"CSE01","course_name":"MAD 1"}`
	jsonHeader := map[string]string{"Content-Type": "application/json"}

	rr := do(h, http.MethodGet, "/api/course", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodPost, "/api/course", body, jsonHeader)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, http.MethodPost, "/api/course", body, map[string]string{
		"Content-Type": "application/json",
		"x-api-key":    "test-key",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(h, http.MethodGet, "/api/course/1", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"course_code":"CSE01"`)

	rr = do(h, http.MethodGet, "/api/course/1/student", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_EnrollmentRoutes(t *testing.T) {
	h := setupRouter(t).Setup()

	rr := do(h, http.MethodGet, "/api/student/42/course", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ENROLLMENT002")

	rr = do(h, http.MethodDelete, "/api/student/42/course/7", "", map[string]string{"x-api-key": "test-key"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "ENROLLMENT001")
}

func TestRouter_ReportsAndImport(t *testing.T) {
	h := setupRouter(t).Setup()

	rr := do(h, http.MethodPost, "/api/marks/import", "1001,2001,56\n1002,2001,80\n", map[string]string{
		"Content-Type": "text/csv",
		"x-api-key":    "test-key",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"imported":2}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/api/reports/course/2001", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"average_marks":68`)

	rr = do(h, http.MethodGet, "/api/reports/course/2001/chart.svg", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
}

func TestRouter_PagesAndSwagger(t *testing.T) {
	h := setupRouter(t).Setup()

	for _, target := range []string{"/", "/courses", "/courses/create", "/students/create", "/reports"} {
		rr := do(h, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code, target)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html", target)
	}

	rr := do(h, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/course/{id}")

	rr = do(h, http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
