package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/http/handler"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type handlers struct {
	course     *handler.CourseHandler
	student    *handler.StudentHandler
	enrollment *handler.EnrollmentHandler
}

func createHandlers(db *gorm.DB) handlers {
	logger := zap.NewNop()
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	courseService := service.NewCourseService(courseRepo, logger)
	studentService := service.NewStudentService(studentRepo, courseRepo, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, logger)

	return handlers{
		course:     handler.NewCourseHandler(courseService, enrollmentService, logger),
		student:    handler.NewStudentHandler(studentService, logger),
		enrollment: handler.NewEnrollmentHandler(enrollmentService, logger),
	}
}

// newRequest builds a request with chi URL params given as name/value pairs
func newRequest(t *testing.T, method, target string, body interface{}, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
