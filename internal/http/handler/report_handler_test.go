package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/http/handler"
	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sheet = "Student id, Course id, Marks\n1001, 2001, 56\n1002, 2001, 80\n1001, 2002, 72\n"

func createReportHandler(t *testing.T, source report.MarkSource, maxUpload int64) (*handler.ReportHandler, *service.MarkService) {
	db := testutil.SetupTestDB(t)
	markService := service.NewMarkService(repository.NewMarkRepository(db), zap.NewNop())
	if source == nil {
		source = markService
	}
	reportService := service.NewReportService(source, nil, zap.NewNop())
	return handler.NewReportHandler(reportService, markService, maxUpload, zap.NewNop()), markService
}

func TestReportHandler_FromCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o644))
	h, _ := createReportHandler(t, report.NewFileSource(path), 0)

	rr := httptest.NewRecorder()
	h.StudentReport(rr, newRequest(t, http.MethodGet, "/", nil, "id", "1001"))
	require.Equal(t, http.StatusOK, rr.Code)
	st := decode[report.StudentSummary](t, rr)
	assert.Equal(t, 128, st.TotalMarks)
	assert.Len(t, st.Rows, 2)

	rr = httptest.NewRecorder()
	h.CourseReport(rr, newRequest(t, http.MethodGet, "/", nil, "id", "2001"))
	require.Equal(t, http.StatusOK, rr.Code)
	co := decode[report.CourseSummary](t, rr)
	assert.Equal(t, 68.0, co.Average)
	assert.Equal(t, 80, co.Maximum)

	rr = httptest.NewRecorder()
	h.CourseChart(rr, newRequest(t, http.MethodGet, "/", nil, "id", "2001"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "<svg"))
}

func TestReportHandler_Errors(t *testing.T) {
	h, _ := createReportHandler(t, report.NewFileSource(filepath.Join(t.TempDir(), "missing.csv")), 0)

	for _, id := range []string{"0", "-3", "abc"} {
		rr := httptest.NewRecorder()
		h.StudentReport(rr, newRequest(t, http.MethodGet, "/", nil, "id", id))
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
	}

	rr := httptest.NewRecorder()
	h.CourseReport(rr, newRequest(t, http.MethodGet, "/", nil, "id", "2001"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportHandler_ImportMarks(t *testing.T) {
	h, _ := createReportHandler(t, nil, 1<<20)

	t.Run("raw csv body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/marks/import", strings.NewReader(sheet))
		req.Header.Set("Content-Type", "text/csv")
		rr := httptest.NewRecorder()
		h.ImportMarks(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, 3, decode[domain.ImportResult](t, rr).Imported)

		rr = httptest.NewRecorder()
		h.StudentReport(rr, newRequest(t, http.MethodGet, "/", nil, "id", "1002"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 80, decode[report.StudentSummary](t, rr).TotalMarks)
	})

	t.Run("multipart file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "data.csv")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("1,2,3\n"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/marks/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rr := httptest.NewRecorder()
		h.ImportMarks(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, 1, decode[domain.ImportResult](t, rr).Imported)
	})

	t.Run("malformed sheet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/marks/import", strings.NewReader("1,2,3\n4,5\n"))
		req.Header.Set("Content-Type", "text/csv")
		rr := httptest.NewRecorder()
		h.ImportMarks(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decode[domain.ErrorResponse](t, rr).Message, "line 2")
	})

	t.Run("multipart without file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/marks/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rr := httptest.NewRecorder()
		h.ImportMarks(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
