package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler serves mark reports and the marks import endpoint
type ReportHandler struct {
	reportService  *service.ReportService
	markService    *service.MarkService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(
	reportService *service.ReportService,
	markService *service.MarkService,
	maxUploadBytes int64,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		markService:    markService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// StudentReport godoc
// @Summary Student marks report
// @Description Rows of the marks sheet for one student plus their total
// @Tags Reports
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} report.StudentSummary
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports/student/{id} [get]
func (h *ReportHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.Student(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CourseReport godoc
// @Summary Course marks report
// @Description Average, maximum and histogram of the marks of one course
// @Tags Reports
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} report.CourseSummary
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports/course/{id} [get]
func (h *ReportHandler) CourseReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.Course(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CourseChart godoc
// @Summary Course marks histogram
// @Tags Reports
// @Produce image/svg+xml
// @Param id path int true "Course ID"
// @Success 200 {file} file
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports/course/{id}/chart.svg [get]
func (h *ReportHandler) CourseChart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	svg, err := h.reportService.CourseChart(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// ImportMarks godoc
// @Summary Import marks sheet
// @Description Replace the stored marks with a CSV sheet (student_id, course_id, marks). Send either a multipart form with a "file" field or a raw text/csv body.
// @Tags Marks
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Param file formData file false "CSV file"
// @Success 200 {object} domain.ImportResult
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /marks/import [post]
func (h *ReportHandler) ImportMarks(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				respondError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Missing file field",
			})
			return
		}
		defer file.Close()
		body = file
	}

	n, err := h.markService.Import(r.Context(), body)
	if err != nil {
		var perr *report.ParseError
		switch {
		case errors.As(err, &perr):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: perr.Error(),
			})
		case isTooLarge(err):
			respondError(w, http.StatusRequestEntityTooLarge, "File too large")
		default:
			h.logger.Error("failed to import marks", zap.Error(err))
			respondInternalError(w, "Failed to import marks")
		}
		return
	}

	respondJSON(w, http.StatusOK, domain.ImportResult{Imported: n})
}

func (h *ReportHandler) reportID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: report.ErrInvalidID.Error(),
		})
		return 0, false
	}
	return id, true
}

func (h *ReportHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidID):
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Bad Request", Message: err.Error()})
	case errors.Is(err, report.ErrNoRecords):
		respondError(w, http.StatusNotFound, "No marks recorded")
	default:
		h.logger.Error("failed to build report", zap.Error(err))
		respondInternalError(w, "Failed to build report")
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
