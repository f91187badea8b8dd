package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const wrongInputs = "Wrong Inputs"

type reportData struct {
	IDType   string
	Value    string
	Student  *report.StudentSummary
	Course   *report.CourseSummary
	ChartSrc template.URL
}

// Reports shows the report query form
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "reports.html", page{Title: "Reports", Data: reportData{IDType: "student"}})
}

// RunReport answers the report form with a student's marks or a course's statistics
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	data := reportData{
		IDType: r.PostFormValue("id_type"),
		Value:  strings.TrimSpace(r.PostFormValue("value")),
	}
	fail := func(status int) {
		h.render(w, status, "reports.html", page{Title: "Reports", Message: wrongInputs, Data: data})
	}

	id, err := strconv.Atoi(data.Value)
	if err != nil || id <= 0 {
		fail(http.StatusBadRequest)
		return
	}

	switch data.IDType {
	case "student":
		data.Student, err = h.reportService.Student(r.Context(), id)
	case "course":
		data.Course, err = h.reportService.Course(r.Context(), id)
		if err == nil {
			data.ChartSrc = h.chartSource(r, data.Course)
		}
	default:
		fail(http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoRecords):
			fail(http.StatusNotFound)
		case errors.Is(err, report.ErrInvalidID):
			fail(http.StatusBadRequest)
		default:
			h.renderInternalError(w, "failed to build report", err)
		}
		return
	}

	h.render(w, http.StatusOK, "reports.html", page{Title: "Reports", Data: data})
}

// chartSource publishes the chart to storage; without working storage
// the chart is inlined as a data URI
func (h *Handler) chartSource(r *http.Request, summary *report.CourseSummary) template.URL {
	key, err := h.reportService.PublishCourseChart(r.Context(), summary)
	if err == nil {
		return template.URL("/reports/charts/" + key)
	}
	h.logger.Warn("failed to publish course chart, inlining it", zap.Int("course_id", summary.CourseID), zap.Error(err))

	var buf bytes.Buffer
	if err := report.RenderBarChartSVG(&buf, summary.Histogram); err != nil {
		h.logger.Error("failed to render course chart", zap.Error(err))
		return ""
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// Chart serves a published chart from storage
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	obj, err := h.reportService.OpenChart(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to open chart", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("failed to stream chart", zap.Error(err))
	}
}
