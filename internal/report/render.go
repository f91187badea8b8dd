package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var pageFS embed.FS

var pages = template.Must(
	template.New("report").Funcs(sprig.FuncMap()).ParseFS(pageFS, "templates/*.html"),
)

// RenderStudentHTML writes the "Student Details" page
func RenderStudentHTML(w io.Writer, summary *StudentSummary) error {
	return execute(w, "student.html", summary)
}

// RenderCourseHTML writes the "Course Details" page. chartSrc is the image
// reference for the histogram; an empty value omits the image.
func RenderCourseHTML(w io.Writer, summary *CourseSummary, chartSrc string) error {
	return execute(w, "course.html", struct {
		Summary  *CourseSummary
		ChartSrc string
	}{summary, chartSrc})
}

// RenderErrorHTML writes the "Wrong Input" page
func RenderErrorHTML(w io.Writer) error {
	return execute(w, "error.html", nil)
}

func execute(w io.Writer, name string, data interface{}) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
