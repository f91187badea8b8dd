package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStudentHTML(t *testing.T) {
	summary, err := StudentReport(sheet, 1001)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderStudentHTML(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "<title>Student Details</title>")
	assert.Contains(t, out, "<td>2003</td>")
	assert.Contains(t, out, "Total Marks")
	assert.Contains(t, out, "<td>219</td>")
	assert.Equal(t, 3, strings.Count(out, "<td>1001</td>"))
}

func TestRenderCourseHTML(t *testing.T) {
	summary, err := CourseReport(sheet, 2001)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderCourseHTML(&buf, summary, "course.svg"))

	out := buf.String()
	assert.Contains(t, out, "<title>Course Details</title>")
	assert.Contains(t, out, "<td>64.0</td>")
	assert.Contains(t, out, "<td>80</td>")
	assert.Contains(t, out, `src="course.svg"`)

	buf.Reset()
	require.NoError(t, RenderCourseHTML(&buf, summary, ""))
	assert.NotContains(t, buf.String(), "<img")
}

func TestRenderErrorHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderErrorHTML(&buf))
	assert.Contains(t, buf.String(), "<h1>Wrong Input</h1>")
	assert.Contains(t, buf.String(), "Something went wrong")
}

func TestRenderBarChartSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBarChartSVG(&buf, []Bucket{{56, 2}, {80, 1}}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, ">Marks</text>")
	assert.Contains(t, out, ">Frequency</text>")
	assert.Contains(t, out, "<title>56: 2</title>")
	assert.Contains(t, out, "<title>80: 1</title>")
}

func TestLayoutChart_BarHeightsScaleWithFrequency(t *testing.T) {
	c := layoutChart([]Bucket{{10, 4}, {20, 2}})
	require.Len(t, c.Bars, 2)

	assert.InDelta(t, float64(c.Bottom-c.Top), c.Bars[0].H, 0.001)
	assert.InDelta(t, c.Bars[0].H/2, c.Bars[1].H, 0.001)
	assert.Less(t, c.Bars[0].X, c.Bars[1].X)
}

func TestTicks(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, ticks(0, 3))
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, ticks(0, 100))
	assert.Equal(t, []int{-2, 0, 2, 4, 6, 8, 10, 12}, ticks(-3, 13))
}
