package report

import (
	"embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/chart.svg
var chartFS embed.FS

var chartTmpl = template.Must(
	template.New("chart.svg").Funcs(sprig.TxtFuncMap()).ParseFS(chartFS, "templates/chart.svg"),
)

const (
	chartWidth  = 800
	chartHeight = 400
	marginLeft  = 60
	marginRight = 20
	marginTop   = 20
	marginBot   = 50

	// barWidth is in marks, not pixels
	barWidth = 4.0
	maxTicks = 10
)

type svgBar struct {
	X, Y, W, H float64
	Marks      int
	Frequency  int
}

type svgTick struct {
	Pos   float64
	Label string
}

type svgChart struct {
	Width, Height            int
	Left, Right, Top, Bottom int
	Bars                     []svgBar
	XTicks, YTicks           []svgTick
}

// RenderBarChartSVG draws the histogram as an SVG bar chart with "Marks"
// on the x axis and "Frequency" on the y axis.
func RenderBarChartSVG(w io.Writer, histogram []Bucket) error {
	if err := chartTmpl.Execute(w, layoutChart(histogram)); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func layoutChart(histogram []Bucket) svgChart {
	c := svgChart{
		Width:  chartWidth,
		Height: chartHeight,
		Left:   marginLeft,
		Right:  chartWidth - marginRight,
		Top:    marginTop,
		Bottom: chartHeight - marginBot,
	}

	lo, hi, maxFreq := 0, 0, 1
	for i, b := range histogram {
		if i == 0 || b.Marks < lo {
			lo = b.Marks
		}
		if i == 0 || b.Marks > hi {
			hi = b.Marks
		}
		if b.Frequency > maxFreq {
			maxFreq = b.Frequency
		}
	}

	xMin := float64(lo) - barWidth
	xMax := float64(hi) + barWidth
	plotW := float64(c.Right - c.Left)
	plotH := float64(c.Bottom - c.Top)
	xScale := func(v float64) float64 {
		return float64(c.Left) + (v-xMin)/(xMax-xMin)*plotW
	}
	yScale := func(v float64) float64 {
		return float64(c.Bottom) - v/float64(maxFreq)*plotH
	}

	pxWidth := math.Max(barWidth/(xMax-xMin)*plotW, 1)
	for _, b := range histogram {
		top := yScale(float64(b.Frequency))
		c.Bars = append(c.Bars, svgBar{
			X:         xScale(float64(b.Marks)) - pxWidth/2,
			Y:         top,
			W:         pxWidth,
			H:         float64(c.Bottom) - top,
			Marks:     b.Marks,
			Frequency: b.Frequency,
		})
	}

	for _, v := range ticks(int(math.Ceil(xMin)), int(math.Floor(xMax))) {
		c.XTicks = append(c.XTicks, svgTick{Pos: xScale(float64(v)), Label: strconv.Itoa(v)})
	}
	for _, v := range ticks(0, maxFreq) {
		c.YTicks = append(c.YTicks, svgTick{Pos: yScale(float64(v)), Label: strconv.Itoa(v)})
	}
	return c
}

// ticks returns at most maxTicks+1 round values in [lo, hi]
func ticks(lo, hi int) []int {
	step := 1
	for _, s := range []int{1, 2, 5, 10, 20, 25, 50, 100} {
		step = s
		if (hi-lo)/s <= maxTicks {
			break
		}
	}
	start := lo
	if r := start % step; r != 0 {
		if start > 0 {
			start += step - r
		} else {
			start -= r
		}
	}
	var out []int
	for v := start; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}
