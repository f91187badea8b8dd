// Command report renders a student's marks or a course's statistics from a
// marks CSV into a standalone HTML page.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coursedesk/enrollment-api/internal/logger"
	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const welcome = "Welcome to Course and Student Analysis !"

type options struct {
	student string
	course  string
	data    string
	out     string
	chart   string
	verbose bool
}

func main() {
	if err := newCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newCommand(stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "report (-s STUDENT_ID | -c COURSE_ID)",
		Short: "Render a student or course marks report as HTML",
		Long: `Reads a marks CSV (student_id, course_id, marks) and writes an HTML page.

With -s the page lists the student's marks and their total. With -c it shows the
course average and maximum, and a bar chart of the marks is written next to it.
Invalid input, or an id with no marks, produces the "Wrong Input" page instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.NewCLILogger(opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			fmt.Fprintln(stdout, welcome)
			return run(cmd.Context(), opts, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.student, "student", "s", "", "student id to report on")
	flags.StringVarP(&opts.course, "course", "c", "", "course id to report on")
	flags.StringVar(&opts.data, "data", "data.csv", "marks CSV file")
	flags.StringVar(&opts.out, "out", "output.html", "HTML file to write")
	flags.StringVar(&opts.chart, "chart", "course.svg", "SVG chart file to write in course mode")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

var errWrongInput = errors.New("wrong input")

// run writes the requested page. Bad input is reported through the error
// page, not the exit status; only I/O failures are returned.
func run(ctx context.Context, opts *options, log *zap.Logger) error {
	err := render(ctx, opts, log)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errWrongInput) && !errors.Is(err, report.ErrInvalidID) &&
		!errors.Is(err, report.ErrNoRecords) && !isParseError(err) {
		return err
	}

	log.Warn("writing error page", zap.Error(err))
	return writeFile(opts.out, report.RenderErrorHTML)
}

func render(ctx context.Context, opts *options, log *zap.Logger) error {
	mode, raw, err := selectMode(opts)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q is not an id", errWrongInput, raw)
	}

	records, err := report.NewFileSource(opts.data).Marks(ctx)
	if err != nil {
		return err
	}
	log.Debug("marks loaded", zap.String("path", opts.data), zap.Int("rows", len(records)))

	if mode == "student" {
		summary, err := report.StudentReport(records, id)
		if err != nil {
			return err
		}
		return writeFile(opts.out, func(w io.Writer) error {
			return report.RenderStudentHTML(w, summary)
		})
	}

	summary, err := report.CourseReport(records, id)
	if err != nil {
		return err
	}
	if err := writeFile(opts.chart, func(w io.Writer) error {
		return report.RenderBarChartSVG(w, summary.Histogram)
	}); err != nil {
		return err
	}
	return writeFile(opts.out, func(w io.Writer) error {
		return report.RenderCourseHTML(w, summary, filepath.Base(opts.chart))
	})
}

// selectMode requires exactly one of -s and -c
func selectMode(opts *options) (string, string, error) {
	switch {
	case opts.student != "" && opts.course == "":
		return "student", opts.student, nil
	case opts.course != "" && opts.student == "":
		return "course", opts.course, nil
	default:
		return "", "", fmt.Errorf("%w: exactly one of -s or -c is required", errWrongInput)
	}
}

func isParseError(err error) bool {
	var pe *report.ParseError
	return errors.As(err, &pe)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
