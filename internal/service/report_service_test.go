package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/report"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/coursedesk/enrollment-api/internal/storage"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleSheet = `Student id, Course id, Marks
1001, 2001, 56
1002, 2001, 80
1001, 2002, 72
`

func TestMarkService_ImportAndServe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewMarkService(repository.NewMarkRepository(db), zap.NewNop())
	ctx := context.Background()

	n, err := svc.Import(ctx, strings.NewReader(sampleSheet))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := svc.Marks(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, report.MarkRecord{StudentID: 1001, CourseID: 2001, Marks: 56, Line: 2}, records[0])

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMarkService_ImportSheetWithMixedHeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewMarkService(repository.NewMarkRepository(db), zap.NewNop())
	ctx := context.Background()

	n, err := svc.Import(ctx, strings.NewReader("\ufeffid, 2, marks\n1001, 2001, 50\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkService_ImportMalformedKeepsTable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewMarkService(repository.NewMarkRepository(db), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(sampleSheet))
	require.NoError(t, err)

	_, err = svc.Import(ctx, strings.NewReader("1,2,3\n1,2,x\n"))
	var perr *report.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)

	_, err = svc.Import(ctx, strings.NewReader("0,2,3\n"))
	require.True(t, errors.As(err, &perr))

	records, err := svc.Marks(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

type staticSource []report.MarkRecord

func (s staticSource) Marks(context.Context) ([]report.MarkRecord, error) { return s, nil }

func TestReportService(t *testing.T) {
	src := staticSource{
		{StudentID: 1, CourseID: 10, Marks: 40},
		{StudentID: 2, CourseID: 10, Marks: 61},
		{StudentID: 1, CourseID: 11, Marks: 90},
	}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewReportService(src, store, zap.NewNop())
	ctx := context.Background()

	st, err := svc.Student(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 130, st.TotalMarks)

	co, err := svc.Course(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 50.5, co.Average)
	assert.Equal(t, 61, co.Maximum)

	_, err = svc.Student(ctx, 0)
	assert.ErrorIs(t, err, report.ErrInvalidID)
	_, err = svc.Course(ctx, 77)
	assert.ErrorIs(t, err, report.ErrNoRecords)

	svg, err := svc.CourseChart(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	key, err := svc.PublishCourseChart(ctx, co)
	require.NoError(t, err)
	assert.Equal(t, "course-10.svg", key)

	obj, err := svc.OpenChart(ctx, key)
	require.NoError(t, err)
	defer obj.Body.Close()
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, string(svg), string(body))
}

func TestReportService_WithoutStorage(t *testing.T) {
	svc := service.NewReportService(staticSource{}, nil, zap.NewNop())

	_, err := svc.PublishCourseChart(context.Background(), &report.CourseSummary{CourseID: 1})
	assert.Error(t, err)

	_, err = svc.OpenChart(context.Background(), "course-1.svg")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
