package repository_test

import (
	"context"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	ctx := context.Background()

	c1 := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	c2 := testutil.CreateTestCourse(t, db, "CSE02", "DBMS")
	s := testutil.CreateTestStudent(t, db, "Uma", "")

	e1 := &domain.Enrollment{StudentID: s.ID, CourseID: c1.ID}
	require.NoError(t, repo.Create(ctx, e1))
	require.NoError(t, repo.Create(ctx, &domain.Enrollment{StudentID: s.ID, CourseID: c2.ID}))

	assert.Error(t, repo.Create(ctx, &domain.Enrollment{StudentID: s.ID, CourseID: c1.ID}), "pair must be unique")

	got, err := repo.Get(ctx, s.ID, c1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e1.ID, got.ID)

	list, err := repo.ListByStudent(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c1.ID, list[0].CourseID)

	byCourse, err := repo.ListByCourse(ctx, c2.ID)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Uma", byCourse[0].Student.FirstName)

	require.NoError(t, repo.Delete(ctx, e1.ID))
	gone, err := repo.Get(ctx, s.ID, c1.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMarkRepository_ReplaceAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMarkRepository(db)
	ctx := context.Background()

	testutil.CreateTestMarks(t, db, [3]int{1, 1, 10}, [3]int{2, 1, 20})

	fresh := []domain.Mark{
		{StudentID: 5, CourseID: 9, Marks: 70, Line: 3},
		{StudentID: 6, CourseID: 9, Marks: 80, Line: 2},
	}
	require.NoError(t, repo.ReplaceAll(ctx, fresh))

	marks, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, uint(6), marks[0].StudentID, "ordered by sheet line")
	assert.False(t, marks[0].ImportedAt.IsZero())

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
