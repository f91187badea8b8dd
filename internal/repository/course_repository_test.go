package repository_test

import (
	"context"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCourseRepository_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCourseRepository(db)
	ctx := context.Background()

	course := &domain.Course{CourseCode: "CSE03", CourseName: "PDSA"}
	require.NoError(t, repo.Create(ctx, course))
	require.NotZero(t, course.ID)

	course.CourseDescription = "Algorithms"
	require.NoError(t, repo.Update(ctx, course))

	found, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", found.CourseDescription)

	byCode, err := repo.GetByCode(ctx, "CSE03")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, course.ID, byCode.ID)

	none, err := repo.GetByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Delete(ctx, course.ID))
	_, err = repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCourseRepository_DeleteRemovesEnrollments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCourseRepository(db)
	ctx := context.Background()

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s1 := testutil.CreateTestStudent(t, db, "A", "")
	s2 := testutil.CreateTestStudent(t, db, "B", "")
	testutil.Enroll(t, db, s1.ID, c.ID)
	testutil.Enroll(t, db, s2.ID, c.ID)

	require.NoError(t, repo.Delete(ctx, c.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Enrollment{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, c.ID), gorm.ErrRecordNotFound)
}

func TestCourseRepository_GetWithStudents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCourseRepository(db)

	c := testutil.CreateTestCourse(t, db, "CSE02", "DBMS")
	s := testutil.CreateTestStudent(t, db, "Lata", "")
	testutil.Enroll(t, db, s.ID, c.ID)

	loaded, err := repo.GetWithStudents(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Enrollments, 1)
	assert.Equal(t, "Lata", loaded.Enrollments[0].Student.FirstName)
}

func TestCourseRepository_CountExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCourseRepository(db)
	ctx := context.Background()

	c1 := testutil.CreateTestCourse(t, db, "A", "A")
	c2 := testutil.CreateTestCourse(t, db, "B", "B")

	n, err := repo.CountExisting(ctx, []uint{c1.ID, c2.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountExisting(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCourseRepository_ListSearchAndSort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCourseRepository(db)
	ctx := context.Background()

	testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	testutil.CreateTestCourse(t, db, "CSE02", "DBMS")
	testutil.CreateTestCourse(t, db, "BST13", "BDM")

	courses, total, err := repo.List(ctx, 1, 10, &repository.CourseFilters{Search: "cse"}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, courses, 2)

	sorted, _, err := repo.List(ctx, 1, 10, nil, repository.SortConfig{Field: "courseCode", Order: repository.SortOrderAsc})
	require.NoError(t, err)
	assert.Equal(t, "BST13", sorted[0].CourseCode)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
