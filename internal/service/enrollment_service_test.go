package service_test

import (
	"context"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/coursedesk/enrollment-api/internal/repository"
	"github.com/coursedesk/enrollment-api/internal/service"
	"github.com/coursedesk/enrollment-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createEnrollmentService(db *gorm.DB) *service.EnrollmentService {
	return service.NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewCourseRepository(db),
		zap.NewNop(),
	)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEnrollmentService(db)
	ctx := context.Background()

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s := testutil.CreateTestStudent(t, db, "Ana", "")

	dto, err := svc.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, dto.StudentID)
	assert.Equal(t, c.ID, dto.CourseID)

	_, err = svc.Enroll(ctx, s.ID, c.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyEnrolled)

	_, err = svc.Enroll(ctx, 999, c.ID)
	assert.ErrorIs(t, err, domain.ErrStudentDoesNotExist)

	_, err = svc.Enroll(ctx, s.ID, 0)
	assert.ErrorIs(t, err, domain.ErrCourseDoesNotExist)

	_, err = svc.Enroll(ctx, s.ID, 999)
	assert.ErrorIs(t, err, domain.ErrCourseDoesNotExist)
}

func TestEnrollmentService_ListForStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEnrollmentService(db)
	ctx := context.Background()

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s := testutil.CreateTestStudent(t, db, "Ana", "")

	_, err := svc.ListForStudent(ctx, s.ID)
	assert.ErrorIs(t, err, service.ErrNotEnrolled)

	_, err = svc.ListForStudent(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrStudentDoesNotExist)

	testutil.Enroll(t, db, s.ID, c.ID)
	list, err := svc.ListForStudent(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].CourseID)
}

func TestEnrollmentService_Withdraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEnrollmentService(db)
	ctx := context.Background()

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s := testutil.CreateTestStudent(t, db, "Ana", "")

	assert.ErrorIs(t, svc.Withdraw(ctx, s.ID, c.ID), service.ErrEnrollmentNotFound)
	assert.ErrorIs(t, svc.Withdraw(ctx, 999, 999), domain.ErrCourseDoesNotExist, "course is checked first")
	assert.ErrorIs(t, svc.Withdraw(ctx, 999, c.ID), domain.ErrStudentDoesNotExist)

	testutil.Enroll(t, db, s.ID, c.ID)
	require.NoError(t, svc.Withdraw(ctx, s.ID, c.ID))
	assert.ErrorIs(t, svc.Withdraw(ctx, s.ID, c.ID), service.ErrEnrollmentNotFound)
}

func TestEnrollmentService_ListStudentsInCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEnrollmentService(db)
	ctx := context.Background()

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s1 := testutil.CreateTestStudent(t, db, "Ana", "")
	s2 := testutil.CreateTestStudent(t, db, "Bo", "")
	testutil.Enroll(t, db, s2.ID, c.ID)
	testutil.Enroll(t, db, s1.ID, c.ID)

	students, err := svc.ListStudentsInCourse(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Bo", students[0].FirstName)

	_, err = svc.ListStudentsInCourse(ctx, 999)
	assert.ErrorIs(t, err, service.ErrCourseNotFound)
}
