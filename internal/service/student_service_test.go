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

func createStudentService(db *gorm.DB) *service.StudentService {
	return service.NewStudentService(
		repository.NewStudentRepository(db),
		repository.NewCourseRepository(db),
		zap.NewNop(),
	)
}

func TestStudentService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateStudentRequest{RollNumber: "12345", FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "12345", dto.RollNumber)

	_, err = svc.Create(ctx, &domain.CreateStudentRequest{RollNumber: "12345", FirstName: "Jane"})
	assert.ErrorIs(t, err, service.ErrDuplicateRollNumber)

	_, err = svc.Create(ctx, &domain.CreateStudentRequest{FirstName: "Jane"})
	assert.ErrorIs(t, err, domain.ErrRollNumberRequired)

	_, err = svc.Create(ctx, &domain.CreateStudentRequest{RollNumber: "777", FirstName: "   "})
	assert.ErrorIs(t, err, domain.ErrFirstNameRequired)
}

func TestStudentService_CreateWithCourses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)
	ctx := context.Background()

	c1 := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	c2 := testutil.CreateTestCourse(t, db, "CSE02", "DBMS")

	dto, err := svc.CreateWithCourses(ctx, &domain.CreateStudentRequest{RollNumber: "R1", FirstName: "Ana"}, []uint{c1.ID, c2.ID, c1.ID})
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, dto.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Courses, 2)

	_, err = svc.CreateWithCourses(ctx, &domain.CreateStudentRequest{RollNumber: "R2", FirstName: "Bo"}, []uint{c1.ID, 999})
	assert.ErrorIs(t, err, domain.ErrCourseDoesNotExist)
}

func TestStudentService_UpdatePersists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)
	ctx := context.Background()

	s := testutil.CreateTestStudent(t, db, "Old", "Name")
	other := testutil.CreateTestStudent(t, db, "Other", "")

	_, err := svc.Update(ctx, s.ID, &domain.UpdateStudentRequest{RollNumber: "NEW-1", FirstName: "New", LastName: "Name"})
	require.NoError(t, err)

	reloaded, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW-1", reloaded.RollNumber)
	assert.Equal(t, "New", reloaded.FirstName)

	_, err = svc.Update(ctx, s.ID, &domain.UpdateStudentRequest{RollNumber: other.RollNumber, FirstName: "New"})
	assert.ErrorIs(t, err, service.ErrDuplicateRollNumber)

	_, err = svc.Update(ctx, 999, &domain.UpdateStudentRequest{RollNumber: "X", FirstName: "Y"})
	assert.ErrorIs(t, err, service.ErrStudentNotFound)

	_, err = svc.Update(ctx, s.ID, &domain.UpdateStudentRequest{FirstName: "Y"})
	assert.ErrorIs(t, err, domain.ErrRollNumberRequired)
}

func TestStudentService_UpdateWithCourses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)
	ctx := context.Background()

	c1 := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	c2 := testutil.CreateTestCourse(t, db, "CSE02", "DBMS")
	s := testutil.CreateTestStudent(t, db, "Ana", "")
	testutil.Enroll(t, db, s.ID, c1.ID)

	_, err := svc.UpdateWithCourses(ctx, s.ID, &domain.UpdateStudentRequest{RollNumber: s.RollNumber, FirstName: "Ana"}, []uint{c2.ID})
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, "CSE02", detail.Courses[0].CourseCode)

	_, err = svc.UpdateWithCourses(ctx, s.ID, &domain.UpdateStudentRequest{RollNumber: s.RollNumber, FirstName: "Ana"}, nil)
	require.NoError(t, err)
	detail, err = svc.GetDetail(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Courses)
}

func TestStudentService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)
	ctx := context.Background()

	s := testutil.CreateTestStudent(t, db, "Gone", "")
	require.NoError(t, svc.Delete(ctx, s.ID))
	assert.ErrorIs(t, svc.Delete(ctx, s.ID), service.ErrStudentNotFound)

	_, err := svc.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, service.ErrStudentNotFound)
}

func TestStudentService_ListWithCourses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createStudentService(db)

	c := testutil.CreateTestCourse(t, db, "CSE01", "MAD 1")
	s := testutil.CreateTestStudent(t, db, "Ana", "")
	testutil.CreateTestStudent(t, db, "Bo", "")
	testutil.Enroll(t, db, s.ID, c.ID)

	list, err := svc.ListWithCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Courses, 1)
	assert.NotNil(t, list[1].Courses)
}
