// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/coursedesk/enrollment-api/internal/database"
	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. The pool is pinned to one connection because every new
// connection to ":memory:" would see an empty database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestStudent inserts a student with a unique roll number
func CreateTestStudent(t *testing.T, db *gorm.DB, firstName, lastName string) *domain.Student {
	t.Helper()
	student := &domain.Student{
		RollNumber: fmt.Sprintf("R%05d", seq.Add(1)),
		FirstName:  firstName,
		LastName:   lastName,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

// CreateTestCourse inserts a course with the given code
func CreateTestCourse(t *testing.T, db *gorm.DB, code, name string) *domain.Course {
	t.Helper()
	course := &domain.Course{
		CourseCode:        code,
		CourseName:        name,
		CourseDescription: name + " description",
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

// Enroll links a student to a course
func Enroll(t *testing.T, db *gorm.DB, studentID, courseID uint) *domain.Enrollment {
	t.Helper()
	enrollment := &domain.Enrollment{StudentID: studentID, CourseID: courseID}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

// CreateTestMarks inserts mark rows as (studentID, courseID, marks) triples
func CreateTestMarks(t *testing.T, db *gorm.DB, rows ...[3]int) {
	t.Helper()
	for i, r := range rows {
		mark := &domain.Mark{
			StudentID: uint(r[0]),
			CourseID:  uint(r[1]),
			Marks:     r[2],
			Line:      i + 1,
		}
		require.NoError(t, db.Create(mark).Error)
	}
}
