package report

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrInvalidID is returned for ids that are not positive
	ErrInvalidID = errors.New("id must be a positive integer")

	// ErrNoRecords is returned when no row matches the requested id
	ErrNoRecords = errors.New("no marks recorded")
)

// StudentSummary lists a student's rows in file order with their total
type StudentSummary struct {
	StudentID  int          `json:"student_id"`
	Rows       []MarkRecord `json:"marks"`
	TotalMarks int          `json:"total_marks"`
}

// Bucket is the number of rows that scored exactly Marks
type Bucket struct {
	Marks     int `json:"marks"`
	Frequency int `json:"frequency"`
}

// CourseSummary aggregates all rows of one course
type CourseSummary struct {
	CourseID  int      `json:"course_id"`
	Count     int      `json:"count"`
	Average   float64  `json:"average_marks"`
	Maximum   int      `json:"maximum_marks"`
	Histogram []Bucket `json:"histogram"`
}

// StudentReport collects the rows of studentID
func StudentReport(records []MarkRecord, studentID int) (*StudentSummary, error) {
	if studentID <= 0 {
		return nil, ErrInvalidID
	}

	summary := &StudentSummary{StudentID: studentID, Rows: []MarkRecord{}}
	for _, rec := range records {
		if rec.StudentID != studentID {
			continue
		}
		summary.Rows = append(summary.Rows, rec)
		summary.TotalMarks += rec.Marks
	}
	if len(summary.Rows) == 0 {
		return nil, ErrNoRecords
	}
	return summary, nil
}

// CourseReport computes average, maximum and histogram for courseID.
// The average is rounded to one decimal.
func CourseReport(records []MarkRecord, courseID int) (*CourseSummary, error) {
	if courseID <= 0 {
		return nil, ErrInvalidID
	}

	var marks []int
	maximum, sum := 0, 0
	for _, rec := range records {
		if rec.CourseID != courseID {
			continue
		}
		marks = append(marks, rec.Marks)
		sum += rec.Marks
		if rec.Marks > maximum {
			maximum = rec.Marks
		}
	}
	if len(marks) == 0 {
		return nil, ErrNoRecords
	}

	return &CourseSummary{
		CourseID:  courseID,
		Count:     len(marks),
		Average:   roundOne(float64(sum) / float64(len(marks))),
		Maximum:   maximum,
		Histogram: Histogram(marks),
	}, nil
}

// Histogram counts each distinct mark, ascending by mark
func Histogram(marks []int) []Bucket {
	counts := make(map[int]int, len(marks))
	for _, m := range marks {
		counts[m]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for m, n := range counts {
		buckets = append(buckets, Bucket{Marks: m, Frequency: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Marks < buckets[j].Marks
	})
	return buckets
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
