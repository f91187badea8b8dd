package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MarkRecord is one row of a marks sheet
type MarkRecord struct {
	StudentID int `json:"student_id"`
	CourseID  int `json:"course_id"`
	Marks     int `json:"marks"`
	// Line is the 1-based line of the row in its source file
	Line int `json:"-"`
}

// ParseError reports a malformed row of a marks sheet
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const bom = "\ufeff"

var (
	errFieldCount    = errors.New("expected 3 fields: student_id, course_id, marks")
	errNegativeMarks = errors.New("marks must not be negative")
)

// ReadMarks parses "student_id, course_id, marks" rows. Fields are trimmed
// and a leading UTF-8 byte order mark is dropped. A first row with any
// non-integer field is treated as a header.
func ReadMarks(r io.Reader) ([]MarkRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records := []MarkRecord{}
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Line: perr.Line, Err: perr.Err}
			}
			return nil, fmt.Errorf("failed to read marks: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], bom)
		}

		rec, err := parseRow(row)
		if err != nil {
			if first && !allNumeric(row) {
				first = false
				continue
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		first = false
		rec.Line = line
		records = append(records, rec)
	}
	return records, nil
}

// ReadMarksFile reads a marks sheet from disk. A missing file is an empty sheet.
func ReadMarksFile(path string) ([]MarkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []MarkRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open marks file: %w", err)
	}
	defer f.Close()

	return ReadMarks(f)
}

func parseRow(row []string) (MarkRecord, error) {
	if len(row) != 3 {
		return MarkRecord{}, errFieldCount
	}
	var vals [3]int
	for i, field := range row {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return MarkRecord{}, fmt.Errorf("field %d: %q is not an integer", i+1, field)
		}
		vals[i] = v
	}
	if vals[2] < 0 {
		return MarkRecord{}, errNegativeMarks
	}
	return MarkRecord{StudentID: vals[0], CourseID: vals[1], Marks: vals[2]}, nil
}

func allNumeric(row []string) bool {
	for _, field := range row {
		if _, err := strconv.Atoi(strings.TrimSpace(field)); err != nil {
			return false
		}
	}
	return true
}
