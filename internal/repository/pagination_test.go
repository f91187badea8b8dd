package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOrderClause(t *testing.T) {
	fields := map[string]string{"id": "student_id", "firstName": "first_name"}

	assert.Equal(t, "first_name DESC", BuildOrderClause(SortConfig{Field: "firstName", Order: SortOrderDesc}, fields, "student_id"))
	assert.Equal(t, "student_id ASC", BuildOrderClause(SortConfig{Field: "password; DROP TABLE", Order: SortOrderAsc}, fields, "student_id"))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortOrderDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortOrderAsc, ParseSortOrder("desc "))
	assert.Equal(t, SortOrderAsc, ParseSortOrder(""))
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = NormalizePage(3, 5000)
	assert.Equal(t, MaxPageSize, size)
}
