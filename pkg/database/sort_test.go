package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		field      string
		descending bool
	}{
		{"empty falls back to newest first", "", SortByCreatedAt, true},
		{"field only keeps descending", "name", SortByName, true},
		{"explicit asc", "name:asc", SortByName, false},
		{"explicit desc", "status:desc", SortByStatus, true},
		{"createdAt asc", "createdAt:asc", SortByCreatedAt, false},
		{"unknown field falls back", "secret:asc", SortByCreatedAt, false},
		{"unknown direction falls back", "name:sideways", SortByName, true},
		{"injection attempt falls back", "created_at; DROP TABLE leads--", SortByCreatedAt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSort(tt.param)
			assert.Equal(t, tt.field, got.Field)
			assert.Equal(t, tt.descending, got.Descending)
		})
	}
}

func TestSortOptionSQL(t *testing.T) {
	assert.Equal(t, "created_at", DefaultSort().Column())
	assert.Equal(t, "DESC", DefaultSort().Direction())

	opt := ParseSort("createdAt:asc")
	assert.Equal(t, "created_at", opt.Column())
	assert.Equal(t, "ASC", opt.Direction())

	opt = ParseSort("name:asc")
	assert.Equal(t, "name", opt.Column())
	assert.Equal(t, "ASC", opt.Direction())

	// A corrupted field never reaches SQL as-is
	bad := SortOption{Field: "name; --"}
	assert.Equal(t, "created_at", bad.Column())
}
