package database

import "strings"

// SortOption is a parsed "<field>:<asc|desc>" listing parameter. Field is
// one of the whitelisted API names; Descending defaults to true.
type SortOption struct {
	Field      string
	Descending bool
}

const (
	SortByName      = "name"
	SortByStatus    = "status"
	SortByCreatedAt = "createdAt"
)

// sortColumns maps API sort fields to SQL column names. Doubles as the
// whitelist: anything missing here falls back to created_at.
var sortColumns = map[string]string{
	SortByName:      "name",
	SortByStatus:    "status",
	SortByCreatedAt: "created_at",
}

// DefaultSort is createdAt descending, newest first.
func DefaultSort() SortOption {
	return SortOption{Field: SortByCreatedAt, Descending: true}
}

// ParseSort parses a "<field>:<direction>" parameter. Unknown fields and
// directions fall back to the defaults rather than erroring, matching how
// the listing endpoints treat bad input.
func ParseSort(param string) SortOption {
	sort := DefaultSort()
	if param == "" {
		return sort
	}

	parts := strings.SplitN(param, ":", 2)
	if _, ok := sortColumns[parts[0]]; ok {
		sort.Field = parts[0]
	}
	if len(parts) == 2 && parts[1] == "asc" {
		sort.Descending = false
	}
	return sort
}

// Column returns the SQL column for the sort field.
func (s SortOption) Column() string {
	if col, ok := sortColumns[s.Field]; ok {
		return col
	}
	return "created_at"
}

// Direction returns the SQL keyword for the sort direction.
func (s SortOption) Direction() string {
	if s.Descending {
		return "DESC"
	}
	return "ASC"
}
