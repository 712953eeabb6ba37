// Package table holds the delimited-file loader and the row search shared by
// the inventory and project screens.
package table

import "strings"

// Table is a header plus string rows, as read from a delimited text file.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// Warning is set when the table is a fallback for a failed load.
	Warning string `json:"warning,omitempty"`
}

// Index returns the position of the first column matching any of the names,
// compared case-insensitively, or -1.
func (t Table) Index(names ...string) int {
	for i, c := range t.Columns {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(c), n) {
				return i
			}
		}
	}
	return -1
}

// Value returns row[idx] trimmed, or "" when idx is out of range.
func Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Match reports whether query occurs, case-insensitively, in any cell.
// A blank query matches every row; otherwise the query is matched as typed,
// surrounding spaces included.
func Match(cells []string, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, c := range cells {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// Filter returns the elements of items whose cells match query, keeping order.
func Filter[T any](items []T, cells func(T) []string, query string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Match(cells(it), query) {
			out = append(out, it)
		}
	}
	return out
}
