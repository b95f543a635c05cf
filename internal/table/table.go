// Package table holds the in-memory tabular model shared by every pipeline
// stage. A table is an ordered header list plus string-cell rows; typed
// interpretation (numeric coercion) happens at the point of use.
package table

import (
	"strconv"
	"strings"
)

// Row is one record: column name to raw cell value. An absent key and an
// empty string both mean missing.
type Row map[string]string

// Table is a bounded, in-memory dataset. Stages never mutate their input
// table; they build a new one.
type Table struct {
	Headers []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(headers ...string) *Table {
	return &Table{Headers: append([]string(nil), headers...)}
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// EnsureColumns adds any missing columns to the header list. Existing rows
// simply have no value for them, which reads as null downstream.
func (t *Table) EnsureColumns(names ...string) {
	for _, n := range names {
		if !t.HasColumn(n) {
			t.Headers = append(t.Headers, n)
		}
	}
}

// Append adds a row. Rows are stored as given; callers own the map.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Get returns the trimmed cell value, "" when missing.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Float returns the cell as a nullable float. Unparseable cells coerce to
// nil; the row itself is never dropped for a bad numeric cell.
func (r Row) Float(col string) *float64 {
	return ParseFloat(r.Get(col))
}

// ParseFloat coerces a raw cell to a nullable float. Accepts currency and
// percent decorations ("$1,200", "85%") since source exports carry both.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatFloat renders a nullable float for CSV/display, "" for null.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
