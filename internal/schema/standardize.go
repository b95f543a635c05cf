// Package schema maps heterogeneous source column names onto the canonical
// schema the pipeline joins on.
package schema

import (
	"strings"

	"github.com/sells-group/agency-intel/internal/table"
)

// DefaultSynonyms maps recognized source headers to canonical names. The
// active table is injected from configuration; this is its default value.
var DefaultSynonyms = map[string]string{
	"brand":                         "agency_name",
	"vendor":                        "agency_name",
	"agency":                        "agency_name",
	"venue_city":                    "city",
	"location":                      "city",
	"market":                        "city",
	"employer_id":                   "platforms.employer_id",
	"venue":                         "venue_name",
	"employer_name":                 "client_name",
	"fulfilled%":                    "fulfilled_val",
	"agency_worker_requested":       "shifts_requested",
	"actual_agency_worker_provided": "shifts_filled",
}

// NormalizeHeader lower-cases a header and replaces whitespace runs with a
// single underscore.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// Standardize returns a new table whose headers are normalized and renamed
// through the synonym table. Unrecognized headers keep their normalized
// names; nothing is synthesized. When two source headers collapse onto the
// same canonical name, the first one seen keeps it.
func Standardize(t *table.Table, synonyms map[string]string) *table.Table {
	rename := make(map[string]string, len(t.Headers))
	out := table.New()
	taken := make(map[string]bool, len(t.Headers))

	for _, h := range t.Headers {
		canon := NormalizeHeader(h)
		if mapped, ok := synonyms[canon]; ok {
			canon = mapped
		}
		if taken[canon] {
			continue
		}
		taken[canon] = true
		rename[h] = canon
		out.Headers = append(out.Headers, canon)
	}

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for h, canon := range rename {
			if v, ok := r[h]; ok {
				row[canon] = v
			}
		}
		out.Append(row)
	}
	return out
}
