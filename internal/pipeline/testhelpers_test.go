package pipeline

import (
	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/table"
)

func coverageSource(rows ...table.Row) ingest.Source {
	t := table.New("agency_name", "city", "role_category", "supply_capability")
	for _, r := range rows {
		t.Append(r)
	}
	return ingest.Source{Path: "coverage.csv", Role: ingest.RoleCoverage, Table: t}
}

func rateSource(rows ...table.Row) ingest.Source {
	t := table.New("agency_name", "city", "agency_margin", "venue_name", "platforms.employer_id")
	for _, r := range rows {
		t.Append(r)
	}
	return ingest.Source{Path: "rates.csv", Role: ingest.RoleRateCard, Table: t}
}

func scorecardSource(rows ...table.Row) ingest.Source {
	t := table.New("agency_name", "city", "fulfilled_val", "shifts_requested", "shifts_filled",
		"platforms.employer_id", "client_name")
	for _, r := range rows {
		t.Append(r)
	}
	return ingest.Source{Path: "scorecard.csv", Role: ingest.RoleScorecard, Table: t}
}

func f(v float64) *float64 { return &v }
