package pipeline

import (
	"github.com/sells-group/agency-intel/internal/ingest"
	"github.com/sells-group/agency-intel/internal/table"
)

// enrich left-joins rate-card, coverage, and scorecard facts onto the spine,
// then computes presence classification and city-relative margin metrics.
//
// Join multiplicity mirrors sequential left joins: a spine entry with R rate
// matches, C coverage matches, and S scorecard matches yields
// max(R,1)*max(C,1)*max(S,1) enriched rows. The aggregator collapses these.
func enrich(spine []SpineEntry, sources []keyedSource) []EnrichedRecord {
	rateIdx := indexRows(sources, ingest.RoleRateCard)
	covIdx := indexRows(sources, ingest.RoleCoverage)
	scoreIdx := indexRows(sources, ingest.RoleScorecard)

	var out []EnrichedRecord
	for _, entry := range spine {
		k := pairKey{entry.AgencyKey, entry.CityKey}
		for _, rate := range matchesOrNull(rateIdx[k]) {
			for _, cov := range matchesOrNull(covIdx[k]) {
				for _, score := range matchesOrNull(scoreIdx[k]) {
					rec := EnrichedRecord{SpineEntry: entry}
					if rate != nil {
						rec.AgencyMargin = rate.Float("agency_margin")
						rec.VenueName = rate.Get("venue_name")
						rec.EmployerID = rate.Get("platforms.employer_id")
						rec.ClientName = rate.Get("client_name")
					}
					if cov != nil {
						rec.RoleCategory = cov.Get("role_category")
						rec.SupplyCapability = cov.Get("supply_capability")
					}
					if score != nil {
						rec.FulfilledVal = score.Float("fulfilled_val")
						rec.ShiftsRequested = score.Float("shifts_requested")
						rec.ShiftsFilled = score.Float("shifts_filled")
						if rec.EmployerID == "" {
							rec.EmployerID = score.Get("platforms.employer_id")
						}
						if rec.ClientName == "" {
							rec.ClientName = score.Get("client_name")
						}
					}
					rec.PresenceType = classifyPresence(rec.AgencyMargin, rec.RoleCategory)
					out = append(out, rec)
				}
			}
		}
	}

	applyCityAverages(out)
	return out
}

// classifyPresence is a pure function of the two presence signals. First
// matching case wins.
func classifyPresence(margin *float64, roleCategory string) string {
	switch {
	case margin != nil && roleCategory != "":
		return PresenceBoth
	case margin != nil:
		return PresenceRateOnly
	case roleCategory != "":
		return PresenceCoverageOnly
	default:
		return PresenceUnknown
	}
}

// applyCityAverages computes the mean non-null margin per city over the
// enriched population and broadcasts it back to every row of that city. The
// delta propagates nullity from the row's own margin.
func applyCityAverages(records []EnrichedRecord) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		if r.AgencyMargin != nil {
			sums[r.CityKey] += *r.AgencyMargin
			counts[r.CityKey]++
		}
	}

	for i := range records {
		r := &records[i]
		if n := counts[r.CityKey]; n > 0 {
			avg := sums[r.CityKey] / float64(n)
			r.CityAvgMargin = &avg
			if r.AgencyMargin != nil {
				delta := *r.AgencyMargin - avg
				r.MarginVsCityAvg = &delta
			}
		}
	}
}

// indexRows groups every row of the given role by its canonical pair key.
func indexRows(sources []keyedSource, role ingest.Role) map[pairKey][]table.Row {
	idx := make(map[pairKey][]table.Row)
	for _, src := range sources {
		if src.role != role {
			continue
		}
		for _, kr := range src.rows {
			if kr.agencyKey == "" || kr.cityKey == "" {
				continue
			}
			k := pairKey{kr.agencyKey, kr.cityKey}
			idx[k] = append(idx[k], kr.row)
		}
	}
	return idx
}

// matchesOrNull wraps a match list so a missing side contributes exactly one
// null row to the join product.
func matchesOrNull(rows []table.Row) []table.Row {
	if len(rows) == 0 {
		return []table.Row{nil}
	}
	return rows
}
