package pipeline

import (
	"sort"
	"strings"

	"github.com/sells-group/agency-intel/internal/ingest"
)

// aggregate collapses enriched rows to one record per (agency master name,
// city master name). Reductions are per-field: means and sums over non-null
// values (empty set yields null, never zero), distinct counts for venues, and
// sorted-unique joins for categorical fields. Group order follows first
// appearance in the enriched table.
func aggregate(enriched []EnrichedRecord, clients map[string]string) []AggregatedRecord {
	type groupKey struct{ agency, city string }

	var order []groupKey
	groups := make(map[groupKey][]EnrichedRecord)
	for _, r := range enriched {
		k := groupKey{r.AgencyName, r.CityName}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]AggregatedRecord, 0, len(order))
	for _, k := range order {
		rows := groups[k]
		rec := AggregatedRecord{
			AgencyName:      k.agency,
			City:            k.city,
			AgencyMargin:    meanOf(rows, func(r EnrichedRecord) *float64 { return r.AgencyMargin }),
			CityAvgMargin:   meanOf(rows, func(r EnrichedRecord) *float64 { return r.CityAvgMargin }),
			MarginVsCityAvg: meanOf(rows, func(r EnrichedRecord) *float64 { return r.MarginVsCityAvg }),
			AvgFulfillment:  meanOf(rows, func(r EnrichedRecord) *float64 { return r.FulfilledVal }),
			ShiftsRequested: sumOf(rows, func(r EnrichedRecord) *float64 { return r.ShiftsRequested }),
			ShiftsFilled:    sumOf(rows, func(r EnrichedRecord) *float64 { return r.ShiftsFilled }),
			VenueCount:      distinctCount(rows, func(r EnrichedRecord) string { return r.VenueName }),
			PresenceTypes:   joinDistinct(rows, func(r EnrichedRecord) string { return r.PresenceType }),
			RoleCategories:  joinDistinct(rows, func(r EnrichedRecord) string { return r.RoleCategory }),
			SupplyCapabilities: joinDistinct(rows,
				func(r EnrichedRecord) string { return r.SupplyCapability }),
		}
		ids := distinctValues(rows, func(r EnrichedRecord) string { return r.EmployerID })
		rec.EmployerIDs = strings.Join(ids, ", ")
		rec.EmployerIDList = ids
		rec.ClientList = resolveClients(ids, clients)
		out = append(out, rec)
	}
	return out
}

// buildClientLookup inner-joins rate-card and scorecard rows sharing the
// same agency and city to map employer ids to client names. Coverage rows
// never contribute, whatever columns they happen to carry. The first name
// seen for an id wins.
func buildClientLookup(sources []keyedSource) map[string]string {
	type cell struct {
		ids   []string
		names []string
	}
	joined := make(map[pairKey]*cell)

	for _, src := range sources {
		if src.role != ingest.RoleRateCard && src.role != ingest.RoleScorecard {
			continue
		}
		for _, kr := range src.rows {
			if kr.agencyKey == "" || kr.cityKey == "" {
				continue
			}
			id := kr.row.Get("platforms.employer_id")
			name := kr.row.Get("client_name")
			if id == "" && name == "" {
				continue
			}
			k := pairKey{kr.agencyKey, kr.cityKey}
			c, ok := joined[k]
			if !ok {
				c = &cell{}
				joined[k] = c
			}
			if id != "" {
				c.ids = append(c.ids, id)
			}
			if name != "" {
				c.names = append(c.names, name)
			}
		}
	}

	lookup := make(map[string]string)
	for _, c := range joined {
		for _, id := range c.ids {
			if _, ok := lookup[id]; ok {
				continue
			}
			if len(c.names) > 0 {
				lookup[id] = c.names[0]
			}
		}
	}
	return lookup
}

// resolveClients maps the distinct employer ids through the lookup, falling
// back to the raw id when unresolved, and joins sorted and deduplicated.
func resolveClients(ids []string, clients map[string]string) string {
	seen := make(map[string]bool)
	var names []string
	for _, id := range ids {
		name, ok := clients[id]
		if !ok {
			name = id
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func meanOf(rows []EnrichedRecord, get func(EnrichedRecord) *float64) *float64 {
	sum, n := 0.0, 0
	for _, r := range rows {
		if v := get(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func sumOf(rows []EnrichedRecord, get func(EnrichedRecord) *float64) *float64 {
	sum, n := 0.0, 0
	for _, r := range rows {
		if v := get(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return &sum
}

func distinctCount(rows []EnrichedRecord, get func(EnrichedRecord) string) int {
	seen := make(map[string]bool)
	for _, r := range rows {
		if v := strings.TrimSpace(get(r)); v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}

// joinDistinct reduces a categorical field to a sorted, deduplicated,
// comma-joined string of its non-blank values.
func joinDistinct(rows []EnrichedRecord, get func(EnrichedRecord) string) string {
	return strings.Join(distinctValues(rows, get), ", ")
}

func distinctValues(rows []EnrichedRecord, get func(EnrichedRecord) string) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, r := range rows {
		v := strings.TrimSpace(get(r))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}
