package pipeline

import (
	"sort"
)

// AllSentinel is the filter value meaning "no narrowing".
const AllSentinel = "All"

// Filters narrows the aggregated table before projection. Zero-value fields
// and the sentinel both mean no filter on that dimension. Filtering never
// mutates the underlying table.
type Filters struct {
	Cities   []string
	Agencies []string
	ClientID string
}

// Apply returns the records passing every active filter.
func (f Filters) Apply(records []AggregatedRecord) []AggregatedRecord {
	cities := activeSet(f.Cities)
	agencies := activeSet(f.Agencies)
	clientActive := f.ClientID != "" && f.ClientID != AllSentinel

	out := make([]AggregatedRecord, 0, len(records))
	for _, r := range records {
		if cities != nil && !cities[r.City] {
			continue
		}
		if agencies != nil && !agencies[r.AgencyName] {
			continue
		}
		if clientActive && !containsString(r.EmployerIDList, f.ClientID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// activeSet returns nil when the selection means "All".
func activeSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		if v == AllSentinel {
			return nil
		}
		set[v] = true
	}
	return set
}

func containsString(vals []string, val string) bool {
	for _, v := range vals {
		if v == val {
			return true
		}
	}
	return false
}

// CoverageView sorts the aggregated table for the market overview: city
// ascending, presence ascending, margin descending with nulls last.
func CoverageView(records []AggregatedRecord) []AggregatedRecord {
	out := append([]AggregatedRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		if out[i].PresenceTypes != out[j].PresenceTypes {
			return out[i].PresenceTypes < out[j].PresenceTypes
		}
		return floatDesc(out[i].AgencyMargin, out[j].AgencyMargin)
	})
	return out
}

// AgencyView summarizes one agency's footprint across cities.
type AgencyView struct {
	Agency            string          `json:"agency"`
	CitiesAnyPresence int             `json:"cities_any_presence"`
	CitiesWithRates   int             `json:"cities_with_rate_cards"`
	AvgMargin         *float64        `json:"avg_margin"`
	AvgVsCityAvg      *float64        `json:"avg_vs_city_avg"`
	Breakdown         []AgencyCityRow `json:"breakdown"`
}

// AgencyCityRow is one city in the agency breakdown.
type AgencyCityRow struct {
	City      string   `json:"city"`
	Presence  string   `json:"presence"`
	AvgMargin *float64 `json:"avg_margin"`
	CityAvg   *float64 `json:"city_avg"`
	Delta     *float64 `json:"delta"`
}

// BuildAgencyView projects the aggregated table for a single agency,
// breakdown sorted by delta descending with nulls last.
func BuildAgencyView(records []AggregatedRecord, agency string) AgencyView {
	view := AgencyView{Agency: agency}
	var margins, deltas []*float64

	for _, r := range records {
		if r.AgencyName != agency {
			continue
		}
		view.CitiesAnyPresence++
		if r.AgencyMargin != nil {
			view.CitiesWithRates++
		}
		margins = append(margins, r.AgencyMargin)
		deltas = append(deltas, r.MarginVsCityAvg)

		var delta *float64
		if r.AgencyMargin != nil && r.CityAvgMargin != nil {
			d := *r.AgencyMargin - *r.CityAvgMargin
			delta = &d
		}
		view.Breakdown = append(view.Breakdown, AgencyCityRow{
			City:      r.City,
			Presence:  r.PresenceTypes,
			AvgMargin: r.AgencyMargin,
			CityAvg:   r.CityAvgMargin,
			Delta:     delta,
		})
	}

	view.AvgMargin = meanPtr(margins)
	view.AvgVsCityAvg = meanPtr(deltas)
	sort.SliceStable(view.Breakdown, func(i, j int) bool {
		return floatDesc(view.Breakdown[i].Delta, view.Breakdown[j].Delta)
	})
	return view
}

// CityView summarizes one city's agency market.
type CityView struct {
	City          string          `json:"city"`
	AgencyCount   int             `json:"agency_count"`
	CoverageOnly  int             `json:"coverage_only"`
	CityAvgMargin *float64        `json:"city_avg_margin"`
	Ranking       []CityAgencyRow `json:"ranking"`
}

// CityAgencyRow is one agency in the city ranking. Rank is dense over
// descending margin; agencies without a margin carry rank 0 and sort last.
type CityAgencyRow struct {
	AgencyName string   `json:"agency_name"`
	Presence   string   `json:"presence"`
	AvgMargin  *float64 `json:"avg_margin"`
	Venues     int      `json:"venues"`
	Rank       int      `json:"rank"`
}

// BuildCityView projects the aggregated table for a single city.
func BuildCityView(records []AggregatedRecord, city string) CityView {
	view := CityView{City: city}
	var margins []*float64

	for _, r := range records {
		if r.City != city {
			continue
		}
		view.AgencyCount++
		if r.PresenceTypes == PresenceCoverageOnly {
			view.CoverageOnly++
		}
		margins = append(margins, r.AgencyMargin)
		view.Ranking = append(view.Ranking, CityAgencyRow{
			AgencyName: r.AgencyName,
			Presence:   r.PresenceTypes,
			AvgMargin:  r.AgencyMargin,
			Venues:     r.VenueCount,
		})
	}
	view.CityAvgMargin = meanPtr(margins)

	assignDenseRanks(view.Ranking)
	sort.SliceStable(view.Ranking, func(i, j int) bool {
		ri, rj := view.Ranking[i].Rank, view.Ranking[j].Rank
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})
	return view
}

// assignDenseRanks gives equal margins equal rank with no gaps.
func assignDenseRanks(rows []CityAgencyRow) {
	var distinct []float64
	seen := make(map[float64]bool)
	for _, r := range rows {
		if r.AvgMargin != nil && !seen[*r.AvgMargin] {
			seen[*r.AvgMargin] = true
			distinct = append(distinct, *r.AvgMargin)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	rank := make(map[float64]int, len(distinct))
	for i, m := range distinct {
		rank[m] = i + 1
	}
	for i := range rows {
		if rows[i].AvgMargin != nil {
			rows[i].Rank = rank[*rows[i].AvgMargin]
		}
	}
}

// floatDesc orders descending with nulls last.
func floatDesc(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a > *b
}

// meanPtr averages the non-null values, null for an empty set.
func meanPtr(vals []*float64) *float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if v != nil {
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
