// Package pipeline implements the reconciliation core: spine construction
// over resolved identities, left-join enrichment with derived metrics, and
// per-field aggregation to one row per agency and city.
package pipeline

// Presence classification values, in evaluation priority order.
const (
	PresenceBoth         = "Rate Card + Coverage"
	PresenceRateOnly     = "Rate Card Only"
	PresenceCoverageOnly = "Coverage Only"
	PresenceUnknown      = "Unknown"
)

// SpineEntry is one unique (agency, city) pair observed in any source, keyed
// by loose canonical keys with master display names attached.
type SpineEntry struct {
	AgencyKey  string
	CityKey    string
	AgencyName string
	CityName   string
}

// EnrichedRecord is a spine entry extended with matched source facts and
// derived metrics. Pointer fields are null when the contributing side had no
// match or the cell did not parse.
type EnrichedRecord struct {
	SpineEntry

	// Rate-card facts.
	AgencyMargin *float64
	VenueName    string
	EmployerID   string
	ClientName   string

	// Coverage facts.
	RoleCategory     string
	SupplyCapability string

	// Scorecard facts.
	FulfilledVal    *float64
	ShiftsRequested *float64
	ShiftsFilled    *float64

	// Derived.
	PresenceType    string
	CityAvgMargin   *float64
	MarginVsCityAvg *float64
}

// AggregatedRecord is one output row per (agency master name, city master
// name). Tags define the CSV export schema.
type AggregatedRecord struct {
	AgencyName         string   `csv:"agency_name"`
	City               string   `csv:"city"`
	PresenceTypes      string   `csv:"presence_types"`
	AgencyMargin       *float64 `csv:"agency_margin"`
	CityAvgMargin      *float64 `csv:"city_avg_margin"`
	MarginVsCityAvg    *float64 `csv:"margin_vs_city_avg"`
	AvgFulfillment     *float64 `csv:"avg_fulfillment"`
	ShiftsRequested    *float64 `csv:"shifts_requested"`
	ShiftsFilled       *float64 `csv:"shifts_filled"`
	VenueCount         int      `csv:"venue_count"`
	RoleCategories     string   `csv:"role_categories"`
	SupplyCapabilities string   `csv:"supply_capabilities"`
	EmployerIDs        string   `csv:"employer_ids"`
	ClientList         string   `csv:"client_list"`

	// EmployerIDList mirrors EmployerIDs as a structured set. Ids can contain
	// commas, so consumers never split the display string.
	EmployerIDList []string `csv:"-"`
}

// Report bundles a pipeline run's aggregated table with the filter option
// domains the view layer offers.
type Report struct {
	RunID     string             `json:"run_id"`
	Records   []AggregatedRecord `json:"records"`
	Cities    []string           `json:"cities"`
	Agencies  []string           `json:"agencies"`
	ClientIDs []string           `json:"client_ids"`
}
