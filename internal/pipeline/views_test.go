package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []AggregatedRecord {
	return []AggregatedRecord{
		{AgencyName: "Acme", City: "Austin", PresenceTypes: PresenceBoth,
			AgencyMargin: f(20), CityAvgMargin: f(15), MarginVsCityAvg: f(5),
			VenueCount: 2, EmployerIDs: "E1, E2", EmployerIDList: []string{"E1", "E2"}},
		{AgencyName: "Crew", City: "Austin", PresenceTypes: PresenceRateOnly,
			AgencyMargin: f(10), CityAvgMargin: f(15), MarginVsCityAvg: f(-5),
			VenueCount: 1, EmployerIDs: "E3", EmployerIDList: []string{"E3"}},
		{AgencyName: "Acme", City: "Denver", PresenceTypes: PresenceCoverageOnly},
	}
}

func TestFilters_AllSentinelMeansNoNarrowing(t *testing.T) {
	records := sampleRecords()
	assert.Len(t, Filters{}.Apply(records), 3)
	assert.Len(t, Filters{Cities: []string{AllSentinel}}.Apply(records), 3)
	assert.Len(t, Filters{Agencies: []string{AllSentinel}, ClientID: AllSentinel}.Apply(records), 3)
}

func TestFilters_NarrowByCityAndAgency(t *testing.T) {
	records := sampleRecords()

	austin := Filters{Cities: []string{"Austin"}}.Apply(records)
	assert.Len(t, austin, 2)

	acmeAustin := Filters{Cities: []string{"Austin"}, Agencies: []string{"Acme"}}.Apply(records)
	require.Len(t, acmeAustin, 1)
	assert.Equal(t, "Acme", acmeAustin[0].AgencyName)
}

func TestFilters_ClientID(t *testing.T) {
	records := sampleRecords()
	got := Filters{ClientID: "E2"}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].AgencyName)
	assert.Equal(t, "Austin", got[0].City)
}

func TestFilters_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	_ = Filters{Cities: []string{"Austin"}}.Apply(records)
	assert.Len(t, records, 3)
}

func TestCoverageView_SortOrder(t *testing.T) {
	out := CoverageView(sampleRecords())
	require.Len(t, out, 3)
	// Austin before Denver; within Austin, presence ascending puts
	// "Rate Card + Coverage" before "Rate Card Only".
	assert.Equal(t, "Austin", out[0].City)
	assert.Equal(t, PresenceBoth, out[0].PresenceTypes)
	assert.Equal(t, PresenceRateOnly, out[1].PresenceTypes)
	assert.Equal(t, "Denver", out[2].City)
}

func TestCoverageView_MarginDescWithinTie(t *testing.T) {
	records := []AggregatedRecord{
		{AgencyName: "A", City: "Austin", PresenceTypes: PresenceRateOnly, AgencyMargin: f(5)},
		{AgencyName: "B", City: "Austin", PresenceTypes: PresenceRateOnly, AgencyMargin: f(9)},
		{AgencyName: "C", City: "Austin", PresenceTypes: PresenceRateOnly},
	}
	out := CoverageView(records)
	assert.Equal(t, "B", out[0].AgencyName)
	assert.Equal(t, "A", out[1].AgencyName)
	// Null margin sorts last.
	assert.Equal(t, "C", out[2].AgencyName)
}

func TestBuildAgencyView_Metrics(t *testing.T) {
	view := BuildAgencyView(sampleRecords(), "Acme")
	assert.Equal(t, 2, view.CitiesAnyPresence)
	assert.Equal(t, 1, view.CitiesWithRates)
	require.NotNil(t, view.AvgMargin)
	assert.Equal(t, 20.0, *view.AvgMargin)
	require.NotNil(t, view.AvgVsCityAvg)
	assert.Equal(t, 5.0, *view.AvgVsCityAvg)
	require.Len(t, view.Breakdown, 2)
	// Non-null delta first.
	assert.Equal(t, "Austin", view.Breakdown[0].City)
	require.NotNil(t, view.Breakdown[0].Delta)
	assert.Equal(t, 5.0, *view.Breakdown[0].Delta)
	assert.Nil(t, view.Breakdown[1].Delta)
}

func TestBuildAgencyView_NoRows(t *testing.T) {
	view := BuildAgencyView(sampleRecords(), "Nobody")
	assert.Equal(t, 0, view.CitiesAnyPresence)
	assert.Nil(t, view.AvgMargin)
	assert.Empty(t, view.Breakdown)
}

func TestBuildCityView_MetricsAndRanking(t *testing.T) {
	view := BuildCityView(sampleRecords(), "Austin")
	assert.Equal(t, 2, view.AgencyCount)
	assert.Equal(t, 0, view.CoverageOnly)
	require.NotNil(t, view.CityAvgMargin)
	assert.Equal(t, 15.0, *view.CityAvgMargin)

	require.Len(t, view.Ranking, 2)
	assert.Equal(t, "Acme", view.Ranking[0].AgencyName)
	assert.Equal(t, 1, view.Ranking[0].Rank)
	assert.Equal(t, "Crew", view.Ranking[1].AgencyName)
	assert.Equal(t, 2, view.Ranking[1].Rank)
}

func TestBuildCityView_DenseRankTiesAndNulls(t *testing.T) {
	records := []AggregatedRecord{
		{AgencyName: "A", City: "C", AgencyMargin: f(9)},
		{AgencyName: "B", City: "C", AgencyMargin: f(9)},
		{AgencyName: "D", City: "C", AgencyMargin: f(5)},
		{AgencyName: "E", City: "C", PresenceTypes: PresenceCoverageOnly},
	}
	view := BuildCityView(records, "C")
	assert.Equal(t, 1, view.CoverageOnly)

	ranks := map[string]int{}
	for _, r := range view.Ranking {
		ranks[r.AgencyName] = r.Rank
	}
	assert.Equal(t, 1, ranks["A"])
	assert.Equal(t, 1, ranks["B"])
	assert.Equal(t, 2, ranks["D"], "dense rank leaves no gap after a tie")
	assert.Equal(t, 0, ranks["E"], "no margin, no rank")
	// Unranked agency sorts last.
	assert.Equal(t, "E", view.Ranking[len(view.Ranking)-1].AgencyName)
}
