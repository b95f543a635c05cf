package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agency-intel/internal/pipeline"
)

func TestSingleSelection(t *testing.T) {
	got, err := singleSelection([]string{"Austin"}, "city")
	require.NoError(t, err)
	assert.Equal(t, "Austin", got)

	_, err = singleSelection(nil, "city")
	assert.Error(t, err)

	_, err = singleSelection([]string{"Austin", "Denver"}, "city")
	assert.Error(t, err)

	_, err = singleSelection([]string{pipeline.AllSentinel}, "city")
	assert.Error(t, err)
}

func TestProjectView_UnknownView(t *testing.T) {
	reportView = "pivot"
	defer func() { reportView = "table" }()

	_, err := projectView(nil)
	assert.Error(t, err)
}

func TestProjectView_Table(t *testing.T) {
	reportView = "table"
	records := []pipeline.AggregatedRecord{{AgencyName: "Acme", City: "Austin"}}

	out, err := projectView(records)
	require.NoError(t, err)
	assert.Equal(t, records, out)
}

func TestProjectView_AgencyNeedsSelection(t *testing.T) {
	reportView = "agency"
	reportAgencies = nil
	defer func() { reportView = "table" }()

	_, err := projectView(nil)
	assert.Error(t, err)

	reportAgencies = []string{"Acme"}
	defer func() { reportAgencies = nil }()
	out, err := projectView([]pipeline.AggregatedRecord{{AgencyName: "Acme", City: "Austin"}})
	require.NoError(t, err)
	view, ok := out.(pipeline.AgencyView)
	require.True(t, ok)
	assert.Equal(t, "Acme", view.Agency)
}
