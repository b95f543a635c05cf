package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/agency-intel/internal/table"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "agency_name", NormalizeHeader("Agency Name"))
	assert.Equal(t, "fulfilled%", NormalizeHeader(" Fulfilled% "))
	assert.Equal(t, "venue_city", NormalizeHeader("Venue   City"))
}

func TestStandardize_RenamesSynonyms(t *testing.T) {
	in := table.New("Brand", "Venue City", "Agency Margin")
	in.Append(table.Row{"Brand": "Acme", "Venue City": "Austin", "Agency Margin": "12"})

	out := Standardize(in, DefaultSynonyms)
	assert.Equal(t, []string{"agency_name", "city", "agency_margin"}, out.Headers)
	assert.Equal(t, "Acme", out.Rows[0].Get("agency_name"))
	assert.Equal(t, "Austin", out.Rows[0].Get("city"))
}

func TestStandardize_UnknownHeaderKept(t *testing.T) {
	in := table.New("Mystery Column")
	in.Append(table.Row{"Mystery Column": "x"})

	out := Standardize(in, DefaultSynonyms)
	assert.Equal(t, []string{"mystery_column"}, out.Headers)
	assert.Equal(t, "x", out.Rows[0].Get("mystery_column"))
}

func TestStandardize_NeverSynthesizes(t *testing.T) {
	in := table.New("brand")
	out := Standardize(in, DefaultSynonyms)
	assert.Equal(t, []string{"agency_name"}, out.Headers)
	assert.False(t, out.HasColumn("city"))
}

func TestStandardize_FirstHeaderWinsCollision(t *testing.T) {
	in := table.New("brand", "vendor")
	in.Append(table.Row{"brand": "Acme", "vendor": "Other"})

	out := Standardize(in, DefaultSynonyms)
	assert.Equal(t, []string{"agency_name"}, out.Headers)
	assert.Equal(t, "Acme", out.Rows[0].Get("agency_name"))
}

func TestStandardize_InputUntouched(t *testing.T) {
	in := table.New("brand")
	in.Append(table.Row{"brand": "Acme"})
	_ = Standardize(in, DefaultSynonyms)
	assert.Equal(t, []string{"brand"}, in.Headers)
	assert.Equal(t, "Acme", in.Rows[0].Get("brand"))
}
