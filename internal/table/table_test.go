package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat_Plain(t *testing.T) {
	v := ParseFloat("12.5")
	if assert.NotNil(t, v) {
		assert.Equal(t, 12.5, *v)
	}
}

func TestParseFloat_Decorated(t *testing.T) {
	v := ParseFloat("$1,200.50")
	if assert.NotNil(t, v) {
		assert.Equal(t, 1200.5, *v)
	}
	v = ParseFloat("85%")
	if assert.NotNil(t, v) {
		assert.Equal(t, 85.0, *v)
	}
}

func TestParseFloat_Garbage(t *testing.T) {
	assert.Nil(t, ParseFloat(""))
	assert.Nil(t, ParseFloat("  "))
	assert.Nil(t, ParseFloat("n/a"))
	assert.Nil(t, ParseFloat("12.5.3"))
}

func TestEnsureColumns(t *testing.T) {
	tbl := New("agency_name", "city")
	tbl.EnsureColumns("role_category", "city")
	assert.Equal(t, []string{"agency_name", "city", "role_category"}, tbl.Headers)
}

func TestRowGetAndFloat(t *testing.T) {
	r := Row{"agency_margin": " 10 ", "city": " Austin "}
	assert.Equal(t, "Austin", r.Get("city"))
	assert.Equal(t, "", r.Get("missing"))
	if v := r.Float("agency_margin"); assert.NotNil(t, v) {
		assert.Equal(t, 10.0, *v)
	}
	assert.Nil(t, r.Float("missing"))
}
