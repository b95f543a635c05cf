package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooseKey_Empty(t *testing.T) {
	assert.Equal(t, "", LooseKey(""))
	assert.Equal(t, "", LooseKey("   "))
}

func TestLooseKey_StripsAndLowers(t *testing.T) {
	assert.Equal(t, "abcstaffing", LooseKey("ABC Staffing"))
	assert.Equal(t, "abcstaffingllc", LooseKey("A.B.C. Staffing, LLC!"))
	assert.Equal(t, "austin", LooseKey("  Austin  "))
}

func TestLooseKey_Idempotent(t *testing.T) {
	for _, n := range []string{"ABC Staffing", "Austin, TX", "x-y-z 99"} {
		key := LooseKey(n)
		assert.Equal(t, key, LooseKey(key), "loose key must be a fixed point")
	}
}

func TestStrictKey_StripsSpaces(t *testing.T) {
	assert.Equal(t, "abcstaffing", StrictKey("ABC Staffing"))
	assert.Equal(t, "abcstaffing", StrictKey("abc-staffing"))
}

func TestStrictKey_Idempotent(t *testing.T) {
	for _, n := range []string{"ABC Staffing", "Denver", "Crew 2 Go!"} {
		key := StrictKey(n)
		assert.Equal(t, key, StrictKey(key))
	}
}

func TestKeys_SameEntityDifferentCase(t *testing.T) {
	assert.Equal(t, StrictKey("ABC STAFFING"), StrictKey("abc staffing"))
	assert.Equal(t, LooseKey("ABC STAFFING"), LooseKey("abc staffing"))
}
