package resolve

import (
	"github.com/agext/levenshtein"
)

// DefaultFuzzyThreshold is the minimum 0-100 ratio for an approximate match
// to be accepted.
const DefaultFuzzyThreshold = 85

// indelParams scores substitutions as a delete plus an insert, which makes
// Distance the insert/delete edit distance. Ratio built on it matches the
// classic sequence-matcher scale.
var indelParams = levenshtein.NewParams().SubCost(2)

// Ratio returns a 0-100 similarity between two canonical keys: 100 * (1 -
// indelDistance / (len(a) + len(b))).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := levenshtein.Distance(a, b, indelParams)
	return 100 * (1 - float64(dist)/float64(total))
}

// Matcher resolves target keys against a fixed candidate pool. Lookups are
// memoized per target key, so repeated rows cost one scan each.
type Matcher struct {
	pool      []string
	threshold float64
	memo      map[string]string
}

// NewMatcher builds a matcher over the candidate pool. Pool order is
// significant: ties on the top score go to the first candidate seen.
func NewMatcher(pool []string, threshold float64) *Matcher {
	return &Matcher{
		pool:      append([]string(nil), pool...),
		threshold: threshold,
		memo:      make(map[string]string),
	}
}

// Best returns the highest-scoring pool candidate for the target key, or ""
// when no candidate reaches the threshold. An empty target never matches.
func (m *Matcher) Best(target string) string {
	if target == "" || len(m.pool) == 0 {
		return ""
	}
	if hit, ok := m.memo[target]; ok {
		return hit
	}

	best := ""
	bestScore := 0.0
	for _, cand := range m.pool {
		if score := Ratio(target, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore < m.threshold {
		best = ""
	}
	m.memo[target] = best
	return best
}
