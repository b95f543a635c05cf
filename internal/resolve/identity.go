package resolve

import (
	"strings"
	"unicode"
)

// ResolveNames maps every raw display name to one master display name per
// strict-key group.
//
// Selection order within a group:
//  1. Manual override for the group's canonical key, when configured.
//  2. The variant with the most words, then the most upper-case characters,
//     on the bet that the fullest written form beats abbreviations.
//     Remaining ties go to the variant encountered first.
//
// Blank names are excluded entirely; they never appear as keys or values.
func ResolveNames(names []string, overrides map[string]string) map[string]string {
	type group struct {
		key      string
		variants []string
	}

	var order []string
	groups := make(map[string]*group)
	seen := make(map[string]bool)

	for _, raw := range names {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key := StrictKey(raw)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		if !seen[key+"\x00"+raw] {
			seen[key+"\x00"+raw] = true
			g.variants = append(g.variants, raw)
		}
	}

	masters := make(map[string]string, len(seen))
	for _, key := range order {
		g := groups[key]
		master, ok := overrides[key]
		if !ok {
			master = fullestVariant(g.variants)
		}
		for _, v := range g.variants {
			masters[v] = master
		}
	}
	return masters
}

// fullestVariant picks the variant maximizing (word count, upper-case count),
// first encountered wins ties.
func fullestVariant(variants []string) string {
	best := variants[0]
	bestWords, bestUpper := wordCount(best), upperCount(best)
	for _, v := range variants[1:] {
		w, u := wordCount(v), upperCount(v)
		if w > bestWords || (w == bestWords && u > bestUpper) {
			best, bestWords, bestUpper = v, w, u
		}
	}
	return best
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func upperCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}
