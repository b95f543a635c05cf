// Package resolve canonicalizes free-text agency and city names and groups
// name variants into master identities.
package resolve

import (
	"regexp"
	"strings"
)

var (
	looseStripRe  = regexp.MustCompile(`[^a-z0-9 ]`)
	strictStripRe = regexp.MustCompile(`[^a-z0-9]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// LooseKey canonicalizes a display name by:
//  1. Lower-casing
//  2. Stripping every character outside [a-z0-9 ]
//  3. Collapsing internal whitespace, then removing it entirely
//
// Empty or missing input yields "". Idempotent: a key normalizes to itself.
func LooseKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = looseStripRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, "")
	return name
}

// StrictKey canonicalizes a display name by lower-casing and stripping every
// non-alphanumeric character, spaces included. Used as the grouping key for
// identity resolution.
func StrictKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return strictStripRe.ReplaceAllString(name, "")
}
