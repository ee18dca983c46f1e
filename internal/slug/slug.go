// Package slug derives URL-safe identifiers from display names. Every
// entity addressable by URL (posts, categories, tags) stores a slug
// derived from its name; derivation is deterministic so a rename can
// recompute it in place.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything that isn't a lowercase letter, digit,
	// whitespace, or hyphen.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRuns matches one or more whitespace characters of any kind.
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// hyphenRuns collapses consecutive hyphens into one.
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Make derives a lowercase, hyphenated slug from a display name.
// Example: "How to Deploy Go Apps (2026)" → "how-to-deploy-go-apps-2026".
// The same name always produces the same slug.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
