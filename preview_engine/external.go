package preview_engine

import (
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// externalPrefixes are reference shapes the resolver must never treat as
// project files: absolute URLs, protocol-relative URLs, pseudo-schemes, and
// same-document fragments.
var externalPrefixes = []string{
	"//",
	"#",
	"data:",
	"blob:",
	"mailto:",
	"tel:",
	"javascript:",
	"about:",
}

// IsExternalRef reports whether a raw reference points outside the project
// snapshot. External references are skipped intentionally and never count
// as unresolved.
func IsExternalRef(ref string) bool {
	r := strings.TrimSpace(ref)
	if r == "" {
		return true
	}
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return schemeRe.MatchString(r)
}

// cdnRule remaps one known-broken hallucinated CDN URL pattern. Generated
// projects routinely reference versioned or non-existent CDN builds; the
// table substitutes a working mirror or drops the tag entirely.
type cdnRule struct {
	contains string
	replace  string
	drop     bool
}

var cdnRules = []cdnRule{
	// Tailwind has no standalone stylesheet build; the Play CDN script is
	// the only thing that actually exists.
	{contains: "unpkg.com/tailwindcss", replace: "https://cdn.tailwindcss.com"},
	{contains: "cdn.jsdelivr.net/npm/tailwindcss", replace: "https://cdn.tailwindcss.com"},
	{contains: "cdn.tailwindcss.com/3", replace: "https://cdn.tailwindcss.com"},
	// Raw GitHub content is served as text/plain and refuses to execute.
	{contains: "raw.githubusercontent.com", drop: true},
	// "@latest" pins do not exist on jsdelivr; the bare package name does.
	{contains: "cdn.jsdelivr.net/npm/chart.js@latest", replace: "https://cdn.jsdelivr.net/npm/chart.js"},
	{contains: "unpkg.com/feather-icons@latest", replace: "https://unpkg.com/feather-icons"},
}

// NormalizeExternalURL applies the CDN remap table. It returns the URL to
// use, whether the element should be dropped instead, and whether anything
// changed (callers strip integrity attributes on change).
func NormalizeExternalURL(raw string) (string, bool, bool) {
	for _, rule := range cdnRules {
		if !strings.Contains(raw, rule.contains) {
			continue
		}
		if rule.drop {
			return "", true, true
		}
		if raw == rule.replace {
			return raw, false, false
		}
		return rule.replace, false, true
	}
	return raw, false, false
}
