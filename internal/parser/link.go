package parser

import (
	"net/url"
	"strings"
)

// ShouldIgnore reports whether a discovered href is not worth fetching:
// empty values, bare fragments, javascript: and mailto: targets, and
// anything mentioning "print" (print views duplicate page content).
func ShouldIgnore(href string) bool {
	if href == "" {
		return true
	}
	if strings.HasPrefix(href, "#") {
		return true
	}
	if strings.HasPrefix(href, "javascript:") {
		return true
	}
	if strings.HasPrefix(href, "mailto:") {
		return true
	}
	if strings.Contains(strings.ToLower(href), "print") {
		return true
	}
	return false
}

// IsAbsolute reports whether href already carries an http or https scheme.
func IsAbsolute(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// Resolve merges a possibly-relative href against base. It is best-effort:
// if either side fails to parse, the raw href comes back unchanged rather
// than failing the caller.
func Resolve(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ref).String()
}
