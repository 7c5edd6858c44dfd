package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeName collapses any run of whitespace to a single space and trims.
// Catalog keys and parsed item names go through the same rule so exact
// lookups line up.
func NormalizeName(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
