package parser

import (
	"regexp"
	"strings"
)

var (
	nonKeyChar = regexp.MustCompile(`[^a-z0-9]`)
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
)

// CategoryKey derives the key of a category created by hand. Every
// character outside [a-z0-9] becomes a hyphen.
func CategoryKey(name string) string {
	return nonKeyChar.ReplaceAllString(strings.ToLower(name), "-")
}

// Slugify lower-cases title and joins its alphanumeric runs with hyphens.
func Slugify(title string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(title), "-"), "-")
}
