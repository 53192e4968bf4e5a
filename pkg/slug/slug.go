// Package slug turns display names into filesystem-safe identifiers.
package slug

import "strings"

var replacer = strings.NewReplacer(" ", "-", "/", "-", ".", "-")

// Make lowercases s and replaces spaces, slashes and dots with dashes.
// Distinct inputs may collapse to the same slug.
func Make(s string) string {
	return replacer.Replace(strings.ToLower(s))
}
