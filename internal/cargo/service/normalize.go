package service

import "strings"

// NormalizeKey trims, collapses inner whitespace and case-folds a cargo
// identifier. Applied to the dataset at load time and to every incoming
// query value. Both sides must go through the same pipeline or lookups
// produce false negatives.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
