package strx

import "strings"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Fold lowercases and trims s; console verbs and button names go through it.
func Fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
