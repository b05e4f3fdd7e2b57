package util

import "strings"

// FirstLine returns s up to, not including, the first newline, with
// surrounding whitespace removed.
func FirstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
