// Package util provides common utility functions used across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// This is safe for use in shell commands where the string should be treated literally.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// QuoteArg quotes s only when a POSIX shell would otherwise split or expand
// it. Plain words like "-A" or "core@10.0.0.5" pass through unchanged.
func QuoteArg(s string) string {
	if s == "" {
		return "''"
	}
	for _, r := range s {
		if !isShellSafe(r) {
			return ShellQuote(s)
		}
	}
	return s
}

// QuoteArgs applies QuoteArg to every element. The result is meant to be
// passed as the trailing arguments of an ssh invocation, which the remote
// shell joins and re-parses.
func QuoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = QuoteArg(a)
	}
	return out
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("@%+=:,./-_", r)
}
