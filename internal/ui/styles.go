package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
)

// RenderError colors the headline of a formatted error. The remaining lines
// are left as they are.
func RenderError(formatted string) string {
	head, rest, found := strings.Cut(formatted, "\n")
	out := errorStyle.Render(head)
	if found {
		out += "\n" + rest
	}
	return out
}

// RenderWarning prefixes msg with the warning symbol.
func RenderWarning(msg string) string {
	return warningStyle.Render(SymbolWarn + " " + msg)
}
