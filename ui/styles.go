package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Every color adapts to the background lipgloss believes it is on, so a
// theme change is a single lipgloss.SetHasDarkBackground call.
var (
	dimColor     = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	accentColor  = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	successColor = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	warningColor = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}
	dangerColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	borderColor  = lipgloss.AdaptiveColor{Light: "7", Dark: "8"}

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// "↓ New" jump control
	BadgeStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Reverse(true).
			Padding(0, 1)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("↑/↓", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
