package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const splashArt = `  ___ _                           ___            _ _     _
 | __(_)_ _  __ _ _ _  __ ___    / __|___ _ __ (_) |___| |_
 | _|| | ' \/ _' | ' \/ _/ -_)  | (__/ _ \ '_ \| | / _ \  _|
 |_| |_|_||_\__,_|_||_\__\___|   \___\___/ .__/|_|_\___/\__|
                                          |_|`

// splashPoints are shown under the art on first launch
var splashPoints = []string{
	"Ask questions about your spending in plain language",
	"Replies come from your Finance Copilot backend",
	"Nothing is stored on this machine",
}

func (a AppView) renderSplash(width, height int) string {
	var sb strings.Builder

	sb.WriteString(UserStyle.Render(splashArt))
	sb.WriteString("\n\n")
	sb.WriteString(AssistantStyle.Render(appTagline))
	sb.WriteString("\n\n")

	for _, point := range splashPoints {
		sb.WriteString(DimStyle.Render("• " + point))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	label := AssistantStyle.Bold(true)
	if a.dataModel.Version != "" {
		sb.WriteString(label.Render("Version: ") + a.dataModel.Version + "\n")
	}
	if a.dataModel.License != "" {
		sb.WriteString(label.Render("License: ") + a.dataModel.License + "\n")
	}
	sb.WriteString(label.Render("Backend: ") + a.dataModel.Config.Endpoint + "\n\n")

	sb.WriteString(DimStyle.Render("Press Enter to start chatting"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 3)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(sb.String()))
}
