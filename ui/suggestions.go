package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// SuggestionsState backs the example-prompt picker
type SuggestionsState struct {
	active   bool
	input    textinput.Model
	matches  []string
	selected int
}

func newSuggestionsState() SuggestionsState {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.CharLimit = 64
	return SuggestionsState{input: input}
}

// filterSuggestions ranks items against query, best match first. An empty
// query keeps the configured order.
func filterSuggestions(query string, items []string) []string {
	if query == "" {
		return append([]string(nil), items...)
	}

	found := fuzzy.Find(query, items)
	out := make([]string, 0, len(found))
	for _, m := range found {
		out = append(out, m.Str)
	}
	return out
}

func (a *AppView) openSuggestions() {
	if len(a.dataModel.Config.Suggestions) == 0 {
		return
	}
	a.suggestions.active = true
	a.suggestions.selected = 0
	a.suggestions.input.Reset()
	a.suggestions.input.Focus()
	a.suggestions.matches = filterSuggestions("", a.dataModel.Config.Suggestions)
	a.textarea.Blur()
}

func (a *AppView) closeSuggestions() {
	a.suggestions.active = false
	a.suggestions.input.Blur()
	a.textarea.Focus()
}

func (a AppView) handleSuggestionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeSuggestions()
		return a, nil

	case "up", "ctrl+p":
		if a.suggestions.selected > 0 {
			a.suggestions.selected--
		}
		return a, nil

	case "down", "ctrl+n":
		if a.suggestions.selected < len(a.suggestions.matches)-1 {
			a.suggestions.selected++
		}
		return a, nil

	case "enter":
		if len(a.suggestions.matches) > 0 {
			choice := a.suggestions.matches[a.suggestions.selected]
			a.textarea.SetValue(choice)
			a.dataModel.Composer.SetDraft(choice)
		}
		a.closeSuggestions()
		return a, nil
	}

	var cmd tea.Cmd
	a.suggestions.input, cmd = a.suggestions.input.Update(msg)
	a.suggestions.matches = filterSuggestions(a.suggestions.input.Value(), a.dataModel.Config.Suggestions)
	if a.suggestions.selected >= len(a.suggestions.matches) {
		a.suggestions.selected = max(len(a.suggestions.matches)-1, 0)
	}
	return a, cmd
}

func (a AppView) renderSuggestions(width, height int) string {
	lines := []string{"  " + a.suggestions.input.View(), ""}

	if len(a.suggestions.matches) == 0 {
		lines = append(lines, DimStyle.Render("  No matching suggestions"))
	}
	for i, s := range a.suggestions.matches {
		if i == a.suggestions.selected {
			lines = append(lines, SelectedStyle.Render("> "+s))
			continue
		}
		lines = append(lines, "  "+s)
	}

	footer := FormatFooter("↑/↓", "Navigate", "Enter", "Use", "Esc", "Close")
	return RenderThreeSectionModal("Try asking", lines, footer, ModalTypeInfo, 64, width, height)
}
