package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	appmodel "fincopilot/model"
	"fincopilot/theme"
)

type replyReceivedMsg = appmodel.ReplyReceivedMsg
type revealTickMsg = appmodel.RevealTickMsg
type markdownRenderedMsg = appmodel.MarkdownRenderedMsg
type themeChangedMsg = appmodel.ThemeChangedMsg
type healthCheckedMsg = appmodel.HealthCheckedMsg
type clipboardCopiedMsg = appmodel.ClipboardCopiedMsg

// clearStatusMsg drops a transient status note once it has been read
type clearStatusMsg struct {
	seq int
}

// waitForTheme blocks on the subscription and turns the next change into a
// message. A closed subscription ends the chain.
func waitForTheme(sub *theme.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		dark, ok := <-sub.C
		if !ok {
			return nil
		}
		return themeChangedMsg{Dark: dark}
	}
}
