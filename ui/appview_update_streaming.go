package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// handleChatMessage drives a submission from reply to finished markdown
func (a AppView) handleChatMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyReceivedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("chat request failed, revealing error reply")
		}

		tick := a.dataModel.StartReveal(msg.Text)
		a.updateViewportContent()
		return a, tick

	case revealTickMsg:
		if a.dataModel.Reveal == nil || a.dataModel.Reveal.Target != msg.Entry {
			return a, nil
		}

		next := a.dataModel.AdvanceReveal(msg.Entry)
		a.updateViewportContent()
		if next != nil {
			return a, next
		}
		return a, a.renderMarkdownAsync(msg.Entry)

	case markdownRenderedMsg:
		// A newer resize already queued a render at the current width
		if msg.Width != a.markdownWidth() {
			log.Debug().Str("entry", string(msg.Entry)).Int("width", msg.Width).Msg("dropping markdown for old width")
			return a, nil
		}
		if err := a.dataModel.Conversation.SetRendered(msg.Entry, msg.Rendered); err != nil {
			log.Debug().Err(err).Str("entry", string(msg.Entry)).Msg("dropping markdown for unknown entry")
			return a, nil
		}
		a.updateViewportContent()
		return a, nil
	}

	return a, nil
}
