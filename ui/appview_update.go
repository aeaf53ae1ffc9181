package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	appmodel "fincopilot/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		widthChanged := msg.Width != a.width
		a.resize(msg.Width, msg.Height)
		a.ready = true
		a.updateViewportContent()

		if widthChanged {
			return a, a.renderAllMarkdown()
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case spinner.TickMsg:
		// The chain dies on its own once the request is answered
		if a.dataModel.Phase != appmodel.PhaseSending {
			return a, nil
		}
		var cmd tea.Cmd
		a.thinking, cmd = a.thinking.Update(msg)
		a.updateViewportContent()
		return a, cmd

	case replyReceivedMsg, revealTickMsg, markdownRenderedMsg:
		return a.handleChatMessage(msg)

	case themeChangedMsg:
		log.Debug().Bool("dark", msg.Dark).Msg("applying theme change")
		lipgloss.SetHasDarkBackground(msg.Dark)
		a.dataModel.Dark = msg.Dark
		a.updateViewportContent()
		return a, waitForTheme(a.themeSub)

	case healthCheckedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("backend health check failed")
			a.dataModel.Backend = appmodel.BackendOffline
		} else {
			a.dataModel.Backend = appmodel.BackendOnline
		}
		return a, nil

	case clipboardCopiedMsg:
		if msg.Err != nil {
			log.Debug().Err(msg.Err).Str("what", msg.What).Msg("clipboard copy failed")
			return a, a.setStatusNote("Copy failed: " + msg.Err.Error())
		}
		return a, a.setStatusNote("Copied " + msg.What + " to clipboard")

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusNote = ""
		}
		return a, nil
	}

	// Cursor blink and anything else the textarea understands
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := &a.dataModel.Config.Keybindings
	pressed := msg.String()

	// Always-global: quit
	if pressed == "ctrl+c" || kb.Matches("quit", pressed) {
		log.Debug().Msg("quit requested")
		return a, tea.Quit
	}

	if a.showSplash {
		if pressed == "enter" || pressed == "esc" {
			a.showSplash = false
		}
		return a, nil
	}

	if a.showHelp {
		if pressed == "esc" || kb.Matches("help", pressed) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.suggestions.active {
		return a.handleSuggestionsKey(msg)
	}

	switch {
	case kb.Matches("help", pressed):
		a.showHelp = true
		return a, nil

	case kb.Matches("suggestions", pressed):
		a.openSuggestions()
		return a, nil

	case kb.Matches("yank_last_response", pressed):
		return a, a.dataModel.CopyLastReply()

	case kb.Matches("yank_conversation", pressed):
		return a, a.dataModel.CopyConversation()

	case kb.Matches("clear_input", pressed):
		a.textarea.Reset()
		a.dataModel.Composer.SetDraft("")
		return a, nil

	case kb.Matches("scroll_down", pressed):
		a.viewport.LineDown(1)
		a.syncScroll()
		return a, nil

	case kb.Matches("scroll_up", pressed):
		a.viewport.LineUp(1)
		a.syncScroll()
		return a, nil

	case kb.Matches("half_page_down", pressed):
		a.viewport.HalfViewDown()
		a.syncScroll()
		return a, nil

	case kb.Matches("half_page_up", pressed):
		a.viewport.HalfViewUp()
		a.syncScroll()
		return a, nil

	case kb.Matches("page_down", pressed):
		a.viewport.ViewDown()
		a.syncScroll()
		return a, nil

	case kb.Matches("page_up", pressed):
		a.viewport.ViewUp()
		a.syncScroll()
		return a, nil

	case kb.Matches("scroll_to_top", pressed):
		a.viewport.GotoTop()
		a.syncScroll()
		return a, nil

	case kb.Matches("jump_latest", pressed):
		a.jumpToLatest()
		return a, nil

	case pressed == "enter":
		return a.submit()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	a.dataModel.Composer.SetDraft(a.textarea.Value())
	return a, cmd
}

// submit hands the draft to the model. A rejected submission (blank, or a
// reply still in flight) leaves the draft untouched.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	a.dataModel.Composer.SetDraft(a.textarea.Value())

	send, ok := a.dataModel.Submit()
	if !ok {
		return a, nil
	}

	a.textarea.Reset()
	a.updateViewportContent()

	return a, tea.Batch(send, a.thinking.Tick)
}

func (a AppView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showSplash || a.showHelp || a.suggestions.active {
		return a, nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if a.dataModel.Scroll.ShowJump() && msg.Y == a.badgeRow() {
			a.jumpToLatest()
		}
		return a, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		a.syncScroll()
		return a, cmd
	}

	return a, nil
}

// syncScroll reports the viewport's distance from the bottom after a user
// scroll
func (a *AppView) syncScroll() {
	distance := a.viewport.TotalLineCount() - a.viewport.YOffset - a.viewport.Height
	if distance < 0 {
		distance = 0
	}
	a.dataModel.Scroll.OnUserScroll(distance)
	log.Debug().Int("distance", distance).Bool("following", a.dataModel.Scroll.Following()).Msg("user scrolled")
}

func (a *AppView) jumpToLatest() {
	a.dataModel.Scroll.Jump()
	a.viewport.GotoBottom()
}
