package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"fincopilot/transport"
)

// Submit takes the composer draft. When accepted, the user entry is in the
// transcript before the returned command (the transport call) runs.
func (m *Model) Submit() (tea.Cmd, bool) {
	text, ok := m.Composer.Submit()
	if !ok {
		return nil, false
	}

	m.Conversation.Append(RoleUser, text)
	m.Phase = PhaseSending
	m.Scroll.Jump()

	log.Debug().Int("len", len(text)).Msg("message submitted")

	return m.SendMessage(text), true
}

// SendMessage performs the single transport call of a submission. Failures
// are folded into the reply text, so the command always yields a
// ReplyReceivedMsg.
func (m *Model) SendMessage(text string) tea.Cmd {
	ctx := m.Context()
	client := m.Client
	req := transport.ChatRequest{
		SessionID: m.Config.SessionID,
		Message:   text,
		Name:      m.Config.Name,
		Currency:  m.Config.Currency,
	}
	delay := m.Config.SendDelay.Duration

	return func() tea.Msg {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}

		resp, err := client.Chat(ctx, req)
		if err != nil {
			log.Debug().Err(err).Msg("chat call failed")
		}
		return ReplyReceivedMsg{
			Text: transport.ReplyText(resp, err),
			Err:  err,
		}
	}
}

// StartReveal appends the empty assistant entry for text and returns the
// first tick. An empty text finishes at once and returns nil.
func (m *Model) StartReveal(text string) tea.Cmd {
	id := m.Conversation.Append(RoleAssistant, "")
	m.Reveal = NewReveal(id, text)
	m.Phase = PhaseRevealing

	if m.Reveal.Done() {
		m.finishReveal()
		return nil
	}
	return m.revealTick(id)
}

// AdvanceReveal handles one tick: shows one more rune of the reveal that
// targets id. It returns the next tick, or nil once the reply is complete.
// Ticks for anything but the in-flight reveal are ignored.
func (m *Model) AdvanceReveal(id EntryID) tea.Cmd {
	if m.Reveal == nil || m.Reveal.Target != id {
		return nil
	}

	prefix, done := m.Reveal.Step()
	if err := m.Conversation.SetContent(id, prefix); err != nil {
		log.Error().Err(err).Msg("reveal target vanished")
		m.finishReveal()
		return nil
	}

	if done {
		m.finishReveal()
		return nil
	}
	return m.revealTick(id)
}

// finishReveal is the cleanup that runs for every submission, success or
// failure, strictly after the last rune is shown.
func (m *Model) finishReveal() {
	if m.Reveal != nil {
		log.Debug().
			Str("entry", string(m.Reveal.Target)).
			Int("bytes", len(m.Reveal.Full())).
			Msg("reveal complete")
	}
	m.Reveal = nil
	m.Phase = PhaseIdle
	m.Composer.Finish()
}

func (m *Model) revealTick(id EntryID) tea.Cmd {
	return tea.Tick(m.Config.RevealInterval.Duration, func(time.Time) tea.Msg {
		return RevealTickMsg{Entry: id}
	})
}

// CheckHealth pings the backend once. The result is informational only.
func (m *Model) CheckHealth() tea.Cmd {
	ctx := m.Context()
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return HealthCheckedMsg{Err: client.Health(ctx)}
	}
}
