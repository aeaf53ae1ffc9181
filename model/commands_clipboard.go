package model

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// CopyLastReply puts the newest assistant reply on the system clipboard
func (m *Model) CopyLastReply() tea.Cmd {
	content, ok := m.LastReplyText()
	if !ok {
		return func() tea.Msg {
			return ClipboardCopiedMsg{What: "reply", Err: fmt.Errorf("no reply to copy yet")}
		}
	}
	return func() tea.Msg {
		return ClipboardCopiedMsg{What: "reply", Err: clipboard.WriteAll(content)}
	}
}

// LastReplyText is the newest assistant reply in full, even while its
// reveal is still showing a prefix.
func (m *Model) LastReplyText() (string, bool) {
	if m.Reveal != nil {
		if full := m.Reveal.Full(); full != "" {
			return full, true
		}
	}
	msg, ok := m.Conversation.Last(RoleAssistant)
	if !ok || msg.Content == "" {
		return "", false
	}
	return msg.Content, true
}

// CopyConversation puts the whole user/assistant transcript on the clipboard
func (m *Model) CopyConversation() tea.Cmd {
	text := FormatTranscript(m.Conversation.Entries())
	return func() tea.Msg {
		return ClipboardCopiedMsg{What: "conversation", Err: clipboard.WriteAll(text)}
	}
}

// FormatTranscript renders entries as plain text, skipping local notices
func FormatTranscript(entries []Message) string {
	var sb strings.Builder
	for _, e := range entries {
		var who string
		switch e.Role {
		case RoleUser:
			who = "You"
		case RoleAssistant:
			who = "Finance Copilot"
		default:
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(who)
		sb.WriteString(": ")
		sb.WriteString(e.Content)
	}
	return sb.String()
}
