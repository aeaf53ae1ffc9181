package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog/log"

	appmodel "fincopilot/model"
	"fincopilot/transport"
)

const revealCursor = "▋"

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

// updateViewportContent redraws the transcript. It follows the newest entry
// only while the scroll controller says the user has not scrolled away.
func (a *AppView) updateViewportContent() {
	a.viewport.SetContent(a.renderTranscript())
	if a.dataModel.Scroll.OnMutation() {
		a.viewport.GotoBottom()
	}
}

func (a AppView) renderTranscript() string {
	entries := a.dataModel.Conversation.Entries()
	if len(entries) == 0 && a.dataModel.Phase != appmodel.PhaseSending {
		return DimStyle.Render("No messages yet. Ask about your spending!")
	}

	var revealing appmodel.EntryID
	if a.dataModel.Reveal != nil {
		revealing = a.dataModel.Reveal.Target
	}

	textWidth := a.width - 4
	var content strings.Builder

	for _, msg := range entries {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case appmodel.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), wordWrap(msg.Content, textWidth)))

		case appmodel.RoleAssistant:
			body := msg.Rendered
			if body == "" {
				body = wordWrap(msg.Content, textWidth)
				if strings.HasPrefix(msg.Content, transport.ErrorPrefix) {
					body = ErrorStyle.Render(body)
				}
			}
			if msg.ID == revealing {
				body += revealCursor
			}
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render(appTitle), body))

		default:
			content.WriteString(DimStyle.Render(fmt.Sprintf("%s %s", msg.Timestamp.Format("[15:04]"), msg.Content)))
			content.WriteString("\n\n")
		}
	}

	if a.dataModel.Phase == appmodel.PhaseSending {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		content.WriteString(fmt.Sprintf("%s %s\n%s\n", timestamp, AssistantStyle.Render(appTitle),
			DimStyle.Render("Thinking")+a.thinking.View()))
	}

	return strings.TrimRight(content.String(), "\n")
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderMarkdownAsync renders a finished assistant entry off the update
// loop. Error replies stay plain so they keep their styling.
func (a AppView) renderMarkdownAsync(id appmodel.EntryID) tea.Cmd {
	msg, ok := a.dataModel.Conversation.Get(id)
	if !ok || msg.Role != appmodel.RoleAssistant || msg.Content == "" {
		return nil
	}
	if strings.HasPrefix(msg.Content, transport.ErrorPrefix) {
		return nil
	}

	content := msg.Content
	width := a.markdownWidth()

	return func() tea.Msg {
		startTime := time.Now()

		// Plain URLs let the terminal make them clickable
		content = mdLinkRegex.ReplaceAllString(content, "$2")

		ext := markdown.Extensions() &^ parser.Autolink
		p := parser.NewWithExtensions(ext)
		r := markdown.NewRenderer(width, 0)
		rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

		// go-term-markdown paints inline code blue-on-italic; make it red text
		rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
		rendered = strings.TrimRight(rendered, "\n ")

		log.Debug().
			Str("entry", string(id)).
			Dur("elapsed", time.Since(startTime)).
			Msg("markdown rendered")

		return markdownRenderedMsg{Entry: id, Width: width, Rendered: rendered}
	}
}

func (a AppView) markdownWidth() int {
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	return width
}

// renderAllMarkdown re-renders every finished assistant entry, used when
// the width changes
func (a AppView) renderAllMarkdown() tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range a.dataModel.Conversation.Entries() {
		if a.dataModel.Reveal != nil && a.dataModel.Reveal.Target == msg.ID {
			continue
		}
		if cmd := a.renderMarkdownAsync(msg.ID); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}
