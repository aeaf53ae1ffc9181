package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	appmodel "fincopilot/model"
	"fincopilot/theme"
)

const (
	appTitle   = "Finance Copilot"
	appTagline = "Smart insights for your spending"

	// header line + blank separator
	headerHeight = 2
	// badge row + textarea + status bar
	footerHeight = 1 + inputHeight + 1
	inputHeight  = 3

	statusNoteDuration = 3 * time.Second
)

// thinkingFrames cycle after the word "Thinking" while a request is in flight
var thinkingFrames = spinner.Spinner{
	Frames: []string{".", "..", "..."},
	FPS:    350 * time.Millisecond,
}

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	themes   *theme.Source
	themeSub *theme.Subscription

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	thinking spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showSplash  bool
	showHelp    bool
	suggestions SuggestionsState

	// Transient note in the status bar (clipboard feedback)
	statusNote string
	statusSeq  int
}

// NewAppView wires the chat screen to the data model. sub may be nil when
// the theme is pinned or live updates are not wanted.
func NewAppView(dataModel *appmodel.Model, themes *theme.Source, sub *theme.Subscription) AppView {
	kb := &dataModel.Config.Keybindings

	ta := textarea.New()
	ta.Placeholder = fmt.Sprintf("Ask about your spending... (%s for suggestions)", kb.DisplayActionKey("suggestions"))
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.SetWidth(80)

	// Enter submits and is handled before the textarea sees it
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(kb.ActionKeys("newline")...))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	thinking := spinner.New()
	thinking.Spinner = thinkingFrames
	thinking.Style = DimStyle

	return AppView{
		dataModel:   dataModel,
		themes:      themes,
		themeSub:    sub,
		textarea:    ta,
		viewport:    viewport.New(0, 0),
		thinking:    thinking,
		showSplash:  dataModel.Config.ShowSplash,
		suggestions: newSuggestionsState(),
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown waits for WindowSizeMsg so it renders at the right width
	return tea.Batch(
		textarea.Blink,
		a.dataModel.CheckHealth(),
		waitForTheme(a.themeSub),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Finance Copilot..."
	}

	// Overlay order (top to bottom): splash, help, suggestions
	if a.showSplash {
		return a.renderSplash(a.width, a.height)
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.suggestions.active {
		return a.renderSuggestions(a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(),
		"",
		a.viewport.View(),
		a.renderBadgeRow(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

func (a AppView) renderHeader() string {
	left := AssistantStyle.Bold(true).Render(appTitle) + DimStyle.Render(" — "+appTagline)

	backend := ""
	switch a.dataModel.Backend {
	case appmodel.BackendOnline:
		backend = UserStyle.Render("● online") + "  "
	case appmodel.BackendOffline:
		backend = ErrorStyle.Render("● offline") + "  "
	}
	right := backend + TitleStyle.Render(a.themeLabel())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: drop the tagline first
		left = runewidth.Truncate(appTitle, a.width-lipgloss.Width(right)-1, "…")
		left = AssistantStyle.Bold(true).Render(left)
		gap = a.width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			return left
		}
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

// themeLabel names the palette in use, prefixed with "Auto:" when it
// follows the system
func (a AppView) themeLabel() string {
	name := "Light"
	if a.dataModel.Dark {
		name = "Dark"
	}
	if a.themes != nil && a.themes.Mode() == theme.ModeAuto {
		return "Auto: " + name
	}
	return name
}

func (a AppView) renderBadgeRow() string {
	if !a.dataModel.Scroll.ShowJump() {
		return ""
	}
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Right, BadgeStyle.Render("↓ New"))
}

func (a AppView) renderStatusBar() string {
	kb := &a.dataModel.Config.Keybindings

	if a.dataModel.Composer.AwaitingReply() {
		return StatusStyle.Render("Sending…")
	}
	if a.statusNote != "" {
		return StatusStyle.Render(a.statusNote)
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Enter %s  %s %s  %s %s  %s %s  %s %s  %s %s",
		descStyle.Render("Send"),
		kb.DisplayActionKey("newline"), descStyle.Render("New Line"),
		kb.DisplayActionKey("suggestions"), descStyle.Render("Suggestions"),
		kb.DisplayActionKey("yank_last_response"), descStyle.Render("Copy"),
		kb.DisplayActionKey("help"), descStyle.Render("Help"),
		kb.DisplayActionKey("quit"), descStyle.Render("Quit"),
	)
	return StatusStyle.Render(statusBar)
}

// badgeRow is the screen row the jump control occupies
func (a AppView) badgeRow() int {
	return headerHeight + a.viewport.Height
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	vpHeight := height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	a.viewport.Width = width
	a.viewport.Height = vpHeight
	a.textarea.SetWidth(width)
}

// setStatusNote shows a short note in the status bar and schedules its
// removal
func (a *AppView) setStatusNote(note string) tea.Cmd {
	a.statusSeq++
	a.statusNote = note
	seq := a.statusSeq
	return tea.Tick(statusNoteDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
