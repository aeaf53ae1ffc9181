package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModal is a standalone program for errors that stop the chat from
// starting, such as a broken config file.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	lines := strings.Split(wordWrap(m.message, 56), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}

	return RenderThreeSectionModal(m.title, lines, "Press Enter to quit", ModalTypeError, 60, m.width, m.height)
}
