package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// border and padding of boxStyle
const boxFrame = 6

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Environment & Resolution Diagnostics"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")

	buttons := make([]string, len(buttonLabels))
	for i, label := range buttonLabels {
		style := buttonStyle
		if Button(i) == m.focus {
			style = focusedButtonStyle
		}
		buttons[i] = style.Render(label)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1]))
	b.WriteString("\n")

	if m.message != "" {
		msg := m.message
		if m.width > boxFrame {
			msg = runewidth.Truncate(msg, m.width-boxFrame, "…")
		}
		b.WriteString(m.messageStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return boxStyle.Render(b.String())
}
