// Package statusbar renders the single-line footer: key hints for the active
// view plus a transient status or error message.
package statusbar

import (
	"strings"

	"github.com/Guisb12/lusia-cal/pkg/tui/theme"
)

// Model is the footer bar.
type Model struct {
	th theme.FooterTheme

	help   string
	status string
	isErr  bool
	width  int
}

// New builds an empty footer.
func New() *Model {
	return &Model{th: theme.Default().Footer}
}

// SetSize stores the available width.
func (m *Model) SetSize(width int) { m.width = width }

// SetHelp replaces the key-hint text.
func (m *Model) SetHelp(help string) { m.help = help }

// SetStatus shows a transient informational message.
func (m *Model) SetStatus(status string) {
	m.status = status
	m.isErr = false
}

// SetError shows a transient error message.
func (m *Model) SetError(status string) {
	m.status = status
	m.isErr = true
}

// Clear removes the transient message, leaving the key hints.
func (m *Model) Clear() {
	m.status = ""
	m.isErr = false
}

// View renders the footer line.
func (m *Model) View() string {
	if m.status != "" {
		style := m.th.Status
		if m.isErr {
			style = m.th.Error
		}
		return style.Render(fit(m.status, m.width))
	}
	return m.th.Help.Render(fit(m.help, m.width))
}

func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
