// Package theme centralizes Lip Gloss styles for the calendar UI.
package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme groups the styles used across the calendar views.
type Theme struct {
	Month  MonthTheme
	Week   WeekTheme
	List   ListTheme
	Form   FormTheme
	Footer FooterTheme
}

// MonthTheme styles the month grid.
type MonthTheme struct {
	Header   lipgloss.Style
	DayLabel lipgloss.Style
	Today    lipgloss.Style
	Adjacent lipgloss.Style
	Entry    lipgloss.Style
	Overflow lipgloss.Style
	Cursor   lipgloss.Style
}

// WeekTheme styles the week grid.
type WeekTheme struct {
	Header    lipgloss.Style
	HourLabel lipgloss.Style
	GridLine  lipgloss.Style
	Block     lipgloss.Style
	Preview   lipgloss.Style
	NowLine   lipgloss.Style
}

// ListTheme styles the agenda list.
type ListTheme struct {
	DateHeading lipgloss.Style
	Collapsed   lipgloss.Style
	Entry       lipgloss.Style
	TimeRange   lipgloss.Style
	Cursor      lipgloss.Style
}

// FormTheme styles the create/edit overlay.
type FormTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
	Error lipgloss.Style
}

// FooterTheme styles the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Month: MonthTheme{
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			DayLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Today:    lipgloss.NewStyle().Underline(true).Bold(true),
			Adjacent: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Entry:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			Overflow: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Cursor:   lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		},
		Week: WeekTheme{
			Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			HourLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			GridLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
			Block:     lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("15")),
			Preview:   lipgloss.NewStyle().Background(lipgloss.Color("99")).Foreground(lipgloss.Color("0")),
			NowLine:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		List: ListTheme{
			DateHeading: lipgloss.NewStyle().Bold(true),
			Collapsed:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
			Entry:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			TimeRange:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Cursor:      lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		},
		Form: FormTheme{
			Frame: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

// SubjectColor converts a backend-assigned hex color into a terminal color,
// falling back to the default block color when the hex is missing or
// malformed.
func SubjectColor(hex string, fallback color.Color) color.Color {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return lipgloss.Color(c.Hex())
}
