// Package monthview renders the month presentation: a 6-row Monday-start
// grid spanning the visible month plus the adjacent-month days needed to
// fill complete weeks.
package monthview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
	"github.com/Guisb12/lusia-cal/pkg/tui/theme"
)

const (
	gridRows = 6
	gridCols = 7

	// maxVisibleEntries caps how many session labels a day cell shows
	// before collapsing into an overflow count.
	maxVisibleEntries = 3
)

// Model is the month grid component.
type Model struct {
	id    events.ComponentID
	th    theme.MonthTheme
	month time.Time
	today time.Time

	cursor   time.Time
	sessions map[string][]session.Session

	width  int
	height int
}

// NewModel builds a month view anchored at the month containing ref.
func NewModel(id events.ComponentID, ref, today time.Time) *Model {
	month := timeutil.MonthStart(ref)
	return &Model{
		id:       id,
		th:       theme.Default().Month,
		month:    month,
		today:    today,
		cursor:   today,
		sessions: map[string][]session.Session{},
	}
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize stores the available area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetMonth moves the grid to the month containing ref. The cursor follows
// into the new month when it would fall outside the grid.
func (m *Model) SetMonth(ref time.Time) {
	m.month = timeutil.MonthStart(ref)
	from, to := m.Range()
	if m.cursor.Before(from) || m.cursor.After(to) {
		m.cursor = m.month
	}
}

// Month returns the first day of the displayed month.
func (m *Model) Month() time.Time { return m.month }

// SetToday updates the highlighted current day.
func (m *Model) SetToday(today time.Time) { m.today = today }

// SetSessions replaces the entry collection backing the grid.
func (m *Model) SetSessions(sessions []session.Session) {
	byDay := session.GroupByDay(sessions)
	for _, bucket := range byDay {
		session.SortForLayout(bucket)
	}
	m.sessions = byDay
}

// Range reports the date span the grid needs data for: the full 6-week
// display span including adjacent-month days.
func (m *Model) Range() (time.Time, time.Time) {
	return timeutil.MonthGridRange(m.month)
}

// CursorDay returns the currently selected day.
func (m *Model) CursorDay() time.Time { return m.cursor }

// Update handles key navigation within the grid.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "enter":
		day := m.cursor
		if entries := m.sessions[day.Format("2006-01-02")]; len(entries) > 0 {
			first := entries[0]
			return m, events.SessionSelectCmd(m.id, events.SessionRef{
				ID:       first.ID,
				Title:    first.Label(),
				Day:      first.Day(),
				StartMin: first.StartMinute(),
				EndMin:   first.EndMinute(),
			})
		}
		return m, events.SlotSelectCmd(m.id, day, -1)
	case "n":
		return m, events.SlotSelectCmd(m.id, m.cursor, -1)
	}
	return m, nil
}

func (m *Model) moveCursor(days int) {
	next := m.cursor.AddDate(0, 0, days)
	from, to := m.Range()
	if next.Before(from) || next.After(to) {
		return
	}
	m.cursor = next
}

// View renders the grid.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	cellWidth := m.width / gridCols
	if cellWidth < 6 {
		cellWidth = 6
	}
	cellHeight := (m.height - 2) / gridRows
	if cellHeight < 2 {
		cellHeight = 2
	}

	var b strings.Builder
	b.WriteString(m.th.Header.Render(m.month.Format("January 2006")))
	b.WriteString("\n")
	weekdays := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	head := make([]string, gridCols)
	for i, wd := range weekdays {
		head[i] = padTo(wd, cellWidth)
	}
	b.WriteString(m.th.Header.Render(strings.Join(head, "")))
	b.WriteString("\n")

	gridStart, _ := m.Range()
	for row := 0; row < gridRows; row++ {
		cells := make([]string, gridCols)
		for col := 0; col < gridCols; col++ {
			day := gridStart.AddDate(0, 0, row*gridCols+col)
			cells[col] = m.renderCell(day, cellWidth, cellHeight)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if row < gridRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderCell(day time.Time, width, height int) string {
	lines := make([]string, 0, height)

	label := fmt.Sprintf("%2d", day.Day())
	labelStyle := m.th.DayLabel
	if day.Month() != m.month.Month() {
		labelStyle = m.th.Adjacent
	}
	if timeutil.SameDay(day, m.today) {
		labelStyle = labelStyle.Inherit(m.th.Today)
	}
	if timeutil.SameDay(day, m.cursor) {
		labelStyle = labelStyle.Inherit(m.th.Cursor)
	}
	lines = append(lines, labelStyle.Render(padTo(label, width)))

	entries := m.sessions[day.Format("2006-01-02")]
	shown := entries
	if len(shown) > maxVisibleEntries {
		shown = shown[:maxVisibleEntries]
	}
	for _, s := range shown {
		if len(lines) >= height {
			break
		}
		text := truncate(s.Label(), width-1)
		lines = append(lines, m.th.Entry.Render(padTo(text, width)))
	}
	if overflow := len(entries) - len(shown); overflow > 0 && len(lines) < height {
		lines = append(lines, m.th.Overflow.Render(padTo(fmt.Sprintf("+%d more", overflow), width)))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func padTo(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
