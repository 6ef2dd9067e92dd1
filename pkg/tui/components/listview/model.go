// Package listview renders the agenda presentation: the active month's
// sessions as a chronological list grouped under date headings. Dates that
// have already passed are collapsed behind a toggle so the list opens on
// what is coming up.
package listview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
	"github.com/Guisb12/lusia-cal/pkg/tui/theme"
)

// row is one selectable line of the flattened agenda.
type row struct {
	day     time.Time
	heading bool
	entry   session.Session
}

// Model is the agenda list component.
type Model struct {
	id    events.ComponentID
	th    theme.ListTheme
	month time.Time
	today time.Time

	sessions []session.Session
	showPast bool
	resolve  func(id, fallback string) string

	rows   []row
	cursor int
	scroll int
	width  int
	height int
}

// NewModel builds an agenda anchored at the month containing ref.
func NewModel(id events.ComponentID, ref, today time.Time) *Model {
	return &Model{
		id:    id,
		th:    theme.Default().List,
		month: timeutil.MonthStart(ref),
		today: today,
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

// SetMonth moves the agenda to the month containing ref.
func (m *Model) SetMonth(ref time.Time) {
	m.month = timeutil.MonthStart(ref)
	m.rebuild()
}

// Month returns the first day of the displayed month.
func (m *Model) Month() time.Time { return m.month }

// SetResolver installs the id-to-label resolver used for participants on
// sessions the backend returned without hydrated student records.
func (m *Model) SetResolver(resolve func(id, fallback string) string) {
	m.resolve = resolve
}

// SetToday updates the boundary between collapsed and upcoming dates.
func (m *Model) SetToday(today time.Time) {
	m.today = today
	m.rebuild()
}

// SetSessions replaces the entry collection backing the list.
func (m *Model) SetSessions(sessions []session.Session) {
	m.sessions = append([]session.Session(nil), sessions...)
	session.SortForLayout(m.sessions)
	m.rebuild()
}

// Range reports the date span the agenda needs data for: the first through
// the last day of the displayed month.
func (m *Model) Range() (time.Time, time.Time) {
	return m.month, m.month.AddDate(0, 1, -1)
}

// ShowingPast reports whether collapsed past dates are expanded.
func (m *Model) ShowingPast() bool { return m.showPast }

// rebuild flattens the session collection into selectable rows, skipping
// entries on past dates unless the past toggle is on. The cursor is kept in
// bounds and parked on an entry row when one exists.
func (m *Model) rebuild() {
	m.rows = m.rows[:0]
	var currentDay string
	firstEntry := -1
	for _, s := range m.sessions {
		day := s.Day()
		if m.isPast(day) && !m.showPast {
			continue
		}
		if key := s.DayKey(); key != currentDay {
			currentDay = key
			m.rows = append(m.rows, row{day: day, heading: true})
		}
		if firstEntry < 0 {
			firstEntry = len(m.rows)
		}
		m.rows = append(m.rows, row{day: day, entry: s})
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) && m.rows[m.cursor].heading && firstEntry >= 0 {
		m.cursor = firstEntry
	}
}

func (m *Model) isPast(day time.Time) bool {
	return day.Before(timeutil.Midnight(m.today))
}

// hiddenCount reports how many sessions the past-date collapse is hiding.
func (m *Model) hiddenCount() int {
	if m.showPast {
		return 0
	}
	n := 0
	for _, s := range m.sessions {
		if m.isPast(s.Day()) {
			n++
		}
	}
	return n
}

// Update handles list navigation and activation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "p":
		m.showPast = !m.showPast
		m.rebuild()
	case "enter":
		if m.cursor < len(m.rows) && !m.rows[m.cursor].heading {
			s := m.rows[m.cursor].entry
			return m, events.SessionSelectCmd(m.id, events.SessionRef{
				ID:       s.ID,
				Title:    s.Label(),
				Day:      s.Day(),
				StartMin: s.StartMinute(),
				EndMin:   s.EndMinute(),
			})
		}
	case "n":
		day := m.today
		if m.cursor < len(m.rows) {
			day = m.rows[m.cursor].day
		}
		return m, events.SlotSelectCmd(m.id, timeutil.Midnight(day), -1)
	}
	return m, nil
}

// moveCursor steps over headings so the cursor always rests on an entry.
func (m *Model) moveCursor(step int) {
	next := m.cursor
	for {
		next += step
		if next < 0 || next >= len(m.rows) {
			return
		}
		if !m.rows[next].heading {
			break
		}
	}
	m.cursor = next
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if visible := m.visibleRows(); m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
}

func (m *Model) visibleRows() int {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the visible slice of the agenda.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var b strings.Builder
	if hidden := m.hiddenCount(); hidden > 0 {
		b.WriteString(m.th.Collapsed.Render(fmt.Sprintf("%d earlier this month hidden (p to show)", hidden)))
	} else if m.showPast {
		b.WriteString(m.th.Collapsed.Render("showing full month (p to hide past)"))
	} else {
		b.WriteString(m.th.DateHeading.Render(m.month.Format("January 2006")))
	}

	visible := m.visibleRows()
	for i := m.scroll; i < len(m.rows) && i < m.scroll+visible; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(i))
	}
	if len(m.rows) == 0 {
		b.WriteString("\n")
		b.WriteString(m.th.Collapsed.Render("no sessions this month"))
	}
	return b.String()
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	if r.heading {
		label := r.day.Format("Monday, January 2")
		if timeutil.SameDay(r.day, m.today) {
			label += " (today)"
		}
		return m.th.DateHeading.Render(label)
	}
	s := r.entry
	timespan := fmt.Sprintf("%s-%s",
		timeutil.FormatMinutes(s.StartMinute()), timeutil.FormatMinutes(s.EndMinute()))
	line := fmt.Sprintf("  %s  %s", m.th.TimeRange.Render(timespan), s.Label())
	if who := m.participants(s); who != "" {
		line += m.th.TimeRange.Render("  " + who)
	}
	if i == m.cursor {
		return m.th.Cursor.Render(line)
	}
	return m.th.Entry.Render(line)
}

// participants renders the session's student names, falling back to the
// resolver and then the raw ids when hydration is missing.
func (m *Model) participants(s session.Session) string {
	if len(s.Students) > 0 {
		names := make([]string, 0, len(s.Students))
		for _, st := range s.Students {
			names = append(names, st.Label())
		}
		return strings.Join(names, ", ")
	}
	if len(s.StudentIDs) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.StudentIDs))
	for _, id := range s.StudentIDs {
		if m.resolve != nil {
			names = append(names, m.resolve(id, id))
			continue
		}
		names = append(names, id)
	}
	return strings.Join(names, ", ")
}
