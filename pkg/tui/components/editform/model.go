// Package editform is the create/edit overlay for sessions: a small field
// stack the root model opens over whichever view is active. An empty session
// ID means the form creates; otherwise it edits that session.
package editform

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
	"github.com/Guisb12/lusia-cal/pkg/tui/theme"
)

// field indices, in tab order.
const (
	fieldTitle = iota
	fieldDate
	fieldStart
	fieldEnd
	fieldStudents
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Date", "Start", "End", "Students", "Notes"}

// defaultStartMinute is used when the form opens without an explicit slot and
// the next whole hour is unusable (past end of day).
const defaultStartMinute = 9 * 60

// maxMatches bounds the search results rendered under the students field.
const maxMatches = 5

// pick is a student chosen from the directory search, kept as id plus the
// label it was picked under.
type pick struct {
	id    string
	label string
}

// Model is the session create/edit form.
type Model struct {
	id events.ComponentID
	th theme.FormTheme

	sessionID string
	inputs    [fieldCount]textinput.Model
	focus     int
	errors    []session.FieldError

	// picked holds students chosen from directory search results; matches
	// is the current result list with matchIdx highlighted.
	picked   []pick
	matches  []session.Student
	matchIdx int

	width  int
	height int
}

// NewModel builds an unbound form. Open it with OpenCreate or OpenEdit.
func NewModel(id events.ComponentID) *Model {
	m := &Model{id: id, th: theme.Default().Form}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Placeholder = "Session title"
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	m.inputs[fieldStart].Placeholder = "HH:MM"
	m.inputs[fieldEnd].Placeholder = "HH:MM"
	m.inputs[fieldStudents].Placeholder = "type to search, or ids comma separated"
	m.inputs[fieldNotes].Placeholder = "notes"
	return m
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return m.inputs[m.focus].Focus() }

// SetSize stores the available area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether the form is bound to an existing session.
func (m *Model) Editing() bool { return m.sessionID != "" }

// OpenCreate prefills the form for a new session on day. minute is the
// chosen minute of the day; negative means no explicit hour was picked, in
// which case the start defaults to the next whole hour (or 09:00 when the
// day is not today). New sessions default to one hour long.
func (m *Model) OpenCreate(day time.Time, minute int, now time.Time) tea.Cmd {
	m.sessionID = ""
	m.errors = nil
	m.resetPicker(nil)
	start := minute
	if start < 0 {
		if timeutil.SameDay(day, now) {
			next := timeutil.NextWholeHour(now)
			start = next.Hour() * 60
			if !timeutil.SameDay(next, now) {
				start = defaultStartMinute
			}
		} else {
			start = defaultStartMinute
		}
	}
	end := start + 60
	if end > 24*60 {
		end = 24 * 60
	}
	m.setValues("", day.Format("2006-01-02"),
		timeutil.FormatMinutes(start), timeutil.FormatMinutes(end), "", "")
	return m.setFocus(fieldTitle)
}

// OpenEdit prefills the form from an existing session. The session's
// participants arrive as picks; hydrated records keep their display labels,
// bare ids are shown as-is.
func (m *Model) OpenEdit(s session.Session) tea.Cmd {
	m.sessionID = s.ID
	m.errors = nil
	var picked []pick
	for _, st := range s.Students {
		picked = append(picked, pick{id: st.ID, label: st.Label()})
	}
	if len(picked) == 0 {
		for _, id := range s.StudentIDs {
			picked = append(picked, pick{id: id, label: id})
		}
	}
	m.resetPicker(picked)
	m.setValues(s.Title, s.StartsAt.Format("2006-01-02"),
		timeutil.FormatMinutes(s.StartMinute()), timeutil.FormatMinutes(s.EndMinute()),
		"", s.TeacherNotes)
	return m.setFocus(fieldTitle)
}

func (m *Model) resetPicker(picked []pick) {
	m.picked = picked
	m.matches = nil
	m.matchIdx = 0
}

func (m *Model) setValues(title, date, start, end, students, notes string) {
	m.inputs[fieldTitle].SetValue(title)
	m.inputs[fieldDate].SetValue(date)
	m.inputs[fieldStart].SetValue(start)
	m.inputs[fieldEnd].SetValue(end)
	m.inputs[fieldStudents].SetValue(students)
	m.inputs[fieldNotes].SetValue(notes)
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// Update handles field editing, tab cycling, the student picker, and
// submission.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "enter":
			return m, m.submit()
		case "esc":
			return m, func() tea.Msg { return events.FormClosedMsg{Component: m.id} }
		case "ctrl+d":
			if m.sessionID != "" {
				return m, func() tea.Msg {
					return events.DeleteRequestMsg{Component: m.id, SessionID: m.sessionID}
				}
			}
			return m, nil
		case "ctrl+n":
			if m.focus == fieldStudents && len(m.matches) > 0 {
				m.matchIdx = (m.matchIdx + 1) % len(m.matches)
			}
			return m, nil
		case "ctrl+p":
			if m.focus == fieldStudents && len(m.matches) > 0 {
				m.matchIdx = (m.matchIdx + len(m.matches) - 1) % len(m.matches)
			}
			return m, nil
		case "ctrl+s":
			if m.focus == fieldStudents && len(m.matches) > 0 {
				m.addPick(m.matches[m.matchIdx])
			}
			return m, nil
		case "ctrl+x":
			if m.focus == fieldStudents && len(m.picked) > 0 {
				m.picked = m.picked[:len(m.picked)-1]
			}
			return m, nil
		}
	}
	before := m.inputs[m.focus].Value()
	input, cmd := m.inputs[m.focus].Update(msg)
	m.inputs[m.focus] = input
	if m.focus == fieldStudents {
		if sc := m.queryChanged(before); sc != nil {
			return m, sc
		}
	}
	return m, cmd
}

// queryChanged emits a directory search when the students query moved.
// Short queries and comma-separated id entry stay local.
func (m *Model) queryChanged(before string) tea.Cmd {
	value := m.inputs[fieldStudents].Value()
	if value == before {
		return nil
	}
	query := strings.TrimSpace(value)
	if len([]rune(query)) < 2 || strings.Contains(query, ",") {
		m.matches = nil
		m.matchIdx = 0
		return nil
	}
	return events.StudentSearchCmd(m.id, query)
}

// SetStudentMatches replaces the search results shown under the students
// field. The root model resolves queries; the form only displays and picks.
func (m *Model) SetStudentMatches(students []session.Student) {
	if len(students) > maxMatches {
		students = students[:maxMatches]
	}
	m.matches = students
	m.matchIdx = 0
}

// addPick moves the highlighted match into the picked set and resets the
// query for the next search.
func (m *Model) addPick(st session.Student) {
	for _, p := range m.picked {
		if p.id == st.ID {
			return
		}
	}
	m.picked = append(m.picked, pick{id: st.ID, label: st.Label()})
	m.inputs[fieldStudents].SetValue("")
	m.matches = nil
	m.matchIdx = 0
}

// submit validates the fields and hands a save request to the root model.
// Parse and validation failures keep the form open with inline errors.
func (m *Model) submit() tea.Cmd {
	draft, errs := m.parse()
	if len(errs) > 0 {
		m.errors = errs
		return nil
	}
	m.errors = nil
	ref := events.DraftRef{
		Title:        draft.Title,
		Day:          timeutil.Midnight(draft.StartsAt),
		StartMin:     draft.StartsAt.Hour()*60 + draft.StartsAt.Minute(),
		EndMin:       draft.EndsAt.Hour()*60 + draft.EndsAt.Minute(),
		StudentIDs:   draft.StudentIDs,
		TeacherNotes: draft.TeacherNotes,
	}
	sessionID := m.sessionID
	return func() tea.Msg {
		return events.SaveRequestMsg{Component: m.id, SessionID: sessionID, Draft: ref}
	}
}

func (m *Model) parse() (session.Draft, []session.FieldError) {
	var errs []session.FieldError

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.inputs[fieldDate].Value()), time.Local)
	if err != nil {
		errs = append(errs, session.FieldError{Field: "date", Message: "expected YYYY-MM-DD"})
	}

	var draft session.Draft
	draft.Title = strings.TrimSpace(m.inputs[fieldTitle].Value())
	draft.TeacherNotes = strings.TrimSpace(m.inputs[fieldNotes].Value())
	for _, p := range m.picked {
		draft.StudentIDs = append(draft.StudentIDs, p.id)
	}
	if len(draft.StudentIDs) == 0 {
		draft.StudentIDs = splitIDs(m.inputs[fieldStudents].Value())
	}

	startMin, err := timeutil.ParseClock(m.inputs[fieldStart].Value())
	if err != nil {
		errs = append(errs, session.FieldError{Field: "start", Message: err.Error()})
	}
	endMin, err := timeutil.ParseClock(m.inputs[fieldEnd].Value())
	if err != nil {
		errs = append(errs, session.FieldError{Field: "end", Message: err.Error()})
	}
	if len(errs) > 0 {
		return draft, errs
	}

	draft.StartsAt = day.Add(time.Duration(startMin) * time.Minute)
	draft.EndsAt = day.Add(time.Duration(endMin) * time.Minute)
	return draft, session.Validate(draft)
}

func splitIDs(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// errorFor returns the inline message for a field, if any.
func (m *Model) errorFor(field string) string {
	for _, e := range m.errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

var fieldErrorKeys = [fieldCount]string{"title", "date", "start", "end", "students", "notes"}

// View renders the field stack in a bordered frame.
func (m *Model) View() string {
	title := "New Session"
	if m.sessionID != "" {
		title = "Edit Session"
	}
	lines := []string{m.th.Title.Render(title), ""}
	for i := 0; i < fieldCount; i++ {
		label := m.th.Label.Render(fmt.Sprintf("%-9s", fieldLabels[i]))
		lines = append(lines, label+m.inputs[i].View())
		if msg := m.errorFor(fieldErrorKeys[i]); msg != "" {
			lines = append(lines, m.th.Error.Render(strings.Repeat(" ", 9)+msg))
		}
		if i == fieldStudents {
			lines = append(lines, m.renderPicker()...)
		}
	}
	help := "enter save · esc close"
	if m.sessionID != "" {
		help += " · ctrl+d delete"
	}
	if m.focus == fieldStudents {
		help = "ctrl+n/p choose · ctrl+s add · ctrl+x remove · " + help
	}
	lines = append(lines, "", m.th.Label.Render(help))
	return m.th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderPicker draws the picked participants and the current search results
// under the students field.
func (m *Model) renderPicker() []string {
	var lines []string
	indent := strings.Repeat(" ", 9)
	if len(m.picked) > 0 {
		names := make([]string, len(m.picked))
		for i, p := range m.picked {
			names[i] = p.label
		}
		lines = append(lines, indent+m.th.Label.Render(strings.Join(names, ", ")))
	}
	for i, st := range m.matches {
		marker := "  "
		style := m.th.Label
		if i == m.matchIdx {
			marker = "> "
			style = m.th.Title
		}
		lines = append(lines, indent+style.Render(marker+st.Label()))
	}
	return lines
}
