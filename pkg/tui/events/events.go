// Package events defines the typed messages calendar components exchange
// through the Bubble Tea update loop. Pointer, selection, and range messages
// are explicit types so the interaction state machine stays testable without
// a terminal.
package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// SessionRef carries the fields needed to identify a session block in
// cross-component events.
type SessionRef struct {
	ID       string
	Title    string
	Day      time.Time
	StartMin int
	EndMin   int
}

// Label returns a human-friendly identifier for the session.
func (r SessionRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// PointerDownMsg is a pointer press translated from the terminal mouse
// event, in screen cells.
type PointerDownMsg struct {
	X int
	Y int
}

// Describe renders the press for logs.
func (m PointerDownMsg) Describe() string {
	return fmt.Sprintf(`x:%d y:%d state:"down"`, m.X, m.Y)
}

// PointerMoveMsg is pointer motion while a button is held.
type PointerMoveMsg struct {
	X int
	Y int
}

// Describe renders the motion for logs.
func (m PointerMoveMsg) Describe() string {
	return fmt.Sprintf(`x:%d y:%d state:"move"`, m.X, m.Y)
}

// PointerUpMsg is a pointer release.
type PointerUpMsg struct {
	X int
	Y int
}

// Describe renders the release for logs.
func (m PointerUpMsg) Describe() string {
	return fmt.Sprintf(`x:%d y:%d state:"up"`, m.X, m.Y)
}

// SessionSelectMsg fires when the user activates a session block (click or
// Enter); the host opens the edit surface with the fields pre-populated.
type SessionSelectMsg struct {
	Component ComponentID
	Session   SessionRef
}

// Describe renders the selection for logs.
func (m SessionSelectMsg) Describe() string {
	return fmt.Sprintf(`component:%q session:%q`, m.Component, m.Session.Label())
}

// SessionSelectCmd wraps SessionSelectMsg in a tea.Cmd.
func SessionSelectCmd(component ComponentID, ref SessionRef) tea.Cmd {
	return func() tea.Msg {
		return SessionSelectMsg{Component: component, Session: ref}
	}
}

// SlotSelectMsg fires when the user activates an empty slot; the host opens
// the creation surface. Minute is the clicked minute of the day, or negative
// when no explicit hour was chosen (month cells), in which case the creation
// surface defaults to the next whole hour.
type SlotSelectMsg struct {
	Component ComponentID
	Day       time.Time
	Minute    int
}

// Describe renders the slot selection for logs.
func (m SlotSelectMsg) Describe() string {
	return fmt.Sprintf(`component:%q day:%q minute:%d`,
		m.Component, m.Day.Format("2006-01-02"), m.Minute)
}

// SlotSelectCmd wraps SlotSelectMsg in a tea.Cmd.
func SlotSelectCmd(component ComponentID, day time.Time, minute int) tea.Cmd {
	return func() tea.Msg {
		return SlotSelectMsg{Component: component, Day: day, Minute: minute}
	}
}

// GestureCommitMsg fires when a drag or resize gesture releases: the final
// snapped position should be persisted optimistically.
type GestureCommitMsg struct {
	Component ComponentID
	SessionID string
	Day       time.Time
	StartMin  int
	EndMin    int
}

// Describe renders the commit for logs.
func (m GestureCommitMsg) Describe() string {
	return fmt.Sprintf(`component:%q session:%q day:%q range:"%d-%d"`,
		m.Component, m.SessionID, m.Day.Format("2006-01-02"), m.StartMin, m.EndMin)
}

// GestureCommitCmd wraps GestureCommitMsg in a tea.Cmd.
func GestureCommitCmd(component ComponentID, sessionID string, day time.Time, startMin, endMin int) tea.Cmd {
	return func() tea.Msg {
		return GestureCommitMsg{
			Component: component,
			SessionID: sessionID,
			Day:       day,
			StartMin:  startMin,
			EndMin:    endMin,
		}
	}
}

// RangeChangeMsg announces that the visible date window changed so the host
// can fetch the sessions it needs. Emitted only when the boundaries actually
// differ from the previously reported window.
type RangeChangeMsg struct {
	Component ComponentID
	From      time.Time
	To        time.Time
}

// Describe renders the range for logs.
func (m RangeChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q from:%q to:%q`,
		m.Component, m.From.Format("2006-01-02"), m.To.Format("2006-01-02"))
}

// RangeChangeCmd wraps RangeChangeMsg in a tea.Cmd.
func RangeChangeCmd(component ComponentID, from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		return RangeChangeMsg{Component: component, From: from, To: to}
	}
}

// ChangeType tags the kind of write a save completion confirmed.
type ChangeType string

const (
	// ChangeCreate indicates a new session was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing session changed.
	ChangeUpdate ChangeType = "update"
)

// StudentSearchMsg asks the root model to query the student directory for
// the form's picker. The form never calls the network itself; results come
// back through SetStudentMatches.
type StudentSearchMsg struct {
	Component ComponentID
	Query     string
}

// Describe renders the search request for logs.
func (m StudentSearchMsg) Describe() string {
	return fmt.Sprintf(`component:%q query:%q`, m.Component, m.Query)
}

// StudentSearchCmd wraps StudentSearchMsg in a tea.Cmd.
func StudentSearchCmd(component ComponentID, query string) tea.Cmd {
	return func() tea.Msg {
		return StudentSearchMsg{Component: component, Query: query}
	}
}

// SaveRequestMsg asks the root model to persist a validated draft. An empty
// SessionID means create; otherwise it is a full edit of that session.
type SaveRequestMsg struct {
	Component ComponentID
	SessionID string
	Draft     DraftRef
}

// DraftRef mirrors the form fields handed to the root model for persistence.
type DraftRef struct {
	Title        string
	Day          time.Time
	StartMin     int
	EndMin       int
	StudentIDs   []string
	TeacherNotes string
}

// Describe renders the save request for logs.
func (m SaveRequestMsg) Describe() string {
	verb := "create"
	if m.SessionID != "" {
		verb = "update"
	}
	return fmt.Sprintf(`component:%q action:%q title:%q`, m.Component, verb, m.Draft.Title)
}

// DeleteRequestMsg asks the root model to delete a session and close any
// open edit surface.
type DeleteRequestMsg struct {
	Component ComponentID
	SessionID string
}

// Describe renders the delete request for logs.
func (m DeleteRequestMsg) Describe() string {
	return fmt.Sprintf(`component:%q session:%q`, m.Component, m.SessionID)
}

// FormClosedMsg fires when the edit surface dismisses itself.
type FormClosedMsg struct {
	Component ComponentID
}

// Describe renders the close for logs.
func (m FormClosedMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"closed"`, m.Component)
}
