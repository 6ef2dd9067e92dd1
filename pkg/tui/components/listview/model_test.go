package listview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
)

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func view(m *Model) string { return stripANSI(m.View()) }

func at(d, hh, mm int) time.Time {
	return time.Date(2026, time.March, d, hh, mm, 0, 0, time.Local)
}

func entry(id string, d, hh int) session.Session {
	return session.Session{
		ID:       id,
		Title:    "Session " + id,
		StartsAt: at(d, hh, 0),
		EndsAt:   at(d, hh+1, 0),
	}
}

func newTestModel(sessions ...session.Session) *Model {
	m := NewModel("list", at(11, 0, 0), at(11, 9, 0))
	m.SetSize(60, 20)
	m.SetSessions(sessions)
	return m
}

func TestRangeCoversWholeMonth(t *testing.T) {
	m := newTestModel()
	from, to := m.Range()
	if got, want := from.Format("2006-01-02"), "2026-03-01"; got != want {
		t.Fatalf("from = %s, want %s", got, want)
	}
	if got, want := to.Format("2006-01-02"), "2026-03-31"; got != want {
		t.Fatalf("to = %s, want %s", got, want)
	}
}

func TestPastDatesHiddenUntilToggled(t *testing.T) {
	m := newTestModel(entry("a", 2, 9), entry("b", 11, 10), entry("c", 20, 14))

	out := view(m)
	if strings.Contains(out, "Session a") {
		t.Fatal("past entry visible without toggle")
	}
	if !strings.Contains(out, "Session b") || !strings.Contains(out, "Session c") {
		t.Fatalf("today/future entries missing:\n%s", out)
	}
	if !strings.Contains(out, "1 earlier this month hidden") {
		t.Fatalf("hidden count missing:\n%s", out)
	}

	m.Update(tea.KeyPressMsg{Text: "p", Code: 'p'})
	out = view(m)
	if !strings.Contains(out, "Session a") {
		t.Fatalf("past entry still hidden after toggle:\n%s", out)
	}

	m.Update(tea.KeyPressMsg{Text: "p", Code: 'p'})
	if strings.Contains(view(m), "Session a") {
		t.Fatal("past entry visible after toggling back")
	}
}

func TestTodayEntriesAreNotPast(t *testing.T) {
	m := newTestModel(entry("morning", 11, 7))
	if !strings.Contains(view(m), "Session morning") {
		t.Fatal("an entry earlier today must not be collapsed")
	}
}

func TestEnterSelectsEntryUnderCursor(t *testing.T) {
	m := newTestModel(entry("b", 11, 10), entry("c", 20, 14))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on an entry should emit a command")
	}
	msg, ok := cmd().(events.SessionSelectMsg)
	if !ok {
		t.Fatalf("expected SessionSelectMsg, got %T", cmd())
	}
	if msg.Session.ID != "b" {
		t.Fatalf("selected %q, want b", msg.Session.ID)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg = cmd().(events.SessionSelectMsg)
	if msg.Session.ID != "c" {
		t.Fatalf("selected %q after moving down, want c", msg.Session.ID)
	}
}

func TestCursorSkipsHeadings(t *testing.T) {
	m := newTestModel(entry("b", 11, 10), entry("c", 20, 14))
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := cmd().(events.SessionSelectMsg)
	if msg.Session.ID != "b" {
		t.Fatalf("selected %q after down+up, want b", msg.Session.ID)
	}
}

func TestParticipantsResolveThroughCache(t *testing.T) {
	s := entry("b", 11, 10)
	s.StudentIDs = []string{"stu-1", "stu-2"}
	m := newTestModel(s)

	out := view(m)
	if !strings.Contains(out, "stu-1, stu-2") {
		t.Fatalf("raw ids missing without resolver:\n%s", out)
	}

	m.SetResolver(func(id, fallback string) string {
		if id == "stu-1" {
			return "Ana"
		}
		return fallback
	})
	out = view(m)
	if !strings.Contains(out, "Ana, stu-2") {
		t.Fatalf("resolved names missing:\n%s", out)
	}
}

func TestEmptyMonth(t *testing.T) {
	m := newTestModel()
	if !strings.Contains(view(m), "no sessions this month") {
		t.Fatal("empty state missing")
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("enter on empty list should be a no-op")
	}
}
