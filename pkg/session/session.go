// Package session defines the scheduled-session domain model shared by the
// calendar views, the optimistic overlay, and the API client.
package session

import (
	"sort"
	"strings"
	"time"
)

// Subject is a category tag attached to a session. Color carries the hex
// display color assigned by the backend.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Student is a hydrated participant record.
type Student struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	GradeLevel  string `json:"grade_level,omitempty"`
}

// Label resolves the student's display label. Precedence: DisplayName,
// then FullName, then a placeholder.
func (s Student) Label() string {
	if name := strings.TrimSpace(s.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(s.FullName); name != "" {
		return name
	}
	return "Student"
}

// Session is a scheduled, time-boxed record shown as a block in the calendar
// grid. EndsAt is strictly after StartsAt in valid data; layout code clamps
// defensively rather than trusting it.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	StudentIDs   []string  `json:"student_ids"`
	ClassID      string    `json:"class_id,omitempty"`
	SubjectIDs   []string  `json:"subject_ids,omitempty"`
	TeacherNotes string    `json:"teacher_notes,omitempty"`
	Subjects     []Subject `json:"subjects,omitempty"`
	Students     []Student `json:"students,omitempty"`
}

// Label resolves the session's display label. Precedence: Title, then the
// first subject name, then the first student label, then a placeholder.
func (s Session) Label() string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	for _, sub := range s.Subjects {
		if name := strings.TrimSpace(sub.Name); name != "" {
			return name
		}
	}
	if len(s.Students) > 0 {
		return s.Students[0].Label()
	}
	return "Session"
}

// Duration returns the scheduled length of the session.
func (s Session) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// StartMinute returns the start as a minute of its local day.
func (s Session) StartMinute() int {
	return s.StartsAt.Hour()*60 + s.StartsAt.Minute()
}

// EndMinute returns the end as a minute of the start's day. Sessions that
// spill past midnight report 1440 so layout stays within the day.
func (s Session) EndMinute() int {
	if !sameDay(s.StartsAt, s.EndsAt) {
		return 24 * 60
	}
	return s.EndsAt.Hour()*60 + s.EndsAt.Minute()
}

// DayKey returns the ISO date bucket the session belongs to.
func (s Session) DayKey() string {
	return s.StartsAt.Format("2006-01-02")
}

// Day returns the session's calendar day at midnight local time.
func (s Session) Day() time.Time {
	t := s.StartsAt
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SortForLayout orders sessions by start ascending with ties broken by end
// descending (longer first). Column assignment depends on this ordering being
// deterministic.
func SortForLayout(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		li, lj := sessions[i], sessions[j]
		if !li.StartsAt.Equal(lj.StartsAt) {
			return li.StartsAt.Before(lj.StartsAt)
		}
		return li.EndsAt.After(lj.EndsAt)
	})
}

// GroupByDay buckets sessions by their DayKey.
func GroupByDay(sessions []Session) map[string][]Session {
	byDay := make(map[string][]Session, len(sessions))
	for _, s := range sessions {
		key := s.DayKey()
		byDay[key] = append(byDay[key], s)
	}
	return byDay
}
