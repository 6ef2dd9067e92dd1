package session

import "time"

// FieldError describes a validation failure tied to a specific input field so
// forms can surface the message inline.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Draft carries the fields a user supplies when creating or editing a
// session. It mirrors the backend's create payload.
type Draft struct {
	Title        string
	StartsAt     time.Time
	EndsAt       time.Time
	StudentIDs   []string
	ClassID      string
	SubjectIDs   []string
	TeacherNotes string
}

// Validate checks a draft before any network call is attempted. It returns
// one error per offending field; an empty slice means the draft is valid.
func Validate(d Draft) []FieldError {
	var errs []FieldError
	if d.StartsAt.IsZero() {
		errs = append(errs, FieldError{Field: "start", Message: "start time is required"})
	}
	if d.EndsAt.IsZero() {
		errs = append(errs, FieldError{Field: "end", Message: "end time is required"})
	}
	if !d.StartsAt.IsZero() && !d.EndsAt.IsZero() && !d.EndsAt.After(d.StartsAt) {
		errs = append(errs, FieldError{Field: "end", Message: "end time must be after start time"})
	}
	if len(d.StudentIDs) == 0 {
		errs = append(errs, FieldError{Field: "students", Message: "select at least one student"})
	}
	return errs
}
