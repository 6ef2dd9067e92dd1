// Package printers renders sessions for plain terminal output, outside the
// interactive UI.
package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
)

// AgendaPrint writes a chronological session agenda grouped by day.
type AgendaPrint struct {
	ShowIDs bool
}

// Title prints the agenda heading with the covered window.
func (ap *AgendaPrint) Title(from, to time.Time) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintf(color.Output, "Agenda %s - %s\n",
		from.Format("Mon Jan 2"), to.Format("Mon Jan 2"))
}

// Agenda prints the sessions grouped under per-day headings. Days are printed
// in order; an empty agenda prints a faint placeholder.
func (ap *AgendaPrint) Agenda(sessions []session.Session) {
	if len(sessions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(color.Output, " nothing scheduled")
		return
	}

	ordered := append([]session.Session(nil), sessions...)
	session.SortForLayout(ordered)

	day := ""
	tbl := uitable.New()
	tbl.Separator = "  "
	heading := color.New(color.Bold)
	for _, s := range ordered {
		if key := s.DayKey(); key != day {
			ap.flush(tbl)
			tbl = uitable.New()
			tbl.Separator = "  "
			day = key
			_, _ = heading.Fprintln(color.Output, "\n"+s.StartsAt.Format("Monday, January 2"))
		}
		span := fmt.Sprintf("%s-%s",
			timeutil.FormatMinutes(s.StartMinute()), timeutil.FormatMinutes(s.EndMinute()))
		row := []interface{}{span, s.Label(), studentSummary(s)}
		if ap.ShowIDs {
			row = append(row, color.New(color.Faint).Sprint(s.ID))
		}
		tbl.AddRow(row...)
	}
	ap.flush(tbl)
}

func (ap *AgendaPrint) flush(tbl *uitable.Table) {
	if len(tbl.Rows) == 0 {
		return
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func studentSummary(s session.Session) string {
	if len(s.Students) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.Students))
	for _, st := range s.Students {
		names = append(names, st.Label())
	}
	return strings.Join(names, ", ")
}
