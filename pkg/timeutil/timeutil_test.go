package timeutil

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"1w", 7 * 24 * time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"1w2d6h", 9*24*time.Hour + 6*time.Hour},
		{"", 7 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseWindow(tc.input)
		if err != nil {
			t.Fatalf("ParseWindow(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseWindow(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
	for _, bad := range []string{"0d", "abc", "3y"} {
		if _, err := ParseWindow(bad); err == nil {
			t.Fatalf("ParseWindow(%q): expected error", bad)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		570:  "09:30",
		615:  "10:15",
		1440: "24:00",
	}
	for minutes, want := range cases {
		if got := FormatMinutes(minutes); got != want {
			t.Fatalf("FormatMinutes(%d): got %q want %q", minutes, got, want)
		}
	}
}

func TestParseClockRoundTrip(t *testing.T) {
	for _, minutes := range []int{0, 75, 570, 1439} {
		got, err := ParseClock(FormatMinutes(minutes))
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", FormatMinutes(minutes), err)
		}
		if got != minutes {
			t.Fatalf("round trip of %d gave %d", minutes, got)
		}
	}
	for _, bad := range []string{"9:3x", "25:00", "10:75", "noon"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q): expected error", bad)
		}
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	// 2026-03-11 is a Wednesday.
	wednesday := time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC)
	got := WeekStart(wednesday)
	want := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("WeekStart: got %v want %v", got, want)
	}
	// A Monday maps to itself at midnight.
	if got := WeekStart(want.Add(5 * time.Hour)); !got.Equal(want) {
		t.Fatalf("WeekStart of monday: got %v", got)
	}
	// A Sunday maps back to the previous Monday.
	sunday := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(want) {
		t.Fatalf("WeekStart of sunday: got %v", got)
	}
}

func TestMonthGridRangeSpansSixWeeks(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	start, end := MonthGridRange(march)
	// March 1st 2026 is a Sunday, so the grid starts Monday Feb 23rd.
	wantStart := time.Date(2026, time.February, 23, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("grid start: got %v want %v", start, wantStart)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days != 42 {
		t.Fatalf("grid should span 42 days, got %d", days)
	}
	if end.Weekday() != time.Sunday {
		t.Fatalf("grid should end on Sunday, got %v", end.Weekday())
	}
}

func TestMidnight(t *testing.T) {
	at := time.Date(2026, time.March, 11, 15, 30, 45, 0, time.UTC)
	got := Midnight(at)
	want := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Midnight: got %v want %v", got, want)
	}
}

func TestNextWholeHour(t *testing.T) {
	base := time.Date(2026, time.March, 9, 9, 20, 0, 0, time.UTC)
	if got := NextWholeHour(base); got.Hour() != 10 || got.Minute() != 0 {
		t.Fatalf("NextWholeHour: got %v", got)
	}
	onTheHour := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	if got := NextWholeHour(onTheHour); got.Hour() != 10 {
		t.Fatalf("an instant already on the hour rolls forward, got %v", got)
	}
}
