package timegrid

import "testing"

func TestOffsetIsLinearAndMonotonic(t *testing.T) {
	g := Default()
	if got := g.Offset(0); got != 0 {
		t.Fatalf("offset of midnight: got %d", got)
	}
	if got := g.Offset(90); got != 90 {
		t.Fatalf("60 units/hour should map 90 minutes to 90 units, got %d", got)
	}
	prev := g.Offset(0)
	for m := 1; m <= MinutesPerDay; m++ {
		cur := g.Offset(m)
		if cur < prev {
			t.Fatalf("offset decreased at minute %d: %d < %d", m, cur, prev)
		}
		prev = cur
	}
}

func TestOffsetRoundTripAtHalfScale(t *testing.T) {
	g := Grid{UnitsPerHour: 2, SnapInterval: 15}
	if got := g.Offset(60); got != 2 {
		t.Fatalf("one hour should be 2 units, got %d", got)
	}
	if got := g.Minutes(2); got != 60 {
		t.Fatalf("2 units should be one hour, got %d", got)
	}
}

func TestSnapRoundHalfUp(t *testing.T) {
	cases := []struct {
		minutes, interval, want int
	}{
		{37, 15, 30},
		{38, 15, 45},
		{7, 15, 0},
		{8, 15, 15},
		{577, 15, 570},
		{0, 15, 0},
		{-7, 15, 0},
		{-8, 15, -15},
		{22, 0, 22}, // degenerate interval leaves input unchanged
	}
	for _, tc := range cases {
		if got := Snap(tc.minutes, tc.interval); got != tc.want {
			t.Fatalf("Snap(%d, %d): got %d want %d", tc.minutes, tc.interval, got, tc.want)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	for m := -120; m <= 1560; m += 7 {
		once := Snap(m, 15)
		if twice := Snap(once, 15); twice != once {
			t.Fatalf("snap not idempotent at %d: %d then %d", m, once, twice)
		}
	}
}

func TestClampToDayBounds(t *testing.T) {
	for _, duration := range []int{1, 15, 60, 720, 1440} {
		for _, start := range []int{-500, -1, 0, 300, 1439, 1440, 2000} {
			got := ClampToDay(start, duration)
			if got < 0 || got > MinutesPerDay-duration {
				t.Fatalf("ClampToDay(%d, %d) = %d outside [0, %d]",
					start, duration, got, MinutesPerDay-duration)
			}
		}
	}
	if got := ClampToDay(1400, 60); got != 1380 {
		t.Fatalf("expected start pulled back to 1380, got %d", got)
	}
	if got := ClampToDay(-30, 60); got != 0 {
		t.Fatalf("expected start clamped to 0, got %d", got)
	}
}
