// Package timegrid holds the pure time-to-position math used by the calendar
// grid: linear minute/offset conversion, snapping, and day clamping. All
// functions are stateless and accept finite inputs only.
package timegrid

import "math"

const (
	// MinutesPerDay bounds every start/end minute the grid works with.
	MinutesPerDay = 24 * 60

	// DefaultUnitsPerHour is the vertical scale of one hour in grid units.
	DefaultUnitsPerHour = 60

	// DefaultSnapInterval is the granularity drag/resize results round to.
	DefaultSnapInterval = 15
)

// Grid converts between minutes of a day and vertical offsets. The zero
// value is not useful; construct with Default or fill both fields.
type Grid struct {
	// UnitsPerHour is how many vertical units one hour occupies.
	UnitsPerHour int
	// SnapInterval is the minute granularity gestures snap to.
	SnapInterval int
}

// Default returns the grid used across the calendar unless a view overrides
// the scale.
func Default() Grid {
	return Grid{UnitsPerHour: DefaultUnitsPerHour, SnapInterval: DefaultSnapInterval}
}

// Offset maps a minute of the day to a vertical offset in grid units.
func (g Grid) Offset(minutes int) int {
	return minutes * g.UnitsPerHour / 60
}

// Minutes maps a vertical offset back to minutes.
func (g Grid) Minutes(offset int) int {
	return offset * 60 / g.UnitsPerHour
}

// Snap rounds minutes to the grid's snap interval.
func (g Grid) Snap(minutes int) int {
	return Snap(minutes, g.SnapInterval)
}

// Snap rounds minutes to the nearest multiple of interval using round-half-up
// semantics, matching round(minutes/interval)*interval.
func Snap(minutes, interval int) int {
	if interval <= 0 {
		return minutes
	}
	return int(math.Floor(float64(minutes)/float64(interval)+0.5)) * interval
}

// ClampToDay constrains a start minute so an entry of the given duration
// never begins before 00:00 or extends past 24:00.
func ClampToDay(start, duration int) int {
	limit := MinutesPerDay - duration
	if limit < 0 {
		limit = 0
	}
	if start < 0 {
		return 0
	}
	if start > limit {
		return limit
	}
	return start
}
