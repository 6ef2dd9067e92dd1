// Package gesture tracks pointer-driven move and resize interactions on
// calendar blocks. The machine is pure state: callers feed it pointer
// down/move/up coordinates and read back previews and commit results, which
// keeps the whole transition table testable without a UI event loop.
package gesture

import (
	"math"
	"time"

	"github.com/Guisb12/lusia-cal/pkg/timegrid"
)

// DefaultThreshold is the pointer displacement, in grid units, below which a
// press-and-release is treated as a plain click rather than a drag.
const DefaultThreshold = 5

// Phase is the machine's current state.
type Phase int

const (
	// PhaseIdle means no gesture is in progress.
	PhaseIdle Phase = iota
	// PhasePressed means the pointer is down but has not crossed the
	// drag threshold yet.
	PhasePressed
	// PhaseDragging means the block is being moved.
	PhaseDragging
	// PhaseResizing means one edge of the block is being moved.
	PhaseResizing
)

// Edge identifies which edge of a block a resize grabbed.
type Edge int

const (
	// EdgeNone marks a press on the block body (drag candidate).
	EdgeNone Edge = iota
	// EdgeTop resizes the start time.
	EdgeTop
	// EdgeBottom resizes the end time.
	EdgeBottom
)

// Pointer is a screen position in grid units.
type Pointer struct {
	X int
	Y int
}

// DayColumn describes the horizontal extent of one rendered day so a drag
// can land on a different date. Columns are checked left to right; the first
// one containing the pointer wins.
type DayColumn struct {
	Date time.Time
	MinX int
	MaxX int
}

// Preview is the live position of the manipulated block while a gesture is
// in progress. Each pointer move fully overwrites the previous preview.
type Preview struct {
	SessionID string
	Day       time.Time
	StartMin  int
	EndMin    int
}

// ResultKind classifies what a pointer release produced.
type ResultKind int

const (
	// ResultNone: release with no gesture in progress.
	ResultNone ResultKind = iota
	// ResultClick: threshold never crossed; treat as opening the entry.
	ResultClick
	// ResultCommit: final snapped position should be persisted.
	ResultCommit
)

// Result is the outcome of a pointer release.
type Result struct {
	Kind      ResultKind
	SessionID string
	Day       time.Time
	StartMin  int
	EndMin    int
}

// Options configure a machine. Zero values fall back to the default grid and
// threshold.
type Options struct {
	Grid      timegrid.Grid
	Threshold int
}

// Machine holds at most one active gesture. Starting a new press while a
// gesture is active supersedes the old one.
type Machine struct {
	grid      timegrid.Grid
	threshold int

	phase Phase
	edge  Edge

	sessionID string
	day       time.Time
	origin    Pointer
	current   Pointer

	// anchors captured at pointer-down
	startMin int
	endMin   int
	duration int

	columns []DayColumn
	preview Preview
}

// NewMachine builds an idle machine.
func NewMachine(opts Options) *Machine {
	grid := opts.Grid
	if grid.UnitsPerHour <= 0 {
		grid = timegrid.Default()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Machine{grid: grid, threshold: threshold}
}

// Phase reports the current state.
func (m *Machine) Phase() Phase { return m.phase }

// SetDayColumns installs the horizontal day bounds used to resolve which
// date a drag currently hovers. Safe to call mid-gesture (e.g. on resize).
func (m *Machine) SetDayColumns(cols []DayColumn) {
	m.columns = cols
}

// PointerDown begins a gesture on the given session block. edge selects a
// resize; EdgeNone is a drag candidate. startMin/endMin are the block's
// current minutes of its day.
func (m *Machine) PointerDown(sessionID string, day time.Time, startMin, endMin int, edge Edge, p Pointer) {
	m.phase = PhasePressed
	m.edge = edge
	m.sessionID = sessionID
	m.day = day
	m.origin = p
	m.current = p
	m.startMin = startMin
	m.endMin = endMin
	m.duration = endMin - startMin
	m.preview = Preview{SessionID: sessionID, Day: day, StartMin: startMin, EndMin: endMin}
}

// PointerMove updates the live preview. It returns the preview and true once
// the gesture has crossed the threshold; below-threshold movement is ignored.
func (m *Machine) PointerMove(p Pointer) (Preview, bool) {
	switch m.phase {
	case PhaseIdle:
		return Preview{}, false
	case PhasePressed:
		if !m.crossedThreshold(p) {
			m.current = p
			return Preview{}, false
		}
		if m.edge == EdgeNone {
			m.phase = PhaseDragging
		} else {
			m.phase = PhaseResizing
		}
	}
	m.current = p
	m.recomputePreview()
	return m.preview, true
}

// PointerUp ends the gesture. A press that never crossed the threshold is a
// click; an active drag or resize commits whatever the current preview says.
// The machine returns to idle either way; there is no cancel path.
func (m *Machine) PointerUp(p Pointer) Result {
	defer m.reset()
	switch m.phase {
	case PhaseIdle:
		return Result{Kind: ResultNone}
	case PhasePressed:
		return Result{Kind: ResultClick, SessionID: m.sessionID, Day: m.day,
			StartMin: m.startMin, EndMin: m.endMin}
	}
	m.current = p
	m.recomputePreview()
	return Result{
		Kind:      ResultCommit,
		SessionID: m.preview.SessionID,
		Day:       m.preview.Day,
		StartMin:  m.preview.StartMin,
		EndMin:    m.preview.EndMin,
	}
}

// Preview returns the most recent live preview. Only meaningful while
// dragging or resizing.
func (m *Machine) Preview() Preview { return m.preview }

func (m *Machine) reset() {
	m.phase = PhaseIdle
	m.edge = EdgeNone
	m.sessionID = ""
	m.preview = Preview{}
}

func (m *Machine) crossedThreshold(p Pointer) bool {
	dx := float64(p.X - m.origin.X)
	dy := float64(p.Y - m.origin.Y)
	if m.edge == EdgeNone {
		return math.Hypot(dx, dy) >= float64(m.threshold)
	}
	return math.Abs(dy) >= float64(m.threshold)
}

func (m *Machine) recomputePreview() {
	deltaMin := m.grid.Minutes(m.current.Y - m.origin.Y)
	snap := m.grid.SnapInterval
	if snap <= 0 {
		snap = timegrid.DefaultSnapInterval
	}

	switch m.phase {
	case PhaseDragging:
		start := timegrid.Snap(m.startMin+deltaMin, snap)
		start = timegrid.ClampToDay(start, m.duration)
		m.preview = Preview{
			SessionID: m.sessionID,
			Day:       m.dayUnderPointer(),
			StartMin:  start,
			EndMin:    start + m.duration,
		}
	case PhaseResizing:
		start, end := m.startMin, m.endMin
		switch m.edge {
		case EdgeTop:
			start = timegrid.Snap(m.startMin+deltaMin, snap)
			if start > end-snap {
				start = end - snap
			}
			if start < 0 {
				start = 0
			}
		case EdgeBottom:
			end = timegrid.Snap(m.endMin+deltaMin, snap)
			if end < start+snap {
				end = start + snap
			}
			if end > timegrid.MinutesPerDay {
				end = timegrid.MinutesPerDay
			}
		}
		m.preview = Preview{
			SessionID: m.sessionID,
			Day:       m.day,
			StartMin:  start,
			EndMin:    end,
		}
	}
}

func (m *Machine) dayUnderPointer() time.Time {
	for _, col := range m.columns {
		if m.current.X >= col.MinX && m.current.X <= col.MaxX {
			return col.Date
		}
	}
	return m.day
}
