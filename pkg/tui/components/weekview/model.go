// Package weekview renders the week presentation: one column per day of a
// Monday-start week over a scrollable 24-hour grid, with pointer-driven move
// and resize gestures on session blocks and a live current-time indicator.
package weekview

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Guisb12/lusia-cal/pkg/gesture"
	"github.com/Guisb12/lusia-cal/pkg/layout"
	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timegrid"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
	"github.com/Guisb12/lusia-cal/pkg/tui/theme"
)

const (
	daysPerWeek = 7

	// One grid row covers 30 minutes, so a day is 48 rows tall.
	rowsPerHour = 2
	totalRows   = 24 * rowsPerHour

	// gutterWidth is the "HH:MM " hour-label column.
	gutterWidth = 6

	headerRows = 1

	// nowTickInterval refreshes the current-time indicator while the view
	// is mounted.
	nowTickInterval = time.Minute
)

// ClockTickMsg carries the periodic clock refresh. It is exported so the
// host can route it here even while another view is active; otherwise the
// tick chain would die the first time the user left the week view.
type ClockTickMsg struct {
	At time.Time
}

// block is a laid-out session with its screen rectangle, kept from the last
// render so pointer hits can be resolved.
type block struct {
	item   layout.Item
	dayIdx int
	x0, x1 int // inclusive screen columns
	r0, r1 int // inclusive grid rows (unscrolled)
}

// Model is the week grid component.
type Model struct {
	id events.ComponentID
	th theme.WeekTheme

	weekStart time.Time
	now       time.Time

	sessions map[string][]session.Session

	grid    timegrid.Grid
	machine *gesture.Machine

	preview       gesture.Preview
	previewActive bool

	// emptyDay/emptyMinute track a press on an empty slot so a motionless
	// release can open the creation surface for that slot.
	emptyPress  bool
	emptyDay    time.Time
	emptyMinute int
	emptyAt     gesture.Pointer

	blocks []block

	cursorDay int // keyboard-selected day column
	scroll    int // first visible grid row
	width     int
	height    int
}

// NewModel builds a week view anchored at the week containing ref.
func NewModel(id events.ComponentID, ref, now time.Time, snapInterval int) *Model {
	if snapInterval <= 0 {
		snapInterval = timegrid.DefaultSnapInterval
	}
	grid := timegrid.Grid{UnitsPerHour: rowsPerHour, SnapInterval: snapInterval}
	return &Model{
		id:        id,
		th:        theme.Default().Week,
		weekStart: timeutil.WeekStart(ref),
		now:       now,
		sessions:  map[string][]session.Session{},
		grid:      grid,
		// Terminal cells are coarse: one row of travel is deliberate
		// movement, so the click/drag threshold is a single unit here.
		machine: gesture.NewMachine(gesture.Options{Grid: grid, Threshold: 1}),
		scroll:  8 * rowsPerHour, // open the view at 08:00
	}
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init starts the current-time ticker.
func (m *Model) Init() tea.Cmd { return m.tickNow() }

func (m *Model) tickNow() tea.Cmd {
	return tea.Tick(nowTickInterval, func(t time.Time) tea.Msg {
		return ClockTickMsg{At: t}
	})
}

// SetSize stores the available area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetWeek moves the grid to the week containing ref.
func (m *Model) SetWeek(ref time.Time) {
	m.weekStart = timeutil.WeekStart(ref)
}

// WeekStart returns the Monday anchoring the visible week.
func (m *Model) WeekStart() time.Time { return m.weekStart }

// SetSessions replaces the entry collection backing the grid.
func (m *Model) SetSessions(sessions []session.Session) {
	m.sessions = session.GroupByDay(sessions)
}

// Range reports the date span the grid needs data for.
func (m *Model) Range() (time.Time, time.Time) {
	return m.weekStart, m.weekStart.AddDate(0, 0, daysPerWeek-1)
}

// GesturePhase exposes the interaction state for the root model's routing.
func (m *Model) GesturePhase() gesture.Phase { return m.machine.Phase() }

func (m *Model) contentHeight() int {
	h := m.height - headerRows
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) dayWidth() int {
	w := (m.width - gutterWidth) / daysPerWeek
	if w < 3 {
		w = 3
	}
	return w
}

// dayColumns describes the horizontal bounds of each rendered day for the
// gesture machine's cross-day drags.
func (m *Model) dayColumns() []gesture.DayColumn {
	cols := make([]gesture.DayColumn, daysPerWeek)
	w := m.dayWidth()
	for i := 0; i < daysPerWeek; i++ {
		x0 := gutterWidth + i*w
		cols[i] = gesture.DayColumn{
			Date: m.weekStart.AddDate(0, 0, i),
			MinX: x0,
			MaxX: x0 + w - 1,
		}
	}
	return cols
}

// Update handles keys, the clock tick, and translated pointer messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClockTickMsg:
		m.now = msg.At
		return m, m.tickNow()
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case events.PointerDownMsg:
		m.pointerDown(gesture.Pointer{X: msg.X, Y: msg.Y})
	case events.PointerMoveMsg:
		m.pointerMove(gesture.Pointer{X: msg.X, Y: msg.Y})
	case events.PointerUpMsg:
		return m, m.pointerUp(gesture.Pointer{X: msg.X, Y: msg.Y})
	}
	return m, nil
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < totalRows-m.contentHeight() {
			m.scroll++
		}
	case "left", "h":
		if m.cursorDay > 0 {
			m.cursorDay--
		}
	case "right", "l":
		if m.cursorDay < daysPerWeek-1 {
			m.cursorDay++
		}
	case "n", "enter":
		day := m.weekStart.AddDate(0, 0, m.cursorDay)
		return events.SlotSelectCmd(m.id, day, -1)
	}
	return nil
}

// hitTest finds the rendered block under a screen position.
func (m *Model) hitTest(p gesture.Pointer) (block, bool) {
	row := m.rowAt(p.Y)
	for _, b := range m.blocks {
		if p.X >= b.x0 && p.X <= b.x1 && row >= b.r0 && row <= b.r1 {
			return b, true
		}
	}
	return block{}, false
}

// rowAt converts a screen y into an unscrolled grid row.
func (m *Model) rowAt(y int) int {
	return y - headerRows + m.scroll
}

// gridPointer rebases a screen position into the machine's coordinate
// space: x stays in screen cells (day columns are screen-based), y becomes
// the unscrolled grid row so vertical deltas translate to minutes.
func (m *Model) gridPointer(p gesture.Pointer) gesture.Pointer {
	return gesture.Pointer{X: p.X, Y: m.rowAt(p.Y)}
}

func (m *Model) pointerDown(p gesture.Pointer) {
	m.emptyPress = false
	m.previewActive = false
	m.machine.SetDayColumns(m.dayColumns())

	if b, ok := m.hitTest(p); ok {
		edge := gesture.EdgeNone
		row := m.rowAt(p.Y)
		switch {
		case b.r1 > b.r0 && row == b.r0:
			edge = gesture.EdgeTop
		case b.r1 > b.r0 && row == b.r1:
			edge = gesture.EdgeBottom
		}
		day := m.weekStart.AddDate(0, 0, b.dayIdx)
		m.machine.PointerDown(b.item.Session.ID, day, b.item.StartMin, b.item.EndMin, edge, m.gridPointer(p))
		return
	}

	// Press on an empty slot: remember it so a motionless release opens
	// the creation surface at the clicked hour.
	if day, minute, ok := m.slotAt(p); ok {
		m.emptyPress = true
		m.emptyDay = day
		m.emptyMinute = minute
		m.emptyAt = p
	}
}

func (m *Model) slotAt(p gesture.Pointer) (time.Time, int, bool) {
	row := m.rowAt(p.Y)
	if row < 0 || row >= totalRows || p.X < gutterWidth {
		return time.Time{}, 0, false
	}
	idx := (p.X - gutterWidth) / m.dayWidth()
	if idx < 0 || idx >= daysPerWeek {
		return time.Time{}, 0, false
	}
	// Creation slots are whole hours.
	hour := row / rowsPerHour
	return m.weekStart.AddDate(0, 0, idx), hour * 60, true
}

func (m *Model) pointerMove(p gesture.Pointer) {
	if preview, active := m.machine.PointerMove(m.gridPointer(p)); active {
		m.preview = preview
		m.previewActive = true
	}
}

func (m *Model) pointerUp(p gesture.Pointer) tea.Cmd {
	defer func() { m.previewActive = false }()
	res := m.machine.PointerUp(m.gridPointer(p))
	switch res.Kind {
	case gesture.ResultClick:
		return events.SessionSelectCmd(m.id, events.SessionRef{
			ID:       res.SessionID,
			Day:      res.Day,
			StartMin: res.StartMin,
			EndMin:   res.EndMin,
		})
	case gesture.ResultCommit:
		return events.GestureCommitCmd(m.id, res.SessionID, res.Day, res.StartMin, res.EndMin)
	}
	if m.emptyPress {
		m.emptyPress = false
		if p.X == m.emptyAt.X && p.Y == m.emptyAt.Y {
			return events.SlotSelectCmd(m.id, m.emptyDay, m.emptyMinute)
		}
	}
	return nil
}

// layoutDays computes per-day block placement for the current week, with the
// live gesture preview substituted over the underlying sessions.
func (m *Model) layoutDays() [][]layout.Item {
	days := make([][]layout.Item, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		day := m.weekStart.AddDate(0, 0, i)
		entries := append([]session.Session(nil), m.sessions[day.Format("2006-01-02")]...)
		if m.previewActive {
			entries = m.applyPreview(entries, day)
		}
		days[i] = layout.Compute(entries, m.grid)
	}
	return days
}

// applyPreview removes the dragged session from days it no longer occupies
// and injects the preview position into the day it hovers.
func (m *Model) applyPreview(entries []session.Session, day time.Time) []session.Session {
	out := entries[:0]
	var moved *session.Session
	for _, s := range entries {
		if s.ID == m.preview.SessionID {
			copied := s
			moved = &copied
			continue
		}
		out = append(out, s)
	}
	if !timeutil.SameDay(day, m.preview.Day) {
		return out
	}
	var ghost session.Session
	if moved != nil {
		ghost = *moved
	} else if orig, ok := m.findSession(m.preview.SessionID); ok {
		ghost = orig
	} else {
		ghost = session.Session{ID: m.preview.SessionID}
	}
	ghost.StartsAt = day.Add(time.Duration(m.preview.StartMin) * time.Minute)
	ghost.EndsAt = day.Add(time.Duration(m.preview.EndMin) * time.Minute)
	return append(out, ghost)
}

func (m *Model) findSession(id string) (session.Session, bool) {
	for _, bucket := range m.sessions {
		for _, s := range bucket {
			if s.ID == id {
				return s, true
			}
		}
	}
	return session.Session{}, false
}

// View renders the visible slice of the 24-hour grid and records block
// rectangles for pointer hit testing.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	dayWidth := m.dayWidth()
	days := m.layoutDays()
	m.blocks = m.collectBlocks(days, dayWidth)

	var b strings.Builder
	b.WriteString(m.renderHeader(dayWidth))

	nowRow, nowDay := m.nowIndicator()
	visible := m.contentHeight()
	for line := 0; line < visible; line++ {
		row := m.scroll + line
		if row >= totalRows {
			break
		}
		b.WriteString("\n")
		b.WriteString(m.renderRow(row, dayWidth, nowRow, nowDay))
	}
	return b.String()
}

func (m *Model) renderHeader(dayWidth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for i := 0; i < daysPerWeek; i++ {
		day := m.weekStart.AddDate(0, 0, i)
		label := day.Format("Mon 02")
		if timeutil.SameDay(day, m.now) {
			label = "*" + label
		}
		b.WriteString(m.th.Header.Render(padTo(label, dayWidth)))
	}
	return b.String()
}

// nowIndicator returns the grid row and day column of the current-time
// line, or (-1, -1) when today is outside the visible week.
func (m *Model) nowIndicator() (int, int) {
	for i := 0; i < daysPerWeek; i++ {
		if timeutil.SameDay(m.weekStart.AddDate(0, 0, i), m.now) {
			minute := m.now.Hour()*60 + m.now.Minute()
			return m.grid.Offset(minute), i
		}
	}
	return -1, -1
}

func (m *Model) renderRow(row, dayWidth, nowRow, nowDay int) string {
	var b strings.Builder
	if row%rowsPerHour == 0 {
		b.WriteString(m.th.HourLabel.Render(padTo(timeutil.FormatMinutes(row/rowsPerHour*60), gutterWidth)))
	} else {
		b.WriteString(strings.Repeat(" ", gutterWidth))
	}
	for day := 0; day < daysPerWeek; day++ {
		b.WriteString(m.renderDayCell(day, row, dayWidth, nowRow == row && nowDay == day))
	}
	return b.String()
}

func (m *Model) renderDayCell(dayIdx, row, dayWidth int, isNow bool) string {
	covering := make([]block, 0, 2)
	for _, blk := range m.blocks {
		if blk.dayIdx == dayIdx && row >= blk.r0 && row <= blk.r1 {
			covering = append(covering, blk)
		}
	}
	if len(covering) == 0 {
		if isNow {
			return m.th.NowLine.Render(strings.Repeat("─", dayWidth))
		}
		if row%rowsPerHour == 0 {
			return m.th.GridLine.Render(strings.Repeat("┄", dayWidth))
		}
		return strings.Repeat(" ", dayWidth)
	}

	x0 := gutterWidth + dayIdx*dayWidth
	cell := make([]string, 0, len(covering)+1)
	cursor := x0
	for _, blk := range covering {
		if blk.x0 > cursor {
			cell = append(cell, strings.Repeat(" ", blk.x0-cursor))
			cursor = blk.x0
		}
		width := blk.x1 - blk.x0 + 1
		text := ""
		if row == blk.r0 {
			text = truncate(blk.item.Session.Label(), width)
		}
		style := m.th.Block
		if m.previewActive && blk.item.Session.ID == m.preview.SessionID {
			style = m.th.Preview
		} else if c := subjectStyle(blk.item.Session); c != "" {
			style = style.Background(theme.SubjectColor(c, lipgloss.Color("25")))
		}
		cell = append(cell, style.Render(padTo(text, width)))
		cursor = blk.x1 + 1
	}
	if end := x0 + dayWidth; cursor < end {
		cell = append(cell, strings.Repeat(" ", end-cursor))
	}
	return strings.Join(cell, "")
}

func subjectStyle(s session.Session) string {
	for _, sub := range s.Subjects {
		if sub.Color != "" {
			return sub.Color
		}
	}
	return ""
}

// collectBlocks converts layout items into screen rectangles. Width per
// block is the day width divided by the cluster's column count; the
// horizontal offset is the column index times that width.
func (m *Model) collectBlocks(days [][]layout.Item, dayWidth int) []block {
	var blocks []block
	for dayIdx, items := range days {
		x0 := gutterWidth + dayIdx*dayWidth
		for _, it := range items {
			colWidth := dayWidth / it.Columns
			if colWidth < 1 {
				colWidth = 1
			}
			bx0 := x0 + it.Column*colWidth
			bx1 := bx0 + colWidth - 1
			r0 := it.Top
			r1 := it.Top + it.Height - 1
			if r1 < r0 {
				r1 = r0
			}
			blocks = append(blocks, block{
				item:   it,
				dayIdx: dayIdx,
				x0:     bx0,
				x1:     bx1,
				r0:     r0,
				r1:     r1,
			})
		}
	}
	return blocks
}

func padTo(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
