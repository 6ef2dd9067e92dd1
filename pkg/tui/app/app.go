// Package app hosts the calendar TUI: it owns the month/week/list views, the
// create/edit form, the optimistic overlay, and all traffic to the backend.
// Views never call the network; they emit events and the host turns them into
// commands.
package app

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Guisb12/lusia-cal/pkg/api"
	"github.com/Guisb12/lusia-cal/pkg/cache"
	"github.com/Guisb12/lusia-cal/pkg/labels"
	"github.com/Guisb12/lusia-cal/pkg/overlay"
	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timeutil"
	"github.com/Guisb12/lusia-cal/pkg/tui/components/editform"
	"github.com/Guisb12/lusia-cal/pkg/tui/components/listview"
	"github.com/Guisb12/lusia-cal/pkg/tui/components/monthview"
	"github.com/Guisb12/lusia-cal/pkg/tui/components/statusbar"
	"github.com/Guisb12/lusia-cal/pkg/tui/components/weekview"
	"github.com/Guisb12/lusia-cal/pkg/tui/events"
)

// requestTimeout bounds every backend call issued from the update loop.
const requestTimeout = 15 * time.Second

type viewMode int

const (
	modeMonth viewMode = iota
	modeWeek
	modeList
)

// internal messages produced by backend commands.

type sessionsLoadedMsg struct {
	gen      int
	from, to time.Time
	sessions []session.Session
}

type sessionsLoadFailedMsg struct {
	gen int
	err error
}

type sessionSavedMsg struct {
	action  events.ChangeType
	session session.Session
}

type studentsFoundMsg struct {
	gen      int
	students []session.Student
}

type sessionSaveFailedMsg struct {
	sessionID string
	err       error
}

type sessionDeletedMsg struct {
	sessionID string
}

type sessionDeleteFailedMsg struct {
	sessionID string
	err       error
}

// Options configure the calendar host.
type Options struct {
	Service      api.Service
	Cache        *cache.Cache // optional offline snapshot
	Logger       *slog.Logger
	Now          func() time.Time
	SnapInterval int
}

// Model is the root Bubble Tea model.
type Model struct {
	svc   api.Service
	disk  *cache.Cache
	store *overlay.Store
	names *labels.Cache
	log   *slog.Logger
	now   func() time.Time

	mode  viewMode
	month *monthview.Model
	week  *weekview.Model
	list  *listview.Model
	form  *editform.Model
	foot  *statusbar.Model

	formOpen bool

	authoritative []session.Session

	// fetchGen increments per fetch; completions carrying an older
	// generation are discarded so a slow response never clobbers a newer
	// window's data. searchGen plays the same role for student searches.
	fetchGen  int
	searchGen int

	lastFrom time.Time
	lastTo   time.Time

	width  int
	height int
}

// New builds the calendar host. The week view is the initial mode.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()
	m := &Model{
		svc:   opts.Service,
		disk:  opts.Cache,
		store: overlay.NewStore(),
		names: labels.NewCache(),
		log:   logger,
		now:   nowFn,
		mode:  modeWeek,
		month: monthview.NewModel("month", now, now),
		week:  weekview.NewModel("week", now, now, opts.SnapInterval),
		list:  listview.NewModel("list", now, now),
		form:  editform.NewModel("form"),
		foot:  statusbar.New(),
	}
	m.list.SetResolver(m.names.Resolve)
	m.foot.SetHelp(m.helpText())
	if m.disk != nil {
		from, to := m.activeRange()
		m.setAuthoritative(m.disk.Range(context.Background(), from, to))
	}
	return m
}

// Init starts the week ticker and the first fetch.
func (m *Model) Init() tea.Cmd {
	from, to := m.activeRange()
	m.lastFrom, m.lastTo = from, to
	return tea.Batch(m.week.Init(), m.fetch(from, to))
}

// Sessions returns the merged view of authoritative data with optimistic
// replacements substituted.
func (m *Model) Sessions() []session.Session {
	return m.store.Merge(m.authoritative)
}

func (m *Model) setAuthoritative(sessions []session.Session) {
	m.authoritative = sessions
	m.harvestLabels(sessions)
	m.refreshViews()
}

// harvestLabels records id-to-name pairs from hydrated records so later
// responses that carry bare ids still render names.
func (m *Model) harvestLabels(sessions []session.Session) {
	for _, s := range sessions {
		for _, st := range s.Students {
			m.names.Set(st.ID, st.Label())
		}
		for _, sub := range s.Subjects {
			m.names.Set(sub.ID, sub.Name)
		}
	}
}

func (m *Model) refreshViews() {
	merged := m.Sessions()
	m.month.SetSessions(merged)
	m.week.SetSessions(merged)
	m.list.SetSessions(merged)
}

func (m *Model) activeRange() (time.Time, time.Time) {
	switch m.mode {
	case modeMonth:
		return m.month.Range()
	case modeList:
		return m.list.Range()
	default:
		return m.week.Range()
	}
}

// rangeChanged emits a range event only when the window actually moved.
func (m *Model) rangeChanged(component events.ComponentID) tea.Cmd {
	from, to := m.activeRange()
	if from.Equal(m.lastFrom) && to.Equal(m.lastTo) {
		return nil
	}
	m.lastFrom, m.lastTo = from, to
	return events.RangeChangeCmd(component, from, to)
}

// fetch loads the window from the backend. The generation captured here is
// compared on completion; stale completions are dropped.
func (m *Model) fetch(from, to time.Time) tea.Cmd {
	m.fetchGen++
	gen := m.fetchGen
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := svc.ListSessions(ctx, from, to.AddDate(0, 0, 1))
		if err != nil {
			return sessionsLoadFailedMsg{gen: gen, err: err}
		}
		return sessionsLoadedMsg{gen: gen, from: from, to: to, sessions: sessions}
	}
}

// Update is the host's message loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d, ok := msg.(interface{ Describe() string }); ok {
		m.log.Debug("event", "msg", d.Describe())
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.routeMouse(events.PointerDownMsg{X: msg.X, Y: msg.Y})
	case tea.MouseMotionMsg:
		return m.routeMouse(events.PointerMoveMsg{X: msg.X, Y: msg.Y})
	case tea.MouseReleaseMsg:
		return m.routeMouse(events.PointerUpMsg{X: msg.X, Y: msg.Y})
	case weekview.ClockTickMsg:
		// Always reaches the week view, even when another mode is active;
		// dropping a tick would kill the clock chain for good.
		next, cmd := m.week.Update(msg)
		m.week = next.(*weekview.Model)
		return m, cmd

	case events.SessionSelectMsg:
		return m, m.openEdit(msg.Session.ID)
	case events.SlotSelectMsg:
		m.formOpen = true
		return m, m.form.OpenCreate(msg.Day, msg.Minute, m.now())
	case events.GestureCommitMsg:
		return m, m.commitGesture(msg)
	case events.SaveRequestMsg:
		m.formOpen = false
		return m, m.save(msg)
	case events.DeleteRequestMsg:
		m.formOpen = false
		return m, m.deleteSession(msg.SessionID)
	case events.FormClosedMsg:
		m.formOpen = false
		return m, nil
	case events.RangeChangeMsg:
		m.foot.SetStatus("loading…")
		return m, m.fetch(msg.From, msg.To)
	case events.StudentSearchMsg:
		return m, m.searchStudents(msg.Query)

	case sessionsLoadedMsg:
		return m, m.sessionsLoaded(msg)
	case sessionsLoadFailedMsg:
		if msg.gen != m.fetchGen {
			return m, nil
		}
		m.log.Warn("session fetch failed", "error", msg.err)
		m.foot.SetError("offline: " + msg.err.Error())
		return m, nil
	case sessionSavedMsg:
		m.sessionSaved(msg)
		return m, nil
	case studentsFoundMsg:
		return m, m.studentsFound(msg)
	case sessionSaveFailedMsg:
		m.store.Clear(msg.sessionID)
		m.refreshViews()
		m.log.Warn("session save failed", "id", msg.sessionID, "error", msg.err)
		m.foot.SetError("save failed: " + msg.err.Error())
		return m, nil
	case sessionDeletedMsg:
		m.foot.SetStatus("session deleted")
		from, to := m.activeRange()
		return m, m.fetch(from, to)
	case sessionDeleteFailedMsg:
		m.log.Warn("session delete failed", "id", msg.sessionID, "error", msg.err)
		m.foot.SetError("delete failed: " + msg.err.Error())
		from, to := m.activeRange()
		return m, m.fetch(from, to)
	}

	return m.routeToActive(msg)
}

func (m *Model) handleKey(key tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.formOpen {
		next, cmd := m.form.Update(key)
		m.form = next.(*editform.Model)
		return m, cmd
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m":
		return m.switchMode(modeMonth)
	case "w":
		return m.switchMode(modeWeek)
	case "l":
		return m.switchMode(modeList)
	case "[":
		return m.shiftPeriod(-1)
	case "]":
		return m.shiftPeriod(1)
	case "t":
		return m.goToToday()
	case "r":
		from, to := m.activeRange()
		m.foot.SetStatus("loading…")
		return m, m.fetch(from, to)
	}
	return m.routeToActive(key)
}

func (m *Model) switchMode(mode viewMode) (tea.Model, tea.Cmd) {
	if m.mode == mode {
		return m, nil
	}
	m.mode = mode
	m.foot.SetHelp(m.helpText())
	return m, m.rangeChanged(m.activeComponent())
}

// shiftPeriod moves the active view one period: a month for the month and
// list views, a week for the week view.
func (m *Model) shiftPeriod(step int) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeMonth:
		m.month.SetMonth(m.month.Month().AddDate(0, step, 0))
	case modeList:
		m.list.SetMonth(m.list.Month().AddDate(0, step, 0))
	default:
		m.week.SetWeek(m.week.WeekStart().AddDate(0, 0, 7*step))
	}
	m.refreshViews()
	return m, m.rangeChanged(m.activeComponent())
}

func (m *Model) goToToday() (tea.Model, tea.Cmd) {
	now := m.now()
	m.month.SetMonth(now)
	m.month.SetToday(now)
	m.week.SetWeek(now)
	m.list.SetMonth(now)
	m.list.SetToday(now)
	m.refreshViews()
	return m, m.rangeChanged(m.activeComponent())
}

func (m *Model) activeComponent() events.ComponentID {
	switch m.mode {
	case modeMonth:
		return m.month.ID()
	case modeList:
		return m.list.ID()
	default:
		return m.week.ID()
	}
}

func (m *Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeMonth:
		next, c := m.month.Update(msg)
		m.month = next.(*monthview.Model)
		cmd = c
	case modeList:
		next, c := m.list.Update(msg)
		m.list = next.(*listview.Model)
		cmd = c
	default:
		next, c := m.week.Update(msg)
		m.week = next.(*weekview.Model)
		cmd = c
	}
	return m, cmd
}

// routeMouse forwards pointer events to the week grid. Other views are
// keyboard only.
func (m *Model) routeMouse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.formOpen || m.mode != modeWeek {
		return m, nil
	}
	next, cmd := m.week.Update(msg)
	m.week = next.(*weekview.Model)
	return m, cmd
}

// openEdit opens the form on the full session record behind a selection.
func (m *Model) openEdit(id string) tea.Cmd {
	s, ok := m.findSession(id)
	if !ok {
		m.foot.SetError("session not found")
		return nil
	}
	m.formOpen = true
	return m.form.OpenEdit(s)
}

func (m *Model) findSession(id string) (session.Session, bool) {
	for _, s := range m.Sessions() {
		if s.ID == id {
			return s, true
		}
	}
	return session.Session{}, false
}

// commitGesture applies a drag/resize result optimistically and sends the
// time patch. The block renders at its new position immediately; failure
// clears the overlay entry and the block snaps back.
func (m *Model) commitGesture(msg events.GestureCommitMsg) tea.Cmd {
	base, ok := m.findSession(msg.SessionID)
	if !ok {
		return nil
	}
	day := timeutil.Midnight(msg.Day)
	starts := day.Add(time.Duration(msg.StartMin) * time.Minute)
	ends := day.Add(time.Duration(msg.EndMin) * time.Minute)

	replacement := base
	replacement.StartsAt = starts
	replacement.EndsAt = ends
	m.store.Apply(msg.SessionID, replacement)
	m.refreshViews()
	m.foot.SetStatus("saving…")

	svc := m.svc
	id := msg.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		saved, err := svc.UpdateSession(ctx, id, api.TimePatch(starts, ends))
		if err != nil {
			return sessionSaveFailedMsg{sessionID: id, err: err}
		}
		return sessionSavedMsg{action: events.ChangeUpdate, session: saved}
	}
}

// save persists a validated form draft: create when the id is empty, full
// update otherwise. Updates are optimistic like gesture commits.
func (m *Model) save(msg events.SaveRequestMsg) tea.Cmd {
	draft := session.Draft{
		Title:        msg.Draft.Title,
		StartsAt:     msg.Draft.Day.Add(time.Duration(msg.Draft.StartMin) * time.Minute),
		EndsAt:       msg.Draft.Day.Add(time.Duration(msg.Draft.EndMin) * time.Minute),
		StudentIDs:   msg.Draft.StudentIDs,
		TeacherNotes: msg.Draft.TeacherNotes,
	}
	svc := m.svc
	m.foot.SetStatus("saving…")

	if msg.SessionID == "" {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			created, err := svc.CreateSession(ctx, draft)
			if err != nil {
				return sessionSaveFailedMsg{err: err}
			}
			return sessionSavedMsg{action: events.ChangeCreate, session: created}
		}
	}

	if base, ok := m.findSession(msg.SessionID); ok {
		replacement := base
		replacement.Title = draft.Title
		replacement.StartsAt = draft.StartsAt
		replacement.EndsAt = draft.EndsAt
		replacement.StudentIDs = draft.StudentIDs
		replacement.TeacherNotes = draft.TeacherNotes
		m.store.Apply(msg.SessionID, replacement)
		m.refreshViews()
	}

	id := msg.SessionID
	patch := api.SessionPatch{
		Title:        &draft.Title,
		StartsAt:     &draft.StartsAt,
		EndsAt:       &draft.EndsAt,
		StudentIDs:   draft.StudentIDs,
		TeacherNotes: &draft.TeacherNotes,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		saved, err := svc.UpdateSession(ctx, id, patch)
		if err != nil {
			return sessionSaveFailedMsg{sessionID: id, err: err}
		}
		return sessionSavedMsg{action: events.ChangeUpdate, session: saved}
	}
}

// deleteSession removes the session locally right away and tells the
// backend; either completion triggers a refetch so the views settle on
// authoritative data.
func (m *Model) deleteSession(id string) tea.Cmd {
	kept := m.authoritative[:0]
	for _, s := range m.authoritative {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.authoritative = kept
	m.store.Clear(id)
	m.refreshViews()
	m.foot.SetStatus("deleting…")

	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := svc.DeleteSession(ctx, id); err != nil {
			return sessionDeleteFailedMsg{sessionID: id, err: err}
		}
		return sessionDeletedMsg{sessionID: id}
	}
}

func (m *Model) sessionsLoaded(msg sessionsLoadedMsg) tea.Cmd {
	if msg.gen != m.fetchGen {
		m.log.Debug("discarding stale fetch", "gen", msg.gen, "current", m.fetchGen)
		return nil
	}
	m.store.Reconcile(msg.sessions)
	m.setAuthoritative(msg.sessions)
	m.foot.Clear()
	if m.disk != nil {
		if err := m.disk.PutRange(msg.from, msg.to, msg.sessions); err != nil {
			m.log.Warn("cache write failed", "error", err)
		}
	}
	return nil
}

func (m *Model) sessionSaved(msg sessionSavedMsg) {
	s := msg.session
	replaced := false
	for i := range m.authoritative {
		if m.authoritative[i].ID == s.ID {
			m.authoritative[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		m.authoritative = append(m.authoritative, s)
	}
	m.harvestLabels([]session.Session{s})
	m.store.Reconcile([]session.Session{s})
	m.refreshViews()
	verb := "updated "
	if msg.action == events.ChangeCreate {
		verb = "created "
	}
	m.foot.SetStatus(verb + s.Label())
}

// searchStudents queries the directory for the form's picker. Completions
// carry a generation like fetches do, so a slow earlier query never
// overwrites the results of a later keystroke.
func (m *Model) searchStudents(query string) tea.Cmd {
	m.searchGen++
	gen := m.searchGen
	svc := m.svc
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		students, err := svc.SearchStudents(ctx, query)
		if err != nil {
			log.Warn("student search failed", "query", query, "error", err)
			return studentsFoundMsg{gen: gen}
		}
		return studentsFoundMsg{gen: gen, students: students}
	}
}

func (m *Model) studentsFound(msg studentsFoundMsg) tea.Cmd {
	if msg.gen != m.searchGen {
		m.log.Debug("discarding stale student search", "gen", msg.gen, "current", m.searchGen)
		return nil
	}
	for _, st := range msg.students {
		m.names.Set(st.ID, st.Label())
	}
	m.form.SetStudentMatches(msg.students)
	return nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	body := height - 1
	m.month.SetSize(width, body)
	m.week.SetSize(width, body)
	m.list.SetSize(width, body)
	m.form.SetSize(width, body)
	m.foot.SetSize(width)
}

func (m *Model) helpText() string {
	base := "m month · w week · l list · [/] move · t today · n new · r refresh · q quit"
	switch m.mode {
	case modeWeek:
		return "drag blocks to move, edges to resize · " + base
	case modeList:
		return "p toggle past · " + base
	default:
		return base
	}
}

// View composes the active view, the form overlay, and the footer.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var body string
	switch m.mode {
	case modeMonth:
		body = m.month.View()
	case modeList:
		body = m.list.View()
	default:
		body = m.week.View()
	}
	if m.formOpen {
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.form.View())
	}
	return body + "\n" + m.foot.View()
}

// Run starts the program with mouse reporting enabled.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
