package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/gesture"
)

const (
	// weekGutter is the width of the hour labels left of the grid.
	weekGutter = 6
	// weekHeaderRows is the title line plus the day header line.
	weekHeaderRows = 2
	minColWidth    = 8
)

// gestureTickInterval is how often held-pointer timers are polled.
const gestureTickInterval = 50 * time.Millisecond

// weekLoadedMsg carries one week's events.
type weekLoadedMsg struct {
	key    string
	events []domain.CalendarEvent
	err    error
}

// weekMutatedMsg reports the outcome of an event mutation.
type weekMutatedMsg struct {
	flash string
	err   error
}

// gestureTickMsg polls the long-press timers while the pointer is down.
type gestureTickMsg struct{}

// weekView is the calendar grid: seven day columns of time slots with
// mouse gestures for creating, moving, resizing and editing events.
type weekView struct {
	state    *SharedState
	week     time.Time
	events   []domain.CalendarEvent
	loading  bool
	err      error
	flash    string
	flashErr bool

	ctl      *gesture.Controller
	selected string // event id
	scroll   int    // first visible slot row
	pressing bool
	ticking  bool
}

func newWeekView(state *SharedState) *weekView {
	v := &weekView{state: state, week: state.Week, loading: true}
	cfg := state.App.Config.Calendar
	v.ctl = gesture.NewController(v.grid(), v.timeSource(),
		time.Duration(cfg.LongPressMenuMs)*time.Millisecond,
		time.Duration(cfg.LongPressEditMs)*time.Millisecond)
	return v
}

func (v *weekView) timeSource() clock.Clock {
	if v.state.App.Clock != nil {
		return v.state.App.Clock
	}
	return clock.Real{}
}

func (v *weekView) ID() ViewID { return ViewWeek }

func (v *weekView) Title() string {
	_, wk := v.week.ISOWeek()
	return fmt.Sprintf("Week of %s (W%02d)", v.week.Format("2 Jan"), wk)
}

// Modal reports whether the context menu has the keyboard.
func (v *weekView) Modal() bool {
	return v.ctl.Menu().Open
}

func (v *weekView) ShortHelp() []key.Binding {
	if v.Modal() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "choose")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "week")),
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "select")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "done")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unscheduled")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *weekView) Init() tea.Cmd {
	return v.load()
}

func (v *weekView) load() tea.Cmd {
	app := v.state.App
	week := v.week
	return func() tea.Msg {
		events, err := app.Schedule.Week(context.Background(), week)
		return weekLoadedMsg{key: domain.WeekKey(week), events: events, err: err}
	}
}

// ── layout ───────────────────────────────────────────────────────────────────

func (v *weekView) colWidth() int {
	w := v.state.Width
	if w <= 0 {
		w = 100
	}
	return max((w-weekGutter)/7, minColWidth)
}

// visibleRows is how many slot rows fit under the headers, leaving one
// line for the flash message.
func (v *weekView) visibleRows() int {
	rows := v.ctl.Grid().Rows()
	if v.state.Height <= 0 {
		return rows
	}
	return max(min(v.state.ContentHeight()-weekHeaderRows-1, rows), 1)
}

// grid maps screen coordinates to slots. The origin sits below the app
// header and this view's own header, shifted up by the scroll offset.
func (v *weekView) grid() gesture.Grid {
	cfg := v.state.App.Config.Calendar
	return gesture.Grid{
		Week:         v.week,
		Origin:       gesture.Point{X: weekGutter, Y: headerLines + weekHeaderRows - v.scroll},
		ColWidth:     v.colWidth(),
		SlotMinutes:  cfg.SlotMinutes,
		DayStartHour: cfg.DayStartHour,
		DayEndHour:   cfg.DayEndHour,
	}
}

func (v *weekView) relayout() {
	v.ctl.SetGrid(v.grid())
	maxScroll := max(v.ctl.Grid().Rows()-v.visibleRows(), 0)
	v.scroll = min(max(v.scroll, 0), maxScroll)
	v.ctl.SetGrid(v.grid())
}

// pointAt converts a mouse position to a grid point. Rows scrolled out of
// view map outside the grid.
func (v *weekView) pointAt(x, y int) gesture.Point {
	p := gesture.Point{X: x, Y: y}
	if v.ctl.Menu().Open {
		return p
	}
	top := headerLines + weekHeaderRows
	if y < top || y >= top+v.visibleRows() {
		return gesture.Point{X: -1, Y: -1}
	}
	return p
}

// ── events ───────────────────────────────────────────────────────────────────

// selectable returns timed, non-break events in display order.
func (v *weekView) selectable() []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, ev := range v.events {
		if ev.IsBreak() || ev.AllDay {
			continue
		}
		out = append(out, ev)
	}
	domain.SortEvents(out)
	return out
}

func (v *weekView) event(id string) (domain.CalendarEvent, bool) {
	if i := domain.FindEvent(v.events, id); i >= 0 {
		return v.events[i], true
	}
	return domain.CalendarEvent{}, false
}

func (v *weekView) selectedEvent() (domain.CalendarEvent, bool) {
	if v.selected == "" {
		return domain.CalendarEvent{}, false
	}
	return v.event(v.selected)
}

func (v *weekView) moveSelection(delta int) {
	evs := v.selectable()
	if len(evs) == 0 {
		v.selected = ""
		return
	}
	idx := -1
	for i, ev := range evs {
		if ev.ID == v.selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(evs) - 1
	default:
		idx = (idx + delta + len(evs)) % len(evs)
	}
	v.selected = evs[idx].ID
	v.scrollTo(evs[idx])
}

// scrollTo brings an event's first row into view.
func (v *weekView) scrollTo(ev domain.CalendarEvent) {
	_, top, _, ok := v.ctl.Grid().Place(&ev)
	if !ok {
		return
	}
	rows := v.visibleRows()
	if top < v.scroll {
		v.scroll = top
	} else if top >= v.scroll+rows {
		v.scroll = top - rows + 1
	}
	v.relayout()
}

// anchor is the screen point for a keyboard-opened menu.
func (v *weekView) anchor(ev domain.CalendarEvent) gesture.Point {
	g := v.ctl.Grid()
	col, top, _, ok := g.Place(&ev)
	if !ok {
		return gesture.Point{X: g.Origin.X, Y: headerLines + weekHeaderRows}
	}
	return gesture.Point{X: g.Origin.X + col*g.ColWidth + 1, Y: g.Origin.Y + top}
}

func (v *weekView) mutate(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		flash, err := fn(context.Background())
		return weekMutatedMsg{flash: flash, err: err}
	}
}

func (v *weekView) toggleComplete(ev domain.CalendarEvent) tea.Cmd {
	app := v.state.App
	return v.mutate(func(ctx context.Context) (string, error) {
		updated, err := app.Schedule.CompleteEvent(ctx, ev.ID, !ev.Completed)
		if err != nil {
			return "", err
		}
		if updated.Completed {
			return "✔ Completed " + formatter.EventLabel(updated), nil
		}
		return "Reopened " + formatter.EventLabel(updated), nil
	})
}

func (v *weekView) deleteEvent(ev domain.CalendarEvent) tea.Cmd {
	app := v.state.App
	if v.selected == ev.ID {
		v.selected = ""
	}
	return v.mutate(func(ctx context.Context) (string, error) {
		if err := app.Schedule.DeleteEvent(ctx, ev.ID); err != nil {
			return "", err
		}
		return "Deleted " + formatter.EventLabel(&ev), nil
	})
}

func (v *weekView) moveEvent(id string, start, end time.Time) tea.Cmd {
	app := v.state.App
	return v.mutate(func(ctx context.Context) (string, error) {
		moved, err := app.Schedule.MoveEvent(ctx, id, start, end)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to %s", formatter.EventLabel(moved), eventSlot(moved)), nil
	})
}

func (v *weekView) edit(ev domain.CalendarEvent) tea.Cmd {
	v.ctl.ExitEdit()
	return renameEventWizard(v.state, ev)
}

// handleActions turns gesture actions into commands.
func (v *weekView) handleActions(actions []gesture.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, a := range actions {
		switch a.Kind {
		case gesture.ActionContextMenu:
			v.selected = a.EventID
			v.flash, v.flashErr = "", false
		case gesture.ActionEdit:
			ev, ok := v.event(a.EventID)
			if !ok {
				v.ctl.ExitEdit()
				continue
			}
			// The wizard takes over the pointer.
			v.ctl.Release(a.At, v.events)
			v.pressing = false
			cmds = append(cmds, v.edit(ev))
		case gesture.ActionMenuSelect:
			ev, ok := v.event(a.EventID)
			if !ok {
				continue
			}
			switch a.Item {
			case gesture.ItemEdit:
				cmds = append(cmds, v.edit(ev))
			case gesture.ItemComplete:
				cmds = append(cmds, v.toggleComplete(ev))
			case gesture.ItemDelete:
				cmds = append(cmds, v.deleteEvent(ev))
			}
		case gesture.ActionDragCreate:
			cmds = append(cmds, newEventWizard(v.state, a.Start, a.End))
		case gesture.ActionMove, gesture.ActionResize:
			v.selected = a.EventID
			cmds = append(cmds, v.moveEvent(a.EventID, a.Start, a.End))
		}
	}
	return tea.Batch(cmds...)
}

// drainTimers collects long-press actions without blocking.
func (v *weekView) drainTimers() []gesture.Action {
	var out []gesture.Action
	for {
		select {
		case a := <-v.ctl.Timers():
			out = append(out, a)
		default:
			return out
		}
	}
}

func (v *weekView) tick() tea.Cmd {
	if v.ticking {
		return nil
	}
	v.ticking = true
	return tea.Tick(gestureTickInterval, func(time.Time) tea.Msg { return gestureTickMsg{} })
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *weekView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.relayout()
		return v, nil

	case weekLoadedMsg:
		if msg.key != domain.WeekKey(v.week) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.events = msg.events
		}
		return v, nil

	case calendarChangedMsg:
		if msg.snap.Key == domain.WeekKey(v.week) && !msg.snap.Loading {
			v.loading = false
			v.err = nil
			v.events = msg.snap.Events
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case weekMutatedMsg:
		v.flash, v.flashErr = msg.flash, msg.err != nil
		if msg.err != nil {
			v.flash = "Error: " + msg.err.Error()
		}
		return v, v.load()

	case gestureTickMsg:
		v.ticking = false
		cmd := v.handleActions(v.drainTimers())
		if v.pressing {
			return v, tea.Batch(cmd, v.tick())
		}
		return v, cmd

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case tea.KeyMsg:
		if v.Modal() {
			return v, v.handleMenuKey(msg)
		}
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *weekView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		v.scroll -= 2
		v.relayout()
		return nil
	case msg.Button == tea.MouseButtonWheelDown:
		v.scroll += 2
		v.relayout()
		return nil
	}

	p := v.pointAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		v.flash, v.flashErr = "", false
		wasMenu := v.ctl.Menu().Open
		cmd := v.handleActions(v.ctl.Press(p, v.events))
		if wasMenu {
			return cmd
		}
		if id, _ := v.ctl.Grid().EventAt(v.events, p); id != "" {
			v.selected = id
		}
		v.pressing = true
		return tea.Batch(cmd, v.tick())

	case tea.MouseActionMotion:
		if !v.pressing {
			return nil
		}
		return v.handleActions(v.ctl.Motion(p))

	case tea.MouseActionRelease:
		if !v.pressing {
			return nil
		}
		v.pressing = false
		actions := append(v.drainTimers(), v.ctl.Release(p, v.events)...)
		return v.handleActions(actions)
	}
	return nil
}

func (v *weekView) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k", "shift+tab":
		v.ctl.MoveMenuSelection(-1)
	case "down", "j", "tab":
		v.ctl.MoveMenuSelection(1)
	case "enter", " ":
		if a, ok := v.ctl.SelectCurrent(); ok {
			return v.handleActions([]gesture.Action{a})
		}
	case "esc", "q":
		v.ctl.DismissMenu()
	}
	return nil
}

func (v *weekView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "h", "left":
		return v.gotoWeek(v.week.AddDate(0, 0, -7))
	case "l", "right":
		return v.gotoWeek(v.week.AddDate(0, 0, 7))
	case "t":
		return v.gotoWeek(v.state.App.now())
	case "j", "down":
		v.moveSelection(1)
	case "k", "up":
		v.moveSelection(-1)
	case "pgdown", "ctrl+d":
		v.scroll += max(v.visibleRows()/2, 1)
		v.relayout()
	case "pgup", "ctrl+u":
		v.scroll -= max(v.visibleRows()/2, 1)
		v.relayout()
	case "enter":
		if ev, ok := v.selectedEvent(); ok && !ev.IsPending() {
			return pushView(newTicketView(v.state, ev.ID))
		}
	case "m":
		if ev, ok := v.selectedEvent(); ok {
			v.ctl.OpenMenu(ev.ID, v.anchor(ev))
		}
	case "e":
		if ev, ok := v.selectedEvent(); ok {
			return v.edit(ev)
		}
	case "c":
		if ev, ok := v.selectedEvent(); ok {
			return v.toggleComplete(ev)
		}
	case "d", "delete":
		if ev, ok := v.selectedEvent(); ok {
			return v.deleteEvent(ev)
		}
	case "n":
		start := roundUp(v.state.App.now(), v.state.App.Config.Calendar.SlotMinutes)
		if !domain.SameWeek(start, v.week) {
			start = domain.WeekStart(v.week).Add(9 * time.Hour)
		}
		return newEventWizard(v.state, start, start.Add(time.Hour))
	case "u":
		return pushView(newUnscheduledView(v.state))
	case "r":
		v.loading = true
		app := v.state.App
		return v.mutate(func(ctx context.Context) (string, error) {
			if err := app.Schedule.Refresh(ctx); err != nil {
				return "", err
			}
			return "Calendar refreshed.", nil
		})
	}
	return nil
}

func (v *weekView) gotoWeek(t time.Time) tea.Cmd {
	v.state.SetWeek(context.Background(), t)
	v.week = v.state.Week
	v.events = nil
	v.selected = ""
	v.loading = true
	v.err = nil
	v.ctl.DismissMenu()
	v.relayout()
	return v.load()
}

// ── view ─────────────────────────────────────────────────────────────────────

func (v *weekView) View() string {
	g := v.ctl.Grid()
	colW := g.ColWidth
	rows := v.visibleRows()
	width := weekGutter + 7*colW
	c := newCanvas(width, weekHeaderRows+rows+1)

	v.drawHeader(c, colW)
	v.drawSlots(c, g, rows)
	for i := range v.events {
		v.drawEvent(c, g, &v.events[i], rows)
	}
	v.drawPreview(c, g, rows)
	v.drawMenu(c)
	v.drawFooter(c, weekHeaderRows+rows)

	return c.String()
}

func (v *weekView) drawHeader(c *canvas, colW int) {
	title := v.week.Format("Week of Monday 2 January 2006")
	c.put(0, 0, title, c.style(formatter.StyleHeader))
	x := len([]rune(title))
	switch {
	case v.err != nil:
		c.put(x, 0, "  Error: "+v.err.Error(), c.style(formatter.StyleRed))
	case v.loading:
		c.put(x, 0, "  loading…", c.style(formatter.StyleDim))
	}

	today := domain.StartOfDay(v.state.App.now())
	dayStyle := c.style(formatter.StyleBold)
	todayStyle := c.style(formatter.StyleYellowBold)
	for i, day := range domain.WeekDays(v.week) {
		label := day.Format("Mon 2")
		st := dayStyle
		if day.Equal(today) {
			st = todayStyle
			label = "▸" + label
		}
		c.put(weekGutter+i*colW, 1, formatter.Truncate(label, colW-1), st)
	}
}

func (v *weekView) drawSlots(c *canvas, g gesture.Grid, rows int) {
	dim := c.style(formatter.StyleDim)
	slot := time.Duration(g.SlotMinutes) * time.Minute
	for r := 0; r < rows; r++ {
		row := v.scroll + r
		y := weekHeaderRows + r
		at := time.Duration(g.DayStartHour)*time.Hour + time.Duration(row)*slot
		if at%time.Hour == 0 {
			c.put(0, y, fmt.Sprintf("%02d:00", int(at.Hours())), dim)
		}
		for col := 0; col < 7; col++ {
			c.put(weekGutter+col*g.ColWidth, y, "│", dim)
			if at%time.Hour == 0 {
				c.fill(weekGutter+col*g.ColWidth+1, y, g.ColWidth-1, '·', dim)
			}
		}
	}
}

func (v *weekView) eventStyle(ev *domain.CalendarEvent) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(formatter.ColorBg).Background(formatter.TypeColor(ev.Type))
	switch {
	case ev.IsBreak():
		st = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	case ev.IsPending():
		st = st.Italic(true).Faint(true)
	case ev.Completed || ev.Status == domain.StatusDone:
		st = st.Strikethrough(true)
	}
	if ev.ID == v.selected || ev.ID == v.ctl.Editing() {
		st = st.Bold(true).Underline(true)
	}
	return st
}

func (v *weekView) drawEvent(c *canvas, g gesture.Grid, ev *domain.CalendarEvent, rows int) {
	col, top, bottom, ok := g.Place(ev)
	if !ok {
		return
	}
	st := c.style(v.eventStyle(ev))
	x := weekGutter + col*g.ColWidth + 1
	w := g.ColWidth - 1
	fillRune := ' '
	if ev.IsBreak() {
		fillRune = '░'
	}
	lines := []string{formatter.EventMark(ev) + " " + formatter.EventLabel(ev), formatter.TimeRange(ev)}
	for row := top; row < bottom; row++ {
		r := row - v.scroll
		if r < 0 || r >= rows {
			continue
		}
		y := weekHeaderRows + r
		c.fill(x, y, w, fillRune, st)
		if i := row - top; i < len(lines) {
			c.put(x, y, formatter.Truncate(lines[i], w), st)
		}
	}
}

func (v *weekView) drawPreview(c *canvas, g gesture.Grid, rows int) {
	start, end, ok := v.ctl.DragPreview()
	if !ok {
		return
	}
	preview := domain.CalendarEvent{Start: start, End: end}
	col, top, bottom, ok := g.Place(&preview)
	if !ok {
		return
	}
	st := c.style(lipgloss.NewStyle().Foreground(formatter.ColorHeader))
	x := weekGutter + col*g.ColWidth + 1
	for row := top; row < bottom; row++ {
		if r := row - v.scroll; r >= 0 && r < rows {
			c.fill(x, weekHeaderRows+r, g.ColWidth-1, '▒', st)
		}
	}
	label := start.Format("15:04") + "-" + end.Format("15:04")
	if r := top - v.scroll; r >= 0 && r < rows {
		c.put(x, weekHeaderRows+r, formatter.Truncate(label, g.ColWidth-1), st)
	}
}

func (v *weekView) drawMenu(c *canvas) {
	menu := v.ctl.Menu()
	if !menu.Open {
		return
	}
	border := c.style(lipgloss.NewStyle().Foreground(formatter.ColorHeader))
	item := c.style(formatter.StyleFg)
	current := c.style(lipgloss.NewStyle().Foreground(formatter.ColorBg).Background(formatter.ColorHeader).Bold(true))

	x := menu.At.X
	y := menu.At.Y - headerLines
	for i, line := range boxLines(menu.Items, menu.Width()) {
		st := border
		if i > 0 && i <= len(menu.Items) {
			c.put(x, y+i, line, border)
			st = item
			if i-1 == menu.Selected {
				st = current
			}
			c.put(x+1, y+i, string([]rune(line)[1:menu.Width()-1]), st)
			continue
		}
		c.put(x, y+i, line, st)
	}
}

func (v *weekView) drawFooter(c *canvas, y int) {
	if v.flash != "" {
		st := formatter.StyleFg
		if v.flashErr {
			st = formatter.StyleRed
		}
		c.put(0, y, v.flash, c.style(st))
		return
	}
	var allDay []string
	for i := range v.events {
		if v.events[i].AllDay {
			allDay = append(allDay, v.events[i].Start.Format("Mon")+" "+formatter.EventLabel(&v.events[i]))
		}
	}
	if len(allDay) > 0 {
		c.put(0, y, "All day: "+strings.Join(allDay, ", "), c.style(formatter.StyleDim))
	}
}
