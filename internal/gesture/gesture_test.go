package gesture

import (
	"testing"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-06-09, grid 08:00-12:00 in 30 minute slots, 10 cells per day,
// origin at (5,2).
var (
	monday   = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	testGrid = Grid{
		Week:         monday,
		Origin:       Point{X: 5, Y: 2},
		ColWidth:     10,
		SlotMinutes:  30,
		DayStartHour: 8,
		DayEndHour:   12,
	}
)

// cell returns a point inside day column col at slot row.
func cell(col, row int) Point {
	return Point{X: testGrid.Origin.X + col*testGrid.ColWidth + 1, Y: testGrid.Origin.Y + row}
}

func testEvent(id string, start time.Time, dur time.Duration) domain.CalendarEvent {
	return domain.CalendarEvent{
		Ticket: domain.Ticket{ID: id, Title: id},
		Start:  start,
		End:    start.Add(dur),
	}
}

// Tuesday 09:00-10:00 occupies column 1, rows 2-3.
var tuesdayNine = testEvent("ev1", monday.AddDate(0, 0, 1).Add(9*time.Hour), time.Hour)

func newController(t *testing.T) (*Controller, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(monday.Add(9 * time.Hour))
	return NewController(testGrid, clk, DefaultMenuDelay, DefaultEditDelay), clk
}

func drain(ch <-chan Action) []Action {
	var out []Action
	for {
		select {
		case a := <-ch:
			out = append(out, a)
		default:
			return out
		}
	}
}

func TestLongPress_ShortPressTriggersNothing(t *testing.T) {
	clk := clock.NewFake(monday)
	var fired []Action
	lp := NewLongPress(clk, DefaultMenuDelay, DefaultEditDelay, func(a Action) { fired = append(fired, a) })

	lp.Press("ev1", Point{})
	clk.Advance(499 * time.Millisecond)
	lp.Cancel()
	clk.Advance(2 * time.Second)

	assert.Empty(t, fired)
	assert.False(t, lp.Active())
	assert.Equal(t, 0, clk.Pending())
}

func TestLongPress_MenuThenEdit(t *testing.T) {
	clk := clock.NewFake(monday)
	var fired []Action
	lp := NewLongPress(clk, DefaultMenuDelay, DefaultEditDelay, func(a Action) { fired = append(fired, a) })

	lp.Press("ev1", Point{X: 3, Y: 4})
	clk.Advance(500 * time.Millisecond)
	require.Len(t, fired, 1)
	assert.Equal(t, ActionContextMenu, fired[0].Kind)
	assert.Equal(t, "ev1", fired[0].EventID)
	assert.True(t, lp.Active(), "edit timer still pending")

	clk.Advance(500 * time.Millisecond)
	require.Len(t, fired, 2)
	assert.Equal(t, ActionEdit, fired[1].Kind)
	assert.False(t, lp.Active())
}

func TestLongPress_ReleaseBetweenThresholdsSkipsEdit(t *testing.T) {
	clk := clock.NewFake(monday)
	var fired []Action
	lp := NewLongPress(clk, DefaultMenuDelay, DefaultEditDelay, func(a Action) { fired = append(fired, a) })

	lp.Press("ev1", Point{})
	clk.Advance(700 * time.Millisecond)
	lp.Cancel()
	clk.Advance(time.Second)

	require.Len(t, fired, 1)
	assert.Equal(t, ActionContextMenu, fired[0].Kind)
}

func TestLongPress_RepressRestartsTimers(t *testing.T) {
	clk := clock.NewFake(monday)
	var fired []Action
	lp := NewLongPress(clk, DefaultMenuDelay, DefaultEditDelay, func(a Action) { fired = append(fired, a) })

	lp.Press("a", Point{})
	clk.Advance(400 * time.Millisecond)
	lp.Press("b", Point{})
	clk.Advance(400 * time.Millisecond)
	assert.Empty(t, fired)

	clk.Advance(100 * time.Millisecond)
	require.Len(t, fired, 1)
	assert.Equal(t, "b", fired[0].EventID)
}

func TestGrid_CellAndTime(t *testing.T) {
	col, row, ok := testGrid.Cell(cell(2, 3))
	require.True(t, ok)
	assert.Equal(t, 2, col)
	assert.Equal(t, 3, row)
	assert.Equal(t, monday.AddDate(0, 0, 2).Add(9*time.Hour+30*time.Minute), testGrid.TimeAt(col, row))

	_, _, ok = testGrid.Cell(Point{X: 0, Y: 0})
	assert.False(t, ok)
	_, _, ok = testGrid.Cell(cell(7, 0))
	assert.False(t, ok)
	_, _, ok = testGrid.Cell(cell(0, testGrid.Rows()))
	assert.False(t, ok)
	assert.Equal(t, 8, testGrid.Rows())
}

func TestGrid_SpanNormalisesReversedDrag(t *testing.T) {
	start, end, ok := testGrid.Span(cell(0, 5), cell(0, 2))
	require.True(t, ok)
	assert.Equal(t, monday.Add(9*time.Hour), start)
	assert.Equal(t, monday.Add(11*time.Hour), end)

	start, end, ok = testGrid.Span(cell(0, 1), cell(0, 1))
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, end.Sub(start), "at least one slot")
}

func TestGrid_PlaceAndEventAt(t *testing.T) {
	ev := tuesdayNine
	col, top, bottom, ok := testGrid.Place(&ev)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 4}, []int{col, top, bottom})

	events := []domain.CalendarEvent{ev}
	id, edge := testGrid.EventAt(events, cell(1, 2))
	assert.Equal(t, "ev1", id)
	assert.False(t, edge)

	id, edge = testGrid.EventAt(events, cell(1, 3))
	assert.Equal(t, "ev1", id)
	assert.True(t, edge, "last row is the resize handle")

	id, _ = testGrid.EventAt(events, cell(1, 4))
	assert.Empty(t, id)

	brk := testEvent("brk", monday.Add(8*time.Hour), time.Hour)
	brk.CalendarID = domain.BreaksCalendarID
	id, _ = testGrid.EventAt([]domain.CalendarEvent{brk}, cell(0, 0))
	assert.Empty(t, id, "breaks are not interactive")
}

func TestController_ShortPressOnEventTriggersNothing(t *testing.T) {
	ctl, clk := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	assert.Nil(t, ctl.Press(cell(1, 2), events))
	clk.Advance(300 * time.Millisecond)
	assert.Nil(t, ctl.Release(cell(1, 2), events))
	clk.Advance(2 * time.Second)

	assert.Empty(t, drain(ctl.Timers()))
	assert.False(t, ctl.Menu().Open)
	assert.Empty(t, ctl.Editing())
}

func TestController_LongPressOpensMenuThenEdit(t *testing.T) {
	ctl, clk := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	clk.Advance(500 * time.Millisecond)
	acts := drain(ctl.Timers())
	require.Len(t, acts, 1)
	assert.Equal(t, ActionContextMenu, acts[0].Kind)
	menu := ctl.Menu()
	assert.True(t, menu.Open)
	assert.Equal(t, cell(1, 2), menu.At)

	clk.Advance(500 * time.Millisecond)
	acts = drain(ctl.Timers())
	require.Len(t, acts, 1)
	assert.Equal(t, ActionEdit, acts[0].Kind)
	assert.Equal(t, "ev1", ctl.Editing())
	assert.False(t, ctl.Menu().Open, "edit mode replaces the menu")
}

func TestController_MenuSelectAndDismiss(t *testing.T) {
	ctl, clk := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	clk.Advance(600 * time.Millisecond)
	ctl.Release(cell(1, 2), events)
	menu := ctl.Menu()
	require.True(t, menu.Open)

	// Second item row: border row, then Edit, then Complete.
	acts := ctl.Press(Point{X: menu.At.X + 1, Y: menu.At.Y + 2}, events)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionMenuSelect, acts[0].Kind)
	assert.Equal(t, ItemComplete, acts[0].Item)
	assert.Equal(t, "ev1", acts[0].EventID)
	assert.False(t, ctl.Menu().Open)

	ctl.Press(cell(1, 2), events)
	clk.Advance(600 * time.Millisecond)
	ctl.Release(cell(1, 2), events)
	require.True(t, ctl.Menu().Open)

	acts = ctl.Press(cell(6, 7), events)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionDismiss, acts[0].Kind)
	assert.False(t, ctl.Menu().Open)
}

func TestController_MovingCancelsLongPress(t *testing.T) {
	ctl, clk := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	clk.Advance(200 * time.Millisecond)
	ctl.Motion(cell(1, 4))
	clk.Advance(2 * time.Second)

	assert.Empty(t, drain(ctl.Timers()))
	assert.True(t, ctl.Dragging())
}

func TestController_DragCreate(t *testing.T) {
	ctl, _ := newController(t)

	ctl.Press(cell(3, 4), nil)
	ctl.Motion(cell(3, 2))
	start, end, ok := ctl.DragPreview()
	require.True(t, ok)
	assert.Equal(t, monday.AddDate(0, 0, 3).Add(9*time.Hour), start)
	assert.Equal(t, monday.AddDate(0, 0, 3).Add(10*time.Hour+30*time.Minute), end)

	acts := ctl.Release(cell(3, 2), nil)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionDragCreate, acts[0].Kind)
	assert.Equal(t, start, acts[0].Start)
	assert.Equal(t, end, acts[0].End)
	assert.False(t, ctl.Dragging())
}

func TestController_ClickOnEmptySlotCreatesNothing(t *testing.T) {
	ctl, _ := newController(t)
	ctl.Press(cell(3, 4), nil)
	assert.Nil(t, ctl.Release(cell(3, 4), nil))
}

func TestController_MoveAcrossDays(t *testing.T) {
	ctl, _ := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	ctl.Motion(cell(2, 3))
	acts := ctl.Release(cell(2, 3), events)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionMove, acts[0].Kind)
	assert.Equal(t, "ev1", acts[0].EventID)
	assert.Equal(t, tuesdayNine.Start.Add(24*time.Hour+30*time.Minute), acts[0].Start)
	assert.Equal(t, time.Hour, acts[0].End.Sub(acts[0].Start), "duration preserved")
}

func TestController_ResizeFromBottomEdge(t *testing.T) {
	ctl, _ := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 3), events)
	ctl.Motion(cell(1, 5))
	acts := ctl.Release(cell(1, 5), events)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionResize, acts[0].Kind)
	assert.Equal(t, tuesdayNine.Start, acts[0].Start)
	assert.Equal(t, tuesdayNine.Start.Add(2*time.Hour), acts[0].End)

	// Dragging the handle above the start keeps one slot.
	ctl.Press(cell(1, 3), events)
	ctl.Motion(cell(1, 0))
	acts = ctl.Release(cell(1, 0), events)
	require.Len(t, acts, 1)
	assert.Equal(t, 30*time.Minute, acts[0].End.Sub(acts[0].Start))
}

func TestController_MenuSuppressedWhileDragging(t *testing.T) {
	ctl, _ := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	ctl.Motion(cell(1, 3))
	assert.False(t, ctl.OpenMenu("ev1", cell(1, 3)))
	ctl.Release(cell(1, 3), events)
	assert.True(t, ctl.OpenMenu("ev1", cell(1, 3)))
}

func TestController_PressOutsideGridLeavesEditMode(t *testing.T) {
	ctl, clk := newController(t)
	events := []domain.CalendarEvent{tuesdayNine}

	ctl.Press(cell(1, 2), events)
	clk.Advance(time.Second)
	ctl.Release(cell(1, 2), events)
	require.Equal(t, "ev1", ctl.Editing())

	acts := ctl.Press(Point{X: 0, Y: 0}, events)
	require.Len(t, acts, 1)
	assert.Equal(t, ActionDismiss, acts[0].Kind)
	assert.Empty(t, ctl.Editing())
}

func TestMenu_KeyboardSelection(t *testing.T) {
	var m Menu
	require.True(t, m.Show("ev1", Point{}, DefaultMenuItems, false))
	m.MoveSelection(-1)
	assert.Equal(t, ItemDelete, m.Current())
	m.MoveSelection(1)
	assert.Equal(t, ItemEdit, m.Current())
	assert.False(t, m.Show("ev1", Point{}, DefaultMenuItems, true))
}
