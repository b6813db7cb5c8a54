package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/gesture"
	"github.com/ethanhollins/cc-web-sub001/internal/testutil"
)

// At 100 columns each day is 13 cells wide starting at x=6, and the 06:00
// row sits at y=4 (app header plus week header), one row per 30 minutes.
const testColWidth = 13

func cellX(day int) int { return weekGutter + day*testColWidth + 1 }

func rowY(hour, minute int) int {
	return headerLines + weekHeaderRows + (hour-6)*2 + minute/30
}

// standupDriver seeds a one-hour Standup on Wednesday 09:00.
func standupDriver(t *testing.T) (*TestDriver, *fakeBackend, *clock.Fake) {
	t.Helper()
	app, fb, clk := testApp(t)
	fb.addEvents(testutil.NewTestEvent("Standup", at(11, 9, 0), time.Hour, testutil.WithEventID("evt-standup")))
	d := NewTestDriver(t, app)
	return d, fb, clk
}

// hold advances the fake clock and delivers the poll tick the runtime
// would have sent.
func hold(d *TestDriver, clk *clock.Fake, dur time.Duration) {
	d.T.Helper()
	clk.Advance(dur)
	d.Send(gestureTickMsg{})
}

func TestWeekView_RendersEvents(t *testing.T) {
	d, _, _ := standupDriver(t)

	assert.Equal(t, ViewWeek, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "Week of Monday 9 June 2025")
	assert.Contains(t, view, "Standup")
	assert.Contains(t, view, "09:00")
	assert.Len(t, d.WeekView().events, 1)
}

func TestWeekView_LongPressOpensMenuThenEdit(t *testing.T) {
	d, _, clk := standupDriver(t)
	x, y := cellX(2), rowY(9, 0)

	d.MousePress(x, y)
	hold(d, clk, 300*time.Millisecond)
	assert.False(t, d.WeekView().ctl.Menu().Open, "menu opens at 500ms")

	hold(d, clk, 200*time.Millisecond)
	menu := d.WeekView().ctl.Menu()
	require.True(t, menu.Open)
	assert.Equal(t, "evt-standup", menu.EventID)
	assert.Equal(t, gesture.Point{X: x, Y: y}, menu.At)
	assert.Contains(t, d.View(), gesture.ItemComplete)

	hold(d, clk, 500*time.Millisecond)
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "Rename", d.ActiveViewTitle())
	assert.False(t, d.WeekView().ctl.Menu().Open)

	d.PressEsc()
	assert.Equal(t, ViewWeek, d.ActiveViewID())
	assert.Contains(t, d.LastOutput(), "Cancelled.")
}

func TestWeekView_ShortPressOpensNothing(t *testing.T) {
	d, _, clk := standupDriver(t)
	x, y := cellX(2), rowY(9, 0)

	d.MousePress(x, y)
	hold(d, clk, 200*time.Millisecond)
	d.MouseRelease(x, y)
	hold(d, clk, time.Second)

	assert.False(t, d.WeekView().ctl.Menu().Open)
	assert.Equal(t, ViewWeek, d.ActiveViewID())
	assert.Equal(t, "evt-standup", d.WeekView().selected)
}

func TestWeekView_MenuClickDeletes(t *testing.T) {
	d, fb, clk := standupDriver(t)
	x, y := cellX(2), rowY(9, 0)

	d.MousePress(x, y)
	hold(d, clk, 500*time.Millisecond)
	d.MouseRelease(x, y)
	require.True(t, d.WeekView().ctl.Menu().Open)

	// Items start one row below the menu's top border.
	d.MousePress(x+2, y+3)
	d.MouseRelease(x+2, y+3)

	assert.Equal(t, 0, fb.eventCount())
	assert.Empty(t, d.WeekView().events)
	assert.Contains(t, d.View(), "Deleted Standup")
}

func TestWeekView_MenuKeyboardCompletes(t *testing.T) {
	d, fb, _ := standupDriver(t)

	d.PressKey('j')
	require.Equal(t, "evt-standup", d.WeekView().selected)
	d.PressKey('m')
	require.True(t, d.WeekView().Modal())

	d.PressDown()
	d.PressEnter()

	ev, ok := fb.event("evt-standup")
	require.True(t, ok)
	assert.True(t, ev.Completed)
	assert.False(t, d.WeekView().Modal())
	assert.Contains(t, d.View(), "Completed Standup")
}

func TestWeekView_MenuEscCloses(t *testing.T) {
	d, _, _ := standupDriver(t)

	d.PressKey('j')
	d.PressKey('m')
	d.PressKey('q')

	assert.False(t, d.WeekView().Modal())
	assert.False(t, d.IsQuitting(), "q closes the menu instead of quitting")
}

func TestWeekView_MovingCancelsLongPress(t *testing.T) {
	d, fb, clk := standupDriver(t)
	x, y := cellX(2), rowY(9, 0)

	d.MousePress(x, y)
	d.MouseMotion(x+testColWidth, rowY(10, 0))
	hold(d, clk, time.Second)
	assert.False(t, d.WeekView().ctl.Menu().Open)
	assert.Equal(t, ViewWeek, d.ActiveViewID())

	d.MouseRelease(x+testColWidth, rowY(10, 0))

	ev, ok := fb.event("evt-standup")
	require.True(t, ok)
	assert.Equal(t, at(12, 10, 0), ev.Start)
	assert.Equal(t, at(12, 11, 0), ev.End)
	assert.Contains(t, d.View(), "Moved Standup to Thu 12 Jun 10:00-11:00")
}

func TestWeekView_ResizeFromBottomEdge(t *testing.T) {
	d, fb, _ := standupDriver(t)
	x := cellX(2)

	d.Drag(x, rowY(9, 30), [2]int{x, rowY(10, 30)})

	ev, ok := fb.event("evt-standup")
	require.True(t, ok)
	assert.Equal(t, at(11, 9, 0), ev.Start)
	assert.Equal(t, at(11, 11, 0), ev.End)
}

func TestWeekView_DragCreateOpensNewEventForm(t *testing.T) {
	d, fb, _ := standupDriver(t)
	x := cellX(3)

	d.Drag(x, rowY(14, 0), [2]int{x, rowY(14, 30)}, [2]int{x, rowY(15, 0)})
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "New Event", d.ActiveViewTitle())
	assert.Contains(t, d.View(), "2025-06-12 14:00")

	d.Type("Focus")
	d.PressEnter() // title
	d.PressEnter() // type
	d.PressEnter() // start
	d.PressEnter() // duration

	assert.Equal(t, ViewWeek, d.ActiveViewID())
	require.Equal(t, 2, fb.eventCount())
	var created bool
	for _, ev := range fb.events {
		if ev.Title == "Focus" {
			created = true
			assert.Equal(t, at(12, 14, 0), ev.Start)
			assert.Equal(t, at(12, 15, 30), ev.End)
		}
	}
	assert.True(t, created)
	assert.Contains(t, d.LastOutput(), "Created Focus")
}

func TestWeekView_ClickOnEmptySlotCreatesNothing(t *testing.T) {
	d, fb, _ := standupDriver(t)

	d.Click(cellX(4), rowY(16, 0))

	assert.Equal(t, ViewWeek, d.ActiveViewID())
	assert.Equal(t, 1, fb.eventCount())
}

func TestWeekView_WeekNavigation(t *testing.T) {
	d, fb, _ := standupDriver(t)
	fb.addEvents(testutil.NewTestEvent("Planning", at(16, 10, 0), time.Hour))

	d.PressKey('l')
	assert.Equal(t, "Week of 16 Jun (W25)", d.ActiveViewTitle())
	assert.Contains(t, d.View(), "Planning")
	assert.NotContains(t, d.View(), "Standup")

	d.PressKey('h')
	d.PressKey('h')
	assert.Equal(t, "Week of 2 Jun (W23)", d.ActiveViewTitle())

	d.PressKey('t')
	assert.Equal(t, "Week of 9 Jun (W24)", d.ActiveViewTitle())

	// Returning to a cached week does not refetch it.
	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.Equal(t, 3, fb.listCalls)
}

func TestWeekView_EnterOpensTicket(t *testing.T) {
	app, fb, _ := testApp(t)
	fb.addTickets(testutil.NewTestTicket("Plan sprint",
		testutil.WithKey("HOME-7"), testutil.WithProject("proj-2"), testutil.WithSlot(at(11, 13, 0), at(11, 14, 0))))
	d := NewTestDriver(t, app)

	d.PressKey('j')
	d.PressEnter()

	assert.Equal(t, []ViewID{ViewWeek, ViewTicket}, d.ViewStackIDs())
	assert.Equal(t, "HOME-7", d.ActiveViewTitle())
	assert.Contains(t, d.View(), "Plan sprint")

	// A missing Notion body still shows the page link.
	d.PressKey('n')
	assert.Contains(t, d.View(), "https://notion.so/n-")
	assert.Contains(t, d.View(), "(no content)")

	d.PressKey('u')
	assert.Contains(t, d.View(), "Unscheduled HOME-7")
	tk := ticketByKey(t, fb, "HOME-7")
	assert.False(t, tk.HasTimeSlot())

	d.PressEsc()
	assert.Equal(t, ViewWeek, d.ActiveViewID())
	assert.NotContains(t, d.View(), "Plan sprint")
}

func TestWeekView_WheelScrolls(t *testing.T) {
	app, _, _ := testApp(t)
	d := newTestDriverSized(t, app, 100, 20)

	wv := d.WeekView()
	require.Less(t, wv.visibleRows(), wv.ctl.Grid().Rows())

	d.ScrollDown(cellX(0), rowY(8, 0))
	assert.Equal(t, 2, d.WeekView().scroll)
	assert.Equal(t, headerLines+weekHeaderRows-2, d.WeekView().ctl.Grid().Origin.Y)
}
