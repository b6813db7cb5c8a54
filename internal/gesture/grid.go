package gesture

import (
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// Grid maps screen cells to times for one week: seven day columns of
// ColWidth cells, and one row per slot between DayStartHour and DayEndHour.
// Origin is the top-left cell of Monday's first slot.
type Grid struct {
	Week         time.Time
	Origin       Point
	ColWidth     int
	SlotMinutes  int
	DayStartHour int
	DayEndHour   int
}

func (g Grid) slot() time.Duration {
	return time.Duration(g.SlotMinutes) * time.Minute
}

// Rows returns the number of slot rows per day.
func (g Grid) Rows() int {
	if g.SlotMinutes <= 0 || g.DayEndHour <= g.DayStartHour {
		return 0
	}
	return (g.DayEndHour - g.DayStartHour) * 60 / g.SlotMinutes
}

// Cell returns the day column and slot row under p.
func (g Grid) Cell(p Point) (col, row int, ok bool) {
	if g.ColWidth <= 0 || p.X < g.Origin.X || p.Y < g.Origin.Y {
		return 0, 0, false
	}
	col = (p.X - g.Origin.X) / g.ColWidth
	row = p.Y - g.Origin.Y
	if col >= 7 || row >= g.Rows() {
		return 0, 0, false
	}
	return col, row, true
}

// Clamp pulls p inside the grid.
func (g Grid) Clamp(p Point) Point {
	maxX := g.Origin.X + 7*g.ColWidth - 1
	maxY := g.Origin.Y + g.Rows() - 1
	p.X = min(max(p.X, g.Origin.X), maxX)
	p.Y = min(max(p.Y, g.Origin.Y), maxY)
	return p
}

// TimeAt returns the start of the slot at (col,row).
func (g Grid) TimeAt(col, row int) time.Time {
	day := domain.WeekStart(g.Week).AddDate(0, 0, col)
	return day.Add(time.Duration(g.DayStartHour)*time.Hour + time.Duration(row)*g.slot())
}

// Span converts a drag from a to b into a time range on a's day. Reversed
// drags are normalised and the range always covers at least one slot.
func (g Grid) Span(a, b Point) (start, end time.Time, ok bool) {
	col, rowA, ok := g.Cell(a)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	_, rowB, _ := g.Cell(g.Clamp(b))
	lo, hi := min(rowA, rowB), max(rowA, rowB)
	return g.TimeAt(col, lo), g.TimeAt(col, hi).Add(g.slot()), true
}

// Place returns the column and row range an event occupies, clipped to the
// visible hours. ok is false for all-day events and events outside the week.
func (g Grid) Place(ev *domain.CalendarEvent) (col, top, bottom int, ok bool) {
	if ev.AllDay || g.Rows() == 0 {
		return 0, 0, 0, false
	}
	loc := g.Week.Location()
	start := ev.Start.In(loc)
	week := domain.WeekStart(g.Week)
	if start.Before(week) || !start.Before(week.AddDate(0, 0, 7)) {
		return 0, 0, 0, false
	}
	col = int(domain.StartOfDay(start).Sub(week).Hours() / 24)
	dayOpen := domain.StartOfDay(start).Add(time.Duration(g.DayStartHour) * time.Hour)
	top = int(start.Sub(dayOpen) / g.slot())
	bottom = int((ev.End.In(loc).Sub(dayOpen) + g.slot() - 1) / g.slot())
	top = max(top, 0)
	bottom = min(bottom, g.Rows())
	if bottom <= top {
		return 0, 0, 0, false
	}
	return col, top, bottom, true
}

// EventAt returns the event under p, and whether p is on its last row
// (the resize handle). Breaks are not interactive.
func (g Grid) EventAt(events []domain.CalendarEvent, p Point) (id string, edge bool) {
	col, row, ok := g.Cell(p)
	if !ok {
		return "", false
	}
	for i := len(events) - 1; i >= 0; i-- {
		ev := &events[i]
		if ev.IsBreak() {
			continue
		}
		c, top, bottom, ok := g.Place(ev)
		if !ok || c != col || row < top || row >= bottom {
			continue
		}
		return ev.ID, row == bottom-1 && bottom-top > 1
	}
	return "", false
}
