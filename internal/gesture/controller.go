package gesture

import (
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

type DragMode int

const (
	DragNone DragMode = iota
	DragCreate
	DragMove
	DragResize
)

// Drag is the pointer-down state between press and release.
type Drag struct {
	Mode    DragMode
	EventID string
	Origin  Point
	Current Point
	Moved   bool
}

// Controller composes the long-press timers, context menu and drag state
// for the week grid. Pointer handlers return the actions they produce
// directly; timer actions arrive on Timers().
type Controller struct {
	lp     *LongPress
	timers chan Action

	mu      sync.Mutex
	grid    Grid
	menu    Menu
	drag    Drag
	editing string
}

// NewController creates a Controller. Timer actions are buffered; if the
// consumer falls behind, extra ones are dropped.
func NewController(grid Grid, c clock.Clock, menuDelay, editDelay time.Duration) *Controller {
	ctl := &Controller{grid: grid, timers: make(chan Action, 8)}
	ctl.lp = NewLongPress(c, menuDelay, editDelay, ctl.onHold)
	return ctl
}

// Timers delivers actions fired by long-press timers.
func (c *Controller) Timers() <-chan Action {
	return c.timers
}

// SetGrid replaces the layout, e.g. after a resize or week change.
func (c *Controller) SetGrid(g Grid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid = g
}

func (c *Controller) Grid() Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

// Menu returns a copy of the context menu state.
func (c *Controller) Menu() Menu {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menu
}

// Editing returns the id of the event in editable mode, if any.
func (c *Controller) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Dragging reports whether the pointer has moved since going down.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.Mode != DragNone && c.drag.Moved
}

// DragPreview returns the range a drag-create in progress would produce.
func (c *Controller) DragPreview() (start, end time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag.Mode != DragCreate || !c.drag.Moved {
		return time.Time{}, time.Time{}, false
	}
	return c.grid.Span(c.drag.Origin, c.drag.Current)
}

// Press handles pointer-down. With the menu open, a press inside selects
// an item and a press outside dismisses it; either way the press starts
// no new gesture.
func (c *Controller) Press(p Point, events []domain.CalendarEvent) []Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.menu.Open {
		menu := c.menu
		if menu.Contains(p) {
			item, ok := menu.ItemAt(p)
			if !ok {
				return nil
			}
			c.menu.Dismiss()
			return []Action{{Kind: ActionMenuSelect, EventID: menu.EventID, At: p, Item: item}}
		}
		c.menu.Dismiss()
		return []Action{{Kind: ActionDismiss, EventID: menu.EventID, At: p}}
	}

	if _, _, ok := c.grid.Cell(p); !ok {
		if c.editing != "" {
			id := c.editing
			c.editing = ""
			return []Action{{Kind: ActionDismiss, EventID: id, At: p}}
		}
		return nil
	}

	id, edge := c.grid.EventAt(events, p)
	switch {
	case id == "":
		c.drag = Drag{Mode: DragCreate, Origin: p, Current: p}
	case edge:
		c.drag = Drag{Mode: DragResize, EventID: id, Origin: p, Current: p}
	default:
		c.drag = Drag{Mode: DragMove, EventID: id, Origin: p, Current: p}
		c.lp.Press(id, p)
	}
	return nil
}

// Motion handles pointer movement while the button is held. Any movement
// away from the press cell cancels the long-press timers.
func (c *Controller) Motion(p Point) []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag.Mode == DragNone || p == c.drag.Current {
		return nil
	}
	c.lp.Cancel()
	c.drag.Current = p
	c.drag.Moved = true
	c.menu.Dismiss()
	return nil
}

// Release handles pointer-up and completes any drag.
func (c *Controller) Release(p Point, events []domain.CalendarEvent) []Action {
	c.lp.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.drag
	c.drag = Drag{}
	if d.Mode == DragNone {
		return nil
	}
	if p != d.Current {
		d.Current = p
		d.Moved = true
	}
	if !d.Moved {
		return nil
	}

	switch d.Mode {
	case DragCreate:
		start, end, ok := c.grid.Span(d.Origin, d.Current)
		if !ok {
			return nil
		}
		return []Action{{Kind: ActionDragCreate, At: p, Start: start, End: end}}

	case DragMove:
		i := domain.FindEvent(events, d.EventID)
		if i < 0 {
			return nil
		}
		ev := events[i]
		delta, ok := c.offset(d.Origin, d.Current)
		if !ok || delta == 0 {
			return nil
		}
		return []Action{{Kind: ActionMove, EventID: ev.ID, At: p, Start: ev.Start.Add(delta), End: ev.End.Add(delta)}}

	case DragResize:
		i := domain.FindEvent(events, d.EventID)
		if i < 0 {
			return nil
		}
		ev := events[i]
		col, row, ok := c.grid.Cell(c.grid.Clamp(d.Current))
		if !ok {
			return nil
		}
		end := c.grid.TimeAt(col, row).Add(c.grid.slot())
		if !end.After(ev.Start) {
			end = ev.Start.Add(c.grid.slot())
		}
		if end.Equal(ev.End) {
			return nil
		}
		return []Action{{Kind: ActionResize, EventID: ev.ID, At: p, Start: ev.Start, End: end}}
	}
	return nil
}

// ExitEdit leaves editable mode.
func (c *Controller) ExitEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = ""
}

// DismissMenu closes the context menu.
func (c *Controller) DismissMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu.Dismiss()
}

// MoveMenuSelection moves the keyboard highlight in the open menu.
func (c *Controller) MoveMenuSelection(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu.MoveSelection(delta)
}

// SelectCurrent picks the highlighted menu item.
func (c *Controller) SelectCurrent() (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.menu.Current()
	if item == "" {
		return Action{}, false
	}
	a := Action{Kind: ActionMenuSelect, EventID: c.menu.EventID, At: c.menu.At, Item: item}
	c.menu.Dismiss()
	return a, true
}

// OpenMenu opens the context menu for an event from the keyboard.
func (c *Controller) OpenMenu(eventID string, at Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menu.Show(eventID, at, DefaultMenuItems, c.drag.Moved)
}

// offset converts a pointer displacement into a whole-slot time delta,
// moving across days when the column changes.
func (c *Controller) offset(from, to Point) (time.Duration, bool) {
	fc, fr, ok := c.grid.Cell(from)
	if !ok {
		return 0, false
	}
	tc, tr, _ := c.grid.Cell(c.grid.Clamp(to))
	return c.grid.TimeAt(tc, tr).Sub(c.grid.TimeAt(fc, fr)), true
}

// onHold runs on the timer goroutine.
func (c *Controller) onHold(a Action) {
	c.mu.Lock()
	switch a.Kind {
	case ActionContextMenu:
		if !c.menu.Show(a.EventID, a.At, DefaultMenuItems, c.drag.Moved) {
			c.mu.Unlock()
			return
		}
	case ActionEdit:
		c.menu.Dismiss()
		c.editing = a.EventID
	}
	c.mu.Unlock()

	select {
	case c.timers <- a:
	default:
	}
}
