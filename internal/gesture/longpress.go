// Package gesture turns raw pointer input on the week grid into calendar
// actions: long-press menus, edit mode, drag-to-create, move and resize.
package gesture

import (
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
)

// Default long-press thresholds.
const (
	DefaultMenuDelay = 500 * time.Millisecond
	DefaultEditDelay = 1000 * time.Millisecond
)

// Point is a cell on the terminal screen.
type Point struct {
	X, Y int
}

// LongPress runs the two hold timers started when the pointer goes down on
// an event. Holding past the menu delay fires ActionContextMenu, holding
// past the edit delay fires ActionEdit. Cancel (pointer moved or released)
// stops whichever timers have not fired.
type LongPress struct {
	clock     clock.Clock
	menuDelay time.Duration
	editDelay time.Duration
	fire      func(Action)

	mu        sync.Mutex
	gen       uint64
	menuTimer clock.Timer
	editTimer clock.Timer
	eventID   string
	at        Point
}

// NewLongPress creates a LongPress that reports fired actions to fire.
// Non-positive delays fall back to the defaults.
func NewLongPress(c clock.Clock, menuDelay, editDelay time.Duration, fire func(Action)) *LongPress {
	if menuDelay <= 0 {
		menuDelay = DefaultMenuDelay
	}
	if editDelay <= 0 {
		editDelay = DefaultEditDelay
	}
	return &LongPress{clock: c, menuDelay: menuDelay, editDelay: editDelay, fire: fire}
}

// Press starts both timers for eventID, replacing any press in progress.
func (l *LongPress) Press(eventID string, at Point) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
	l.gen++
	gen := l.gen
	l.eventID, l.at = eventID, at
	l.menuTimer = l.clock.AfterFunc(l.menuDelay, func() { l.expire(gen, ActionContextMenu) })
	l.editTimer = l.clock.AfterFunc(l.editDelay, func() { l.expire(gen, ActionEdit) })
}

// Cancel stops pending timers.
func (l *LongPress) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
	l.gen++
}

// Active reports whether a press is being held with timers still pending.
func (l *LongPress) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.menuTimer != nil || l.editTimer != nil
}

func (l *LongPress) expire(gen uint64, kind ActionKind) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	if kind == ActionContextMenu {
		l.menuTimer = nil
	} else {
		l.editTimer = nil
	}
	a := Action{Kind: kind, EventID: l.eventID, At: l.at}
	l.mu.Unlock()

	if l.fire != nil {
		l.fire(a)
	}
}

func (l *LongPress) stopLocked() {
	if l.menuTimer != nil {
		l.menuTimer.Stop()
		l.menuTimer = nil
	}
	if l.editTimer != nil {
		l.editTimer.Stop()
		l.editTimer = nil
	}
}
