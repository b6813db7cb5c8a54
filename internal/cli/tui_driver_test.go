package cli

import (
	"testing"

	"github.com/ethanhollins/cc-web-sub001/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, shared state, command bar focus).
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app at 100x60 and drains Init,
// which loads the current week from the fake backend.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	return newTestDriverSized(t, app, 100, 60)
}

func newTestDriverSized(t *testing.T, app *App, width, height int) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(width, height))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// Command focuses the command bar, types input and presses Enter. Output-only
// commands leave the bar focused, so it is blurred afterwards to route the
// next keys to the active view.
func (d *TestDriver) Command(input string) {
	d.T.Helper()
	d.PressKey(':')
	d.Type(input)
	d.PressEnter()
	if d.CmdBarFocused() {
		d.PressEsc()
	}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view, or -1 for an empty stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the stack bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting checks both the model flag and the driver's tea.QuitMsg flag.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

func (d *TestDriver) CmdBarFocused() bool {
	m := d.appModel()
	return m.cmdBar.Focused()
}

func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// WeekView returns the week view at the bottom of the stack, if any.
func (d *TestDriver) WeekView() *weekView {
	d.T.Helper()
	for _, v := range d.appModel().viewStack {
		if wv, ok := v.(*weekView); ok {
			return wv
		}
	}
	d.T.Fatalf("no week view on the stack: %v", d.ViewStackIDs())
	return nil
}
