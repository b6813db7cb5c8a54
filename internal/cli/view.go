package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewID int

const (
	ViewWeek ViewID = iota
	ViewUnscheduled
	ViewTicket
	ViewSkills
	ViewPrograms
	ViewForm
)

// View is one screen on the appModel's stack.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding
	// Title is the breadcrumb segment, e.g. "Week of 9 Jun (W24)" or "CC-12".
	Title() string
}

// rootViewKeys maps the number keys to the four top-level screens.
var rootViewKeys = map[string]func(*SharedState) View{
	"1": func(s *SharedState) View { return newWeekView(s) },
	"2": func(s *SharedState) View { return newUnscheduledView(s) },
	"3": func(s *SharedState) View { return newSkillsView(s) },
	"4": func(s *SharedState) View { return newProgramsView(s) },
}

// modalView is implemented by views with transient states (an open event
// menu, a filter prompt) that take every key until dismissed.
type modalView interface {
	Modal() bool
}

// viewCapturesInput reports whether keys bypass the global bindings
// (q, :, esc and the number keys) and go straight to v.
func viewCapturesInput(v View) bool {
	switch {
	case v == nil:
		return false
	case v.ID() == ViewForm:
		return true
	}
	mv, ok := v.(modalView)
	return ok && mv.Modal()
}
