package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/calendar"
	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// switchRootMsg clears the stack down to a single view.
type switchRootMsg struct {
	view View
}

// cmdOutputMsg carries text output from a command execution
// to be displayed transiently in the current view.
type cmdOutputMsg struct {
	output string
	// refresh reloads every view once the output is shown, for commands
	// that may have changed the calendar or tickets.
	refresh bool
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// calendarChangedMsg carries a calendar cache snapshot pushed by the store.
type calendarChangedMsg struct {
	snap calendar.Snapshot
}

// quitMsg signals the app to quit.
type quitMsg struct{}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// replaceView returns a tea.Cmd that replaces the top view.
func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

func switchRoot(v View) tea.Cmd {
	return func() tea.Msg { return switchRootMsg{view: v} }
}

func refreshViews() tea.Msg { return refreshViewMsg{} }

// outputCmd returns a tea.Cmd that sends a cmdOutputMsg.
func outputCmd(s string) tea.Cmd {
	if s == "" {
		return nil
	}
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

// wizardCompleteOutput pops the wizard and shows msg.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: outputCmd(msg)}
}

// wrapAsWizardComplete runs fn and pops the wizard with its result,
// formatting errors via shellError.
func wrapAsWizardComplete(fn func() (string, error)) tea.Msg {
	msg, err := fn()
	if err != nil {
		return wizardCompleteOutput(shellError(err))
	}
	return wizardCompleteOutput(msg)
}

// shellError renders an error for the output area.
func shellError(err error) string {
	return formatter.StyleRed.Render("Error: ") + err.Error()
}
