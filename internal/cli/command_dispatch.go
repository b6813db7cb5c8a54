package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
)

// tuiCommands are handled by the TUI itself; anything else goes through
// the cobra tree.
var tuiCommands = []string{"week", "unscheduled", "skills", "programs", "ticket", "new", "refresh", "help", "clear", "quit", "exit"}

// executeCommand dispatches a text command and returns a tea.Cmd.
// Commands may return cmdOutputMsg for display, navigation messages
// for view transitions, or quitMsg for exit.
func (c *commandBar) executeCommand(input string) tea.Cmd {
	parts, err := splitShellArgs(input)
	if err != nil {
		return outputCmd(shellError(err))
	}
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	app := c.state.App

	switch cmd {
	case "week":
		day := app.now()
		if len(args) > 0 {
			d, err := parseDay(strings.Join(args, " "), app.now())
			if err != nil {
				return outputCmd(shellError(err))
			}
			day = d
		}
		c.state.SetWeek(context.Background(), day)
		return switchRoot(newWeekView(c.state))
	case "unscheduled":
		if len(args) == 0 {
			return switchRoot(newUnscheduledView(c.state))
		}
	case "skills":
		if len(args) == 0 {
			return switchRoot(newSkillsView(c.state))
		}
	case "programs":
		if len(args) == 0 {
			return switchRoot(newProgramsView(c.state))
		}
	case "ticket":
		if len(args) == 1 {
			return pushView(newTicketView(c.state, args[0]))
		}
	case "new":
		if len(args) > 0 && strings.EqualFold(args[0], "ticket") {
			return newTicketWizard(c.state)
		}
		start := roundUp(app.now(), app.Config.Calendar.SlotMinutes)
		return newEventWizard(c.state, start, start.Add(time.Hour))
	case "refresh":
		return mutatingOutputCmd(func() string {
			if err := app.Schedule.Refresh(context.Background()); err != nil {
				return shellError(err)
			}
			return "Calendar refreshed."
		})
	case "watch":
		return outputCmd(formatter.Dim("Live updates are already on in the TUI; run `ccweb watch` from a shell to follow them."))
	case "help":
		if len(args) == 0 {
			return outputCmd(tuiHelp())
		}
	case "clear":
		return nil
	case "exit", "quit":
		return func() tea.Msg { return quitMsg{} }
	}

	return mutatingOutputCmd(func() string { return captureCobraOutput(app, parts) })
}

// asyncOutputCmd wraps a blocking function in a tea.Cmd. The function's
// string result is delivered as a cmdOutputMsg.
func asyncOutputCmd(fn func() string) tea.Cmd {
	return func() tea.Msg {
		return cmdOutputMsg{output: fn()}
	}
}

// mutatingOutputCmd is asyncOutputCmd for commands that may write. The
// views reload only after fn has returned.
func mutatingOutputCmd(fn func() string) tea.Cmd {
	return func() tea.Msg {
		return cmdOutputMsg{output: fn(), refresh: true}
	}
}

// allCommandNames returns the TUI commands plus the top-level cobra commands.
func allCommandNames(app *App) []string {
	names := append([]string(nil), tuiCommands...)
	for _, c := range NewRootCmd(app).Commands() {
		if !c.Hidden && c.Name() != "help" && c.Name() != "completion" {
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return dedupe(names)
}

// subcommandNames maps each cobra command with children to their names.
func subcommandNames(app *App) map[string][]string {
	out := map[string][]string{}
	for _, c := range NewRootCmd(app).Commands() {
		var subs []string
		for _, s := range c.Commands() {
			if !s.Hidden {
				subs = append(subs, s.Name())
			}
		}
		if len(subs) > 0 {
			out[c.Name()] = subs
		}
	}
	return out
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func tuiHelp() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Views") + "\n")
	rows := [][2]string{
		{"1  week [day]", "Calendar week (h/l to change week)"},
		{"2  unscheduled", "Tickets with a date but no slot"},
		{"3  skills", "Skill tabs and rubrics"},
		{"4  programs", "Coaching programs"},
		{"   ticket <id>", "Ticket details"},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", formatter.StyleGreen.Render(formatter.PadRight(r[0], 16)), formatter.Dim(r[1]))
	}
	b.WriteString("\n" + formatter.Header("Actions") + "\n")
	rows = [][2]string{
		{"new", "Create an event"},
		{"new ticket", "Create a ticket"},
		{"refresh", "Refetch the calendar"},
		{"quit", "Leave"},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", formatter.StyleGreen.Render(formatter.PadRight(r[0], 16)), formatter.Dim(r[1]))
	}
	b.WriteString("\n" + formatter.Dim("Any other command runs as `ccweb <command>`, e.g. tickets list --tree."))
	return b.String()
}
