package cli

import (
	"log/slog"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/calendar"
	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/config"
	"github.com/ethanhollins/cc-web-sub001/internal/live"
	"github.com/ethanhollins/cc-web-sub001/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tickets  service.TicketService
	Schedule service.ScheduleService
	Skills   service.SkillService
	Coaches  service.CoachService
	Prefs    service.PreferenceService

	// Live keeps the calendar cache in step with backend pushes. Nil
	// disables the watch command and background sync in the TUI.
	Live *live.Syncer

	// Subscribe registers for calendar cache changes. Nil means views
	// only reload after their own mutations.
	Subscribe func(fn func(calendar.Snapshot)) func()

	Config config.Config
	Clock  clock.Clock
	Logger *slog.Logger

	// IsInteractive reports whether the terminal can host the TUI.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "ccweb" command and registers all
// subcommands against the provided App. Run bare on a terminal it opens
// the TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ccweb",
		Short: "Command Center planner: calendar, tickets, skills and coaching",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		},
	}

	root.AddCommand(
		newEventsCmd(app),
		newBreaksCmd(app),
		newTicketsCmd(app),
		newProjectsCmd(app),
		newSkillsCmd(app),
		newCoachesCmd(app),
		newProgramCmd(app),
		newExportCmd(app),
		newThemeCmd(app),
		newResetCmd(app),
		newWatchCmd(app),
	)

	return root
}

func (a *App) location() *time.Location {
	loc, err := a.Config.Location()
	if err != nil || loc == nil {
		return time.Local
	}
	return loc
}

func (a *App) now() time.Time {
	c := a.Clock
	if c == nil {
		c = clock.Real{}
	}
	return c.Now().In(a.location())
}
