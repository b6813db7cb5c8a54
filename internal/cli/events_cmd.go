package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/spf13/cobra"
)

// resolveEvent finds an event in the week containing day by id, ticket
// key, or id prefix.
func resolveEvent(ctx context.Context, app *App, day time.Time, input string) (*domain.CalendarEvent, error) {
	if input == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	events, err := app.Schedule.Week(ctx, day)
	if err != nil {
		return nil, err
	}

	if i := domain.FindEvent(events, input); i >= 0 {
		return &events[i], nil
	}
	for i := range events {
		if events[i].Key != "" && strings.EqualFold(events[i].Key, input) {
			return &events[i], nil
		}
	}

	var matches []int
	for i := range events {
		if strings.HasPrefix(events[i].ID, input) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("event not found in week of %s: %q", domain.WeekStart(day).Format("2 Jan"), input)
	case 1:
		return &events[matches[0]], nil
	default:
		return nil, fmt.Errorf("event ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func eventSlot(ev *domain.CalendarEvent) string {
	if ev.AllDay {
		return ev.Start.Format("Mon 2 Jan") + " all day"
	}
	return ev.Start.Format("Mon 2 Jan 15:04") + "-" + ev.End.Format("15:04")
}

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event", "ev"},
		Short:   "View and edit calendar events",
	}

	cmd.AddCommand(
		newEventsListCmd(app),
		newEventsCreateCmd(app),
		newEventsMoveCmd(app),
		newEventsRenameCmd(app),
		newEventsCompleteCmd(app),
		newEventsDeleteCmd(app),
		newEventsRefreshCmd(app),
	)

	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var week time.Time
	var hideBreaks bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "week"},
		Short:   "Show a week as a day-by-day agenda",
		RunE: func(cmd *cobra.Command, args []string) error {
			if week.IsZero() {
				week = app.now()
			}
			events, err := app.Schedule.Week(cmd.Context(), week)
			if err != nil {
				return err
			}
			if hideBreaks {
				var kept []domain.CalendarEvent
				for _, ev := range events {
					if !ev.IsBreak() {
						kept = append(kept, ev)
					}
				}
				events = kept
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeek(week, events, app.now()))
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the week to show (default today)")
	cmd.Flags().BoolVar(&hideBreaks, "no-breaks", false, "Hide breaks")

	return cmd
}

func newEventsCreateCmd(app *App) *cobra.Command {
	var (
		title     string
		projectID string
		start     time.Time
		end       time.Time
		dur       time.Duration
		allDay    bool
	)
	typ := domain.TicketEvent

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if allDay {
				start = domain.StartOfDay(start)
				end = start.AddDate(0, 0, 1)
			}
			stop, err := resolveEnd(start, end, dur)
			if err != nil {
				return err
			}
			ev, err := app.Schedule.CreateEvent(cmd.Context(), domain.EventInput{
				Title:     title,
				Type:      typ,
				Start:     start,
				End:       stop,
				AllDay:    allDay,
				ProjectID: projectID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s  %s  %s\n",
				formatter.EventLabel(ev), formatter.Dim(eventSlot(ev)), formatter.Dim(ev.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().Var(newDateTimeValue(app.now, &start), "start", `Start, e.g. "tomorrow 09:30"`)
	cmd.Flags().Var(newDateTimeValue(app.now, &end), "end", "End (defaults to start + duration)")
	cmd.Flags().DurationVar(&dur, "duration", time.Hour, "Length when --end is not given")
	cmd.Flags().Var(ticketTypeValue{&typ}, "type", "Ticket type")
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "Create an all-day event")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventsMoveCmd(app *App) *cobra.Command {
	var (
		week  time.Time
		start time.Time
		end   time.Time
		dur   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "move <event-id>",
		Short: "Move or resize an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if week.IsZero() {
				week = app.now()
			}
			ev, err := resolveEvent(ctx, app, week, args[0])
			if err != nil {
				return err
			}
			if dur == 0 {
				dur = ev.Duration()
			}
			stop, err := resolveEnd(start, end, dur)
			if err != nil {
				return err
			}
			moved, err := app.Schedule.MoveEvent(ctx, ev.ID, start, stop)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", formatter.EventLabel(moved), eventSlot(moved))
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the event's current week (default today)")
	cmd.Flags().Var(newDateTimeValue(app.now, &start), "start", "New start")
	cmd.Flags().Var(newDateTimeValue(app.now, &end), "end", "New end")
	cmd.Flags().DurationVar(&dur, "duration", 0, "New length (default keeps the current one)")
	cmd.MarkFlagsMutuallyExclusive("end", "duration")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventsRenameCmd(app *App) *cobra.Command {
	var week time.Time

	cmd := &cobra.Command{
		Use:   "rename <event-id> <title>",
		Short: "Change an event's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if week.IsZero() {
				week = app.now()
			}
			ev, err := resolveEvent(ctx, app, week, args[0])
			if err != nil {
				return err
			}
			renamed, err := app.Schedule.RenameEvent(ctx, ev.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", formatter.EventLabel(renamed))
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the event's week (default today)")
	return cmd
}

func newEventsCompleteCmd(app *App) *cobra.Command {
	var week time.Time
	var undo bool

	cmd := &cobra.Command{
		Use:     "complete <event-id>",
		Aliases: []string{"done"},
		Short:   "Mark an event complete",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if week.IsZero() {
				week = app.now()
			}
			ev, err := resolveEvent(ctx, app, week, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Schedule.CompleteEvent(ctx, ev.ID, !undo)
			if err != nil {
				return err
			}
			if undo {
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", formatter.EventLabel(updated))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Completed %s\n", formatter.StyleGreen.Render("✔"), formatter.EventLabel(updated))
			}
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the event's week (default today)")
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the event not complete")
	return cmd
}

func newEventsDeleteCmd(app *App) *cobra.Command {
	var week time.Time

	cmd := &cobra.Command{
		Use:     "delete <event-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if week.IsZero() {
				week = app.now()
			}
			ev, err := resolveEvent(ctx, app, week, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedule.DeleteEvent(ctx, ev.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.EventLabel(ev))
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the event's week (default today)")
	return cmd
}

func newEventsRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refetch the current week from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.Schedule.Week(ctx, app.now()); err != nil {
				return err
			}
			if err := app.Schedule.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Calendar refreshed.")
			return nil
		},
	}
}

func newBreaksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "breaks",
		Aliases: []string{"break"},
		Short:   "View and add breaks",
	}
	cmd.AddCommand(newBreaksListCmd(app), newBreaksAddCmd(app))
	return cmd
}

func newBreaksListCmd(app *App) *cobra.Command {
	var week time.Time

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the breaks in a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if week.IsZero() {
				week = app.now()
			}
			breaks, err := app.Schedule.Breaks(cmd.Context(), week)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBreaks(breaks))
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the week (default today)")
	return cmd
}

func newBreaksAddCmd(app *App) *cobra.Command {
	var (
		title string
		start time.Time
		end   time.Time
		dur   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a break",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := resolveEnd(start, end, dur)
			if err != nil {
				return err
			}
			ev, err := app.Schedule.AddBreak(cmd.Context(), title, start, stop)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added break %s  %s\n", ev.Title, formatter.Dim(eventSlot(ev)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "Break", "Break title")
	cmd.Flags().Var(newDateTimeValue(app.now, &start), "start", "Start")
	cmd.Flags().Var(newDateTimeValue(app.now, &end), "end", "End")
	cmd.Flags().DurationVar(&dur, "duration", 15*time.Minute, "Length when --end is not given")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
