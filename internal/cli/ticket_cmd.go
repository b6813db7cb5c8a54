package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/spf13/cobra"
)

// resolveTicket finds a ticket by id, key (case-insensitive), or id prefix.
func resolveTicket(ctx context.Context, app *App, input string) (*domain.Ticket, error) {
	if input == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}

	tickets, err := app.Tickets.List(ctx, api.TicketQuery{})
	if err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].ID == input {
			return &tickets[i], nil
		}
	}
	for i := range tickets {
		if tickets[i].Key != "" && strings.EqualFold(tickets[i].Key, input) {
			return &tickets[i], nil
		}
	}

	var matches []int
	for i := range tickets {
		if strings.HasPrefix(tickets[i].ID, input) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("ticket not found: %q", input)
	case 1:
		return &tickets[matches[0]], nil
	default:
		return nil, fmt.Errorf("ticket ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveProjectID accepts a project key or id.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	projects, err := app.Tickets.Projects(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.ID == input || (p.Key != "" && strings.EqualFold(p.Key, input)) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("project not found: %q", input)
}

// projectIndex loads projects for labels. A failure only costs the labels,
// so it yields an empty index.
func projectIndex(ctx context.Context, app *App) map[string]domain.Project {
	projects, err := app.Tickets.Projects(ctx)
	if err != nil {
		return map[string]domain.Project{}
	}
	return domain.ProjectIndex(projects)
}

func newTicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket", "t"},
		Short:   "Manage tickets",
	}

	cmd.AddCommand(
		newTicketsListCmd(app),
		newTicketsShowCmd(app),
		newTicketsCreateCmd(app),
		newTicketsUpdateCmd(app),
		newTicketsDeleteCmd(app),
		newTicketsUnscheduledCmd(app),
		newTicketsScheduleCmd(app),
		newTicketsUnscheduleCmd(app),
		newTicketsNotionCmd(app),
	)

	return cmd
}

func newTicketsListCmd(app *App) *cobra.Command {
	var project string
	var status domain.TicketStatus
	var typ domain.TicketType
	var tree bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tickets, err := app.Tickets.List(ctx, api.TicketQuery{ProjectID: projectID, Status: status})
			if err != nil {
				return err
			}
			if typ != "" {
				var kept []domain.Ticket
				for _, t := range tickets {
					if t.Type == typ {
						kept = append(kept, t)
					}
				}
				tickets = kept
			}

			if tree {
				if len(tickets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tickets found."))
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.TicketTree(tickets)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTicketList(tickets, projectIndex(ctx, app), app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project key or ID")
	cmd.Flags().Var(ticketStatusValue{&status}, "status", "Only tickets with this status")
	cmd.Flags().Var(ticketTypeValue{&typ}, "type", "Only tickets of this type")
	cmd.Flags().BoolVar(&tree, "tree", false, "Show epics with their children")

	return cmd
}

func newTicketsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show ticket details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTicketDetail(t, projectIndex(ctx, app), app.now()))
			return nil
		},
	}
}

func newTicketsCreateCmd(app *App) *cobra.Command {
	var title, project, epic string
	var date time.Time
	typ := domain.TicketTask
	status := domain.StatusTodo

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			in := domain.NewTicket{
				Title:             title,
				InternalProjectID: projectID,
				Type:              string(typ),
				EpicID:            epic,
				Status:            status,
			}
			if !date.IsZero() {
				in.ScheduledDate = &date
			}
			t, err := app.Tickets.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s %s\n",
				formatter.TypeBadge(t.Type), formatter.StyleGreen.Render(t.DisplayKey()), t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Ticket title")
	cmd.Flags().Var(ticketTypeValue{&typ}, "type", "Ticket type")
	cmd.Flags().Var(ticketStatusValue{&status}, "status", "Initial status")
	cmd.Flags().StringVar(&project, "project", "", "Project key or ID")
	cmd.Flags().StringVar(&epic, "epic", "", "Parent epic ID")
	cmd.Flags().Var(newDayValue(app.now, &date), "date", "Scheduled date")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTicketsUpdateCmd(app *App) *cobra.Command {
	var title, project, epic string
	var status domain.TicketStatus
	var typ domain.TicketType
	var date time.Time

	cmd := &cobra.Command{
		Use:   "update <ticket-id>",
		Short: "Update ticket fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.TicketPatch
			flags := cmd.Flags()
			changed := false
			if flags.Changed("title") {
				patch.Title = &title
				changed = true
			}
			if flags.Changed("status") {
				patch.Status = &status
				changed = true
			}
			if flags.Changed("type") {
				patch.Type = &typ
				changed = true
			}
			if flags.Changed("epic") {
				patch.EpicID = &epic
				changed = true
			}
			if flags.Changed("project") {
				projectID, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				patch.ProjectID = &projectID
				changed = true
			}
			if flags.Changed("date") {
				patch.ScheduledDate = &date
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update: pass at least one of --title, --status, --type, --epic, --project, --date")
			}

			updated, err := app.Tickets.Update(ctx, t.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s  %s\n",
				formatter.StyleGreen.Render(updated.DisplayKey()), updated.Title, formatter.TicketStatusPill(updated.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().Var(ticketStatusValue{&status}, "status", "New status")
	cmd.Flags().Var(ticketTypeValue{&typ}, "type", "New type")
	cmd.Flags().StringVar(&epic, "epic", "", "New parent epic ID")
	cmd.Flags().StringVar(&project, "project", "", "New project key or ID")
	cmd.Flags().Var(newDayValue(app.now, &date), "date", "New scheduled date")

	return cmd
}

func newTicketsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <ticket-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a ticket",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tickets.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", t.DisplayKey(), t.Title)
			return nil
		},
	}
}

func newTicketsUnscheduledCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "unscheduled",
		Short: "List tickets with a date but no time slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tickets, err := app.Tickets.Unscheduled(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUnscheduled(tickets, projectIndex(ctx, app), app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project key or ID")
	return cmd
}

func newTicketsScheduleCmd(app *App) *cobra.Command {
	var start, end time.Time
	var dur time.Duration

	cmd := &cobra.Command{
		Use:   "schedule <ticket-id>",
		Short: "Give a ticket a time slot on the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}
			stop, err := resolveEnd(start, end, dur)
			if err != nil {
				return err
			}
			if _, err := app.Schedule.Week(ctx, start); err != nil {
				return err
			}
			ev, err := app.Schedule.ScheduleTicket(ctx, *t, start, stop)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s for %s\n", formatter.StyleGreen.Render(t.DisplayKey()), eventSlot(ev))
			return nil
		},
	}

	cmd.Flags().Var(newDateTimeValue(app.now, &start), "start", "Slot start")
	cmd.Flags().Var(newDateTimeValue(app.now, &end), "end", "Slot end")
	cmd.Flags().DurationVar(&dur, "duration", time.Hour, "Slot length when --end is not given")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newTicketsUnscheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <ticket-id>",
		Short: "Take a ticket off the calendar, keeping its date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}
			if t.Start != nil {
				if _, err := app.Schedule.Week(ctx, *t.Start); err != nil {
					return err
				}
			}
			if err := app.Schedule.UnscheduleTicket(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unscheduled %s %s\n", formatter.StyleGreen.Render(t.DisplayKey()), t.Title)
			return nil
		},
	}
}

func newTicketsNotionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notion <ticket-id>",
		Short: "Show the ticket's linked Notion page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTicket(ctx, app, args[0])
			if err != nil {
				return err
			}
			page, err := app.Tickets.NotionPage(ctx, t.ID)
			if err != nil {
				return err
			}
			// A page without synced content still has a link worth showing.
			content, err := app.Tickets.NotionContent(ctx, t.ID)
			if err != nil && !api.IsNotFound(err) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNotion(page, content))
			return nil
		},
	}
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Tickets.Projects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
	return cmd
}
