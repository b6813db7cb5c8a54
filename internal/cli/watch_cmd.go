package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/realtime"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var agenda bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live calendar updates until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Live == nil {
				return fmt.Errorf("live sync is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			week := app.now()
			if _, err := app.Schedule.Week(ctx, week); err != nil {
				return err
			}
			if agenda {
				printAgenda(ctx, cmd, app)
			}

			app.Live.OnMessage = func(m realtime.Message) {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim(app.now().Format("15:04:05")), describePush(m))
				if agenda {
					printAgenda(ctx, cmd, app)
				}
			}
			defer func() { app.Live.OnMessage = nil }()

			fmt.Fprintln(out, formatter.Dim("Watching for changes. Ctrl+C to stop."))
			err := app.Live.Run(ctx)
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&agenda, "agenda", false, "Reprint the week after every update")
	return cmd
}

func printAgenda(ctx context.Context, cmd *cobra.Command, app *App) {
	events, err := app.Schedule.Week(ctx, app.now())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render("Error: "+err.Error()))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeek(app.now(), events, app.now()))
}

func describePush(m realtime.Message) string {
	if m.IsJSON() {
		return formatter.StyleBlue.Render(m.Type) + " " + formatter.Dim("calendar refreshed")
	}
	return formatter.StyleBlue.Render(formatter.Truncate(strings.TrimSpace(m.Text), 40)) + " " + formatter.Dim("calendar refreshed")
}
