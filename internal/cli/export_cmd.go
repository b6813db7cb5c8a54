package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a week as iCalendar or a PDF report",
	}
	cmd.AddCommand(
		newExportFormatCmd(app, "ics", "Write the week as an iCalendar feed", false,
			func(w io.Writer, week time.Time, events []domain.CalendarEvent) error {
				return export.WriteICS(w, events)
			}),
		newExportFormatCmd(app, "pdf", "Write a printable week report", true, export.WritePDF),
	)
	return cmd
}

type exportFunc func(w io.Writer, week time.Time, events []domain.CalendarEvent) error

// newExportFormatCmd builds one export subcommand. Binary formats refuse
// to write to the terminal.
func newExportFormatCmd(app *App, name, short string, binary bool, write exportFunc) *cobra.Command {
	var week time.Time
	var out string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if week.IsZero() {
				week = app.now()
			}
			if binary && out == "" {
				return fmt.Errorf("--out is required for %s export", name)
			}
			events, err := app.Schedule.Week(cmd.Context(), week)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return write(cmd.OutOrStdout(), week, events)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := write(f, week, events); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(events), out)
			return nil
		},
	}

	cmd.Flags().Var(newDayValue(app.now, &week), "week", "Any day in the week to export (default today)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (- for stdout)")
	return cmd
}
