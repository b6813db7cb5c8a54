package cli

import (
	"fmt"
	"strings"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	validThemes := make([]string, len(domain.Themes))
	for i, t := range domain.Themes {
		validThemes[i] = string(t)
	}

	return &cobra.Command{
		Use:       "theme [system|light|dark]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: validThemes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				theme, err := app.Prefs.Theme(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s %s\n", formatter.Bold(string(theme)),
					formatter.Dim("("+strings.Join(validThemes, ", ")+")"))
				return nil
			}
			theme, err := domain.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := app.Prefs.SetTheme(ctx, theme); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear local preferences and close all skill tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset clears the theme, last viewed week and skill tabs; pass --yes to confirm")
			}
			if err := app.Prefs.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local preferences cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
