package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI opens the full-screen planner. Background sync runs for as long
// as the program does.
func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.Live != nil {
		go func() {
			if err := app.Live.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && app.Logger != nil {
				app.Logger.Warn("live sync stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(newAppModel(app),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
