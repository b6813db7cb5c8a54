package cli

import (
	"context"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Week is the Monday of the week the calendar shows.
	Week time.Time

	// Terminal dimensions
	Width  int
	Height int

	projectsMu sync.Mutex
	projects   map[string]domain.Project
}

func newSharedState(app *App) *SharedState {
	s := &SharedState{App: app}
	week := app.now()
	if app.Prefs != nil {
		if last, ok := app.Prefs.LastWeek(context.Background()); ok {
			week = last.In(app.location())
		}
	}
	s.Week = domain.WeekStart(week)
	return s
}

// SetWeek moves the calendar to the week containing t and remembers it
// for the next session. Persisting is best-effort.
func (s *SharedState) SetWeek(ctx context.Context, t time.Time) {
	s.Week = domain.WeekStart(t)
	if s.App.Prefs != nil {
		_ = s.App.Prefs.SetLastWeek(ctx, s.Week)
	}
}

// Projects returns the project index, loading it on first use.
func (s *SharedState) Projects(ctx context.Context) map[string]domain.Project {
	s.projectsMu.Lock()
	defer s.projectsMu.Unlock()
	if s.projects == nil {
		s.projects = projectIndex(ctx, s.App)
	}
	return s.projects
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status bar (2 lines: separator + hints), and command bar (1 line).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
