// Package live keeps the calendar cache in step with the backend: pushes
// from the WebSocket invalidate it, and a cron schedule forces periodic
// refreshes in case a push was missed.
package live

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/realtime"
	"github.com/robfig/cron/v3"
)

// Refresher is the part of the calendar store live sync drives.
type Refresher interface {
	NotifyRealtime(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// Runner is a realtime connection.
type Runner interface {
	Run(ctx context.Context, handler realtime.Handler) error
}

// Syncer connects a Refresher to realtime pushes and a refresh schedule.
type Syncer struct {
	store    Refresher
	rt       Runner
	schedule string
	loc      *time.Location
	logger   *slog.Logger

	// OnMessage, when set, sees every push after the store was notified.
	OnMessage func(realtime.Message)
}

// New creates a Syncer. rt may be nil to run only the cron refresh;
// an empty schedule disables the cron refresh.
func New(store Refresher, rt Runner, schedule string, loc *time.Location, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if loc == nil {
		loc = time.Local
	}
	return &Syncer{store: store, rt: rt, schedule: schedule, loc: loc, logger: logger}
}

// IsHeartbeat reports whether a push carries no change notification.
func IsHeartbeat(m realtime.Message) bool {
	kind := m.Type
	if kind == "" {
		kind = strings.TrimSpace(m.Text)
	}
	switch strings.ToLower(kind) {
	case "ping", "pong", "heartbeat", "connected":
		return true
	}
	return false
}

// Handle invalidates the store for one push.
func (s *Syncer) Handle(ctx context.Context, m realtime.Message) {
	if IsHeartbeat(m) {
		return
	}
	if err := s.store.NotifyRealtime(ctx); err != nil {
		s.logger.Warn("refetch after push failed", "type", m.Type, "error", err)
	}
	if s.OnMessage != nil {
		s.OnMessage(m)
	}
}

// Run blocks until ctx is cancelled or the realtime client gives up.
func (s *Syncer) Run(ctx context.Context) error {
	if s.schedule != "" {
		c := cron.New(cron.WithLocation(s.loc))
		if _, err := c.AddFunc(s.schedule, func() { s.tick(ctx) }); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		s.logger.Debug("refresh schedule started", "schedule", s.schedule)
	}

	if s.rt == nil {
		<-ctx.Done()
		return nil
	}
	return s.rt.Run(ctx, func(m realtime.Message) { s.Handle(ctx, m) })
}

func (s *Syncer) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.store.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled refresh failed", "error", err)
	}
}

// ValidateSchedule checks a cron expression without starting anything.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return nil
}
