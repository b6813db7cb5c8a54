package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/calendar"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// EventsBackend is the events part of the REST API.
type EventsBackend interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListBreaks(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error)
	CreateBreak(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error)
}

// calendarBackend lets the week cache hold breaks next to regular events.
type calendarBackend struct {
	api    EventsBackend
	logger *slog.Logger
}

// NewCalendarBackend adapts the events API to calendar.Backend. A week's
// breaks are fetched with its events; a failed breaks fetch is logged and
// the events are still returned.
func NewCalendarBackend(backend EventsBackend, logger *slog.Logger) calendar.Backend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &calendarBackend{api: backend, logger: logger}
}

func (b *calendarBackend) ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	events, err := b.api.ListEvents(ctx, start, end)
	if err != nil {
		return nil, err
	}
	breaks, err := b.api.ListBreaks(ctx, start, end)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		b.logger.Warn("loading breaks failed", "start", start.Format(time.DateOnly), "error", err)
		return events, nil
	}
	return append(events, breaks...), nil
}

func (b *calendarBackend) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	if in.CalendarID == domain.BreaksCalendarID {
		return b.api.CreateBreak(ctx, in)
	}
	return b.api.CreateEvent(ctx, in)
}

func (b *calendarBackend) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	return b.api.UpdateEvent(ctx, id, patch)
}

func (b *calendarBackend) DeleteEvent(ctx context.Context, id string) error {
	return b.api.DeleteEvent(ctx, id)
}
