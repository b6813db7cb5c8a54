package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// ListEvents returns the events intersecting [start, end).
func (c *Client) ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/events", rangeQuery(start, end), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent places a new event on the calendar.
func (c *Client) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	if in.Type == "" {
		in.Type = domain.TicketEvent
	}
	var ev domain.CalendarEvent
	if err := c.do(ctx, http.MethodPost, "/events", nil, in, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// UpdateEvent patches an event and returns the server's version.
func (c *Client) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	var ev domain.CalendarEvent
	if err := c.do(ctx, http.MethodPatch, pathID("/events", id), nil, patch, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("/events", id), nil, nil, nil)
}

// ListBreaks returns the breaks intersecting [start, end). They are tagged
// with the breaks calendar id so they can share caches with events.
func (c *Client) ListBreaks(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	var breaks []domain.CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/events/breaks", rangeQuery(start, end), nil, &breaks); err != nil {
		return nil, err
	}
	for i := range breaks {
		breaks[i].CalendarID = domain.BreaksCalendarID
	}
	return breaks, nil
}

// CreateBreak schedules a break.
func (c *Client) CreateBreak(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	var br domain.CalendarEvent
	if err := c.do(ctx, http.MethodPost, "/events/breaks", nil, in, &br); err != nil {
		return nil, err
	}
	br.CalendarID = domain.BreaksCalendarID
	return &br, nil
}
