package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/google/uuid"
)

var testKeyCounter atomic.Int64

func nextKey(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, testKeyCounter.Add(1))
}

// Ticket options
type TicketOption func(*domain.Ticket)

func WithStatus(s domain.TicketStatus) TicketOption {
	return func(t *domain.Ticket) {
		t.Status = s
	}
}

func WithType(typ domain.TicketType) TicketOption {
	return func(t *domain.Ticket) {
		t.Type = typ
	}
}

func WithProject(id string) TicketOption {
	return func(t *domain.Ticket) {
		t.ProjectID = id
	}
}

func WithEpic(id string) TicketOption {
	return func(t *domain.Ticket) {
		t.EpicID = id
	}
}

func WithScheduledDate(d time.Time) TicketOption {
	return func(t *domain.Ticket) {
		t.ScheduledDate = &d
	}
}

func WithSlot(start, end time.Time) TicketOption {
	return func(t *domain.Ticket) {
		t.Start = &start
		t.End = &end
	}
}

func WithKey(key string) TicketOption {
	return func(t *domain.Ticket) {
		t.Key = key
	}
}

func NewTestTicket(title string, opts ...TicketOption) domain.Ticket {
	t := domain.Ticket{
		ID:     uuid.New().String(),
		Key:    nextKey("TST"),
		Type:   domain.TicketTask,
		Title:  title,
		Status: domain.StatusTodo,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Event options
type EventOption func(*domain.CalendarEvent)

func WithCalendar(id string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.CalendarID = id
	}
}

func WithEventID(id string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.ID = id
	}
}

func WithCompleted() EventOption {
	return func(e *domain.CalendarEvent) {
		e.Completed = true
	}
}

func WithAllDay() EventOption {
	return func(e *domain.CalendarEvent) {
		e.AllDay = true
	}
}

func NewTestEvent(title string, start time.Time, dur time.Duration, opts ...EventOption) domain.CalendarEvent {
	e := domain.CalendarEvent{
		Ticket: domain.Ticket{
			ID:     uuid.New().String(),
			Key:    nextKey("EVT"),
			Type:   domain.TicketEvent,
			Title:  title,
			Status: domain.StatusTodo,
		},
		Start: start,
		End:   start.Add(dur),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func NewTestProject(title string) domain.Project {
	return domain.Project{
		ID:     uuid.New().String(),
		Key:    nextKey("PRJ"),
		Status: domain.ProjectActive,
		Title:  title,
	}
}
