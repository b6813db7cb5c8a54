package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// WeekStore is the calendar cache the schedule service writes through.
type WeekStore interface {
	Select(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error)
	Refresh(ctx context.Context) error
	Create(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
	Event(id string) (domain.CalendarEvent, bool)
	Upsert(ev domain.CalendarEvent)
	Remove(id string) (domain.CalendarEvent, bool)
}

// TicketUpdater is the single ticket call scheduling needs.
type TicketUpdater interface {
	UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error)
}

type scheduleService struct {
	store    WeekStore
	tickets  TicketUpdater
	observer UseCaseObserver
}

func NewScheduleService(store WeekStore, tickets TicketUpdater, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{store: store, tickets: tickets, observer: useCaseObserverOrNoop(observers)}
}

func (s *scheduleService) Week(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error) {
	return s.store.Select(ctx, date)
}

func (s *scheduleService) Refresh(ctx context.Context) error {
	return s.store.Refresh(ctx)
}

func (s *scheduleService) CreateEvent(ctx context.Context, in domain.EventInput) (ev *domain.CalendarEvent, err error) {
	fields := map[string]any{"title": in.Title, "start": in.Start.Format(time.RFC3339)}
	defer observe(ctx, s.observer, "create-event", time.Now(), fields, &err)

	in.Title = strings.TrimSpace(in.Title)
	if in.Type == "" {
		in.Type = domain.TicketEvent
	}
	ev, err = s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	fields["id"] = ev.ID
	return ev, nil
}

func (s *scheduleService) MoveEvent(ctx context.Context, id string, start, end time.Time) (ev *domain.CalendarEvent, err error) {
	fields := map[string]any{"id": id, "start": start.Format(time.RFC3339), "end": end.Format(time.RFC3339)}
	defer observe(ctx, s.observer, "move-event", time.Now(), fields, &err)

	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}
	return s.store.Update(ctx, id, domain.EventPatch{Start: &start, End: &end})
}

func (s *scheduleService) RenameEvent(ctx context.Context, id, title string) (ev *domain.CalendarEvent, err error) {
	defer observe(ctx, s.observer, "rename-event", time.Now(), map[string]any{"id": id}, &err)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	return s.store.Update(ctx, id, domain.EventPatch{Title: &title})
}

func (s *scheduleService) CompleteEvent(ctx context.Context, id string, done bool) (ev *domain.CalendarEvent, err error) {
	defer observe(ctx, s.observer, "complete-event", time.Now(), map[string]any{"id": id, "done": done}, &err)

	status := domain.StatusTodo
	if done {
		status = domain.StatusDone
	}
	return s.store.Update(ctx, id, domain.EventPatch{Completed: &done, Status: &status})
}

func (s *scheduleService) DeleteEvent(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-event", time.Now(), map[string]any{"id": id}, &err)
	return s.store.Delete(ctx, id)
}

// ScheduleTicket gives a ticket a time slot. The event shows on the
// calendar immediately and is taken back off if the PATCH fails.
func (s *scheduleService) ScheduleTicket(ctx context.Context, ticket domain.Ticket, start, end time.Time) (ev *domain.CalendarEvent, err error) {
	fields := map[string]any{"ticket": ticket.ID, "start": start.Format(time.RFC3339)}
	defer observe(ctx, s.observer, "schedule-ticket", time.Now(), fields, &err)

	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	placed := domain.CalendarEvent{Ticket: ticket, Start: start, End: end}
	placed.Ticket.Start = domain.Ptr(start)
	placed.Ticket.End = domain.Ptr(end)

	prev, had := s.store.Event(ticket.ID)
	s.store.Upsert(placed)

	if _, err = s.tickets.UpdateTicket(ctx, ticket.ID, domain.TicketPatch{Start: &start, End: &end}); err != nil {
		if had {
			s.store.Upsert(prev)
		} else {
			s.store.Remove(ticket.ID)
		}
		return nil, fmt.Errorf("scheduling ticket %s: %w", ticket.DisplayKey(), err)
	}
	return &placed, nil
}

// UnscheduleTicket takes a ticket off the calendar. It keeps the day it was
// on as its scheduled date so it shows up in the unscheduled list.
func (s *scheduleService) UnscheduleTicket(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "unschedule-ticket", time.Now(), map[string]any{"ticket": id}, &err)

	prev, had := s.store.Remove(id)
	patch := domain.TicketPatch{ClearSlot: true}
	if had {
		patch.ScheduledDate = domain.Ptr(domain.StartOfDay(prev.Start))
	}
	if _, err = s.tickets.UpdateTicket(ctx, id, patch); err != nil {
		if had {
			s.store.Upsert(prev)
		}
		return fmt.Errorf("unscheduling ticket %s: %w", id, err)
	}
	return nil
}

// Breaks returns the breaks in the week containing date.
func (s *scheduleService) Breaks(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error) {
	events, err := s.store.Select(ctx, date)
	if err != nil {
		return nil, err
	}
	var out []domain.CalendarEvent
	for _, ev := range events {
		if ev.IsBreak() {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *scheduleService) AddBreak(ctx context.Context, title string, start, end time.Time) (ev *domain.CalendarEvent, err error) {
	defer observe(ctx, s.observer, "add-break", time.Now(), map[string]any{"start": start.Format(time.RFC3339)}, &err)

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Break"
	}
	return s.store.Create(ctx, domain.EventInput{
		Title:      title,
		Type:       domain.TicketEvent,
		Start:      start,
		End:        end,
		CalendarID: domain.BreaksCalendarID,
	})
}
