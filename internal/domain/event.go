package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// BreaksCalendarID is the calendar id given to breaks fetched from
// /events/breaks so they can share the week cache with regular events.
const BreaksCalendarID = "breaks"

// TempIDPrefix marks ids assigned locally before the server confirms a create.
const TempIDPrefix = "tmp-"

// ErrInvalidRange is returned when an event does not end after it starts.
var ErrInvalidRange = errors.New("event must end after it starts")

// CalendarEvent is a ticket placed on the calendar. The outer Start/End
// shadow the optional slot fields of the embedded Ticket.
type CalendarEvent struct {
	Ticket
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	CalendarID string    `json:"calendar_id"`
	AllDay     bool      `json:"all_day"`
	Completed  bool      `json:"completed"`
}

// Validate checks the start < end invariant.
func (e *CalendarEvent) Validate() error {
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: %s .. %s", ErrInvalidRange,
			e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	}
	return nil
}

// Duration returns End - Start.
func (e *CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsBreak reports whether the event came from the breaks endpoint.
func (e *CalendarEvent) IsBreak() bool {
	return e.CalendarID == BreaksCalendarID
}

// IsPending reports whether the event only exists locally so far.
func (e *CalendarEvent) IsPending() bool {
	return strings.HasPrefix(e.ID, TempIDPrefix)
}

// Overlaps reports whether e and o share any instant.
func (e *CalendarEvent) Overlaps(o *CalendarEvent) bool {
	return e.Start.Before(o.End) && o.Start.Before(e.End)
}

// OnDay reports whether the event intersects the calendar day containing day.
func (e *CalendarEvent) OnDay(day time.Time) bool {
	start := StartOfDay(day)
	end := start.AddDate(0, 0, 1)
	return e.Start.Before(end) && start.Before(e.End)
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title      string     `json:"title"`
	Type       TicketType `json:"type"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	CalendarID string     `json:"calendar_id,omitempty"`
	AllDay     bool       `json:"all_day"`
	TicketID   string     `json:"ticket_id,omitempty"`
	ProjectID  string     `json:"project_id,omitempty"`
}

// Validate checks the start < end invariant and a non-empty title.
func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("event title is required")
	}
	if !in.Start.Before(in.End) {
		return ErrInvalidRange
	}
	return nil
}

// ToEvent builds the local representation used before the server responds.
func (in EventInput) ToEvent(id string) CalendarEvent {
	typ := in.Type
	if typ == "" {
		typ = TicketEvent
	}
	return CalendarEvent{
		Ticket: Ticket{
			ID:        id,
			Type:      typ,
			Title:     in.Title,
			Status:    StatusTodo,
			ProjectID: in.ProjectID,
		},
		Start:      in.Start,
		End:        in.End,
		CalendarID: in.CalendarID,
		AllDay:     in.AllDay,
	}
}

// EventPatch lists the event fields a PATCH may change.
type EventPatch struct {
	Title     *string       `json:"title,omitempty"`
	Status    *TicketStatus `json:"status,omitempty"`
	Start     *time.Time    `json:"start,omitempty"`
	End       *time.Time    `json:"end,omitempty"`
	AllDay    *bool         `json:"all_day,omitempty"`
	Completed *bool         `json:"completed,omitempty"`
}

// Apply returns a copy of e with the patch applied.
func (p EventPatch) Apply(e CalendarEvent) CalendarEvent {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.AllDay != nil {
		e.AllDay = *p.AllDay
	}
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
	return e
}

// SortEvents orders events by start, then end, then id.
func SortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.ID < b.ID
	})
}

// FindEvent returns the index of the event with the given id, or -1.
func FindEvent(events []CalendarEvent, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

// EventsOnDay returns the events intersecting the given day, in order.
func EventsOnDay(events []CalendarEvent, day time.Time) []CalendarEvent {
	var out []CalendarEvent
	for _, e := range events {
		if e.OnDay(day) {
			out = append(out, e)
		}
	}
	SortEvents(out)
	return out
}
