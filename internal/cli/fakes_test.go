package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// fakeBackend stands in for the REST API in CLI and TUI tests. Tickets
// with a time slot are listed as events, the way the server does.
type fakeBackend struct {
	mu       sync.Mutex
	events   []domain.CalendarEvent
	breaks   []domain.CalendarEvent
	tickets  []domain.Ticket
	projects []domain.Project
	notion   map[string]*domain.NotionContent
	seq      int

	listCalls     int
	ticketPatches []domain.TicketPatch
	updateErr     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		projects: []domain.Project{
			{ID: "proj-1", Key: "CC", Title: "Command Center", Status: domain.ProjectActive},
			{ID: "proj-2", Key: "HOME", Title: "Household", Status: domain.ProjectActive},
		},
		notion: map[string]*domain.NotionContent{},
	}
}

func (f *fakeBackend) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeBackend) addEvents(events ...domain.CalendarEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
}

func (f *fakeBackend) addTickets(tickets ...domain.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, tickets...)
}

func (f *fakeBackend) event(id string) (domain.CalendarEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := domain.FindEvent(f.events, id); i >= 0 {
		return f.events[i], true
	}
	return domain.CalendarEvent{}, false
}

func (f *fakeBackend) ticket(id string) (domain.Ticket, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Ticket{}, false
}

func (f *fakeBackend) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func inWeek(events []domain.CalendarEvent, start, end time.Time) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range events {
		if !e.Start.Before(start) && e.Start.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeBackend) ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := inWeek(f.events, start, end)
	for _, t := range f.tickets {
		if t.HasTimeSlot() && !t.Start.Before(start) && t.Start.Before(end) {
			out = append(out, domain.CalendarEvent{Ticket: t, Start: *t.Start, End: *t.End})
		}
	}
	return out, nil
}

func (f *fakeBackend) ListBreaks(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := inWeek(f.breaks, start, end)
	for i := range out {
		out[i].CalendarID = domain.BreaksCalendarID
	}
	return out, nil
}

func (f *fakeBackend) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := in.ToEvent(f.nextID("evt"))
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeBackend) CreateBreak(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.CalendarID = domain.BreaksCalendarID
	ev := in.ToEvent(f.nextID("brk"))
	f.breaks = append(f.breaks, ev)
	return &ev, nil
}

func (f *fakeBackend) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	i := domain.FindEvent(f.events, id)
	if i < 0 {
		return nil, &api.StatusError{StatusCode: 404, Method: "PATCH", Path: "/events/" + id}
	}
	f.events[i] = patch.Apply(f.events[i])
	ev := f.events[i]
	return &ev, nil
}

func (f *fakeBackend) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := domain.FindEvent(f.events, id); i >= 0 {
		f.events = append(f.events[:i], f.events[i+1:]...)
	}
	return nil
}

func (f *fakeBackend) ListTickets(ctx context.Context, q api.TicketQuery) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.FilterTickets(f.tickets, q.ProjectID, q.Status), nil
}

func (f *fakeBackend) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404, Method: "GET", Path: "/tickets/" + id}
}

func (f *fakeBackend) CreateTicket(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	typ, err := domain.ParseTicketType(in.Type)
	if err != nil {
		return nil, err
	}
	id := f.nextID("tkt")
	t := domain.Ticket{
		ID:            id,
		Key:           fmt.Sprintf("CC-%d", f.seq),
		Type:          typ,
		Title:         in.Title,
		Status:        in.Status,
		ProjectID:     in.InternalProjectID,
		EpicID:        in.EpicID,
		ScheduledDate: in.ScheduledDate,
	}
	f.tickets = append(f.tickets, t)
	return &t, nil
}

func (f *fakeBackend) UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticketPatches = append(f.ticketPatches, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			patch.Apply(&f.tickets[i])
			t := f.tickets[i]
			return &t, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404, Method: "PATCH", Path: "/tickets/" + id}
}

func (f *fakeBackend) DeleteTicket(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Method: "DELETE", Path: "/tickets/" + id}
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeBackend) GetNotionPage(ctx context.Context, id string) (*domain.NotionPage, error) {
	return &domain.NotionPage{TicketID: id, NotionID: "n-" + id, URL: "https://notion.so/n-" + id}, nil
}

func (f *fakeBackend) GetNotionContent(ctx context.Context, id string) (*domain.NotionContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.notion[id]; ok {
		return c, nil
	}
	return nil, &api.StatusError{StatusCode: 404, Method: "GET", Path: "/tickets/" + id + "/notion/content"}
}
