package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

var errInjected = errors.New("injected failure")

// fakeAPI stands in for api.Client in service tests.
type fakeAPI struct {
	mu      sync.Mutex
	events  []domain.CalendarEvent
	breaks  []domain.CalendarEvent
	tickets []domain.Ticket
	seq     int

	listErr         error
	breaksErr       error
	createErr       error
	updateEventErr  error
	updateTicketErr error
	deleteErr       error

	ticketPatches []domain.TicketPatch
	createdBreaks []domain.EventInput
	lastQuery     api.TicketQuery
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func inRange(events []domain.CalendarEvent, start, end time.Time) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range events {
		if !e.Start.Before(start) && e.Start.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeAPI) ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return inRange(f.events, start, end), nil
}

func (f *fakeAPI) ListBreaks(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breaksErr != nil {
		return nil, f.breaksErr
	}
	out := inRange(f.breaks, start, end)
	for i := range out {
		out[i].CalendarID = domain.BreaksCalendarID
	}
	return out, nil
}

func (f *fakeAPI) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	ev := in.ToEvent(f.nextID("evt"))
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeAPI) CreateBreak(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdBreaks = append(f.createdBreaks, in)
	in.CalendarID = domain.BreaksCalendarID
	ev := in.ToEvent(f.nextID("brk"))
	f.breaks = append(f.breaks, ev)
	return &ev, nil
}

func (f *fakeAPI) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateEventErr != nil {
		return nil, f.updateEventErr
	}
	i := domain.FindEvent(f.events, id)
	if i < 0 {
		return nil, &api.StatusError{StatusCode: 404, Method: "PATCH", Path: "/events/" + id}
	}
	f.events[i] = patch.Apply(f.events[i])
	ev := f.events[i]
	return &ev, nil
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	i := domain.FindEvent(f.events, id)
	if i >= 0 {
		f.events = append(f.events[:i], f.events[i+1:]...)
	}
	return nil
}

func (f *fakeAPI) ListTickets(ctx context.Context, q api.TicketQuery) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return domain.FilterTickets(f.tickets, q.ProjectID, q.Status), nil
}

func (f *fakeAPI) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &api.StatusError{StatusCode: 404, Method: "GET", Path: "/tickets/" + id}
}

func (f *fakeAPI) CreateTicket(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	typ, err := domain.ParseTicketType(in.Type)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	t := domain.Ticket{
		ID:        f.nextID("tkt"),
		Type:      typ,
		Title:     in.Title,
		Status:    status,
		ProjectID: in.InternalProjectID,
	}
	f.tickets = append(f.tickets, t)
	return &t, nil
}

func (f *fakeAPI) UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticketPatches = append(f.ticketPatches, patch)
	if f.updateTicketErr != nil {
		return nil, f.updateTicketErr
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

func (f *fakeAPI) DeleteTicket(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{StatusCode: 404, Method: "DELETE", Path: "/tickets/" + id}
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return []domain.Project{{ID: "proj-1", Key: "CC", Title: "Command Center", Status: domain.ProjectActive}}, nil
}

func (f *fakeAPI) GetNotionPage(ctx context.Context, id string) (*domain.NotionPage, error) {
	return &domain.NotionPage{TicketID: id, NotionID: "n-" + id, URL: "https://notion.so/n-" + id}, nil
}

func (f *fakeAPI) GetNotionContent(ctx context.Context, id string) (*domain.NotionContent, error) {
	return nil, &api.StatusError{StatusCode: 404, Method: "GET", Path: "/tickets/" + id + "/notion/content"}
}

// recordingObserver collects use-case events.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}
