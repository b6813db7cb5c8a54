package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// ErrTitleRequired is returned when creating a ticket without a title.
var ErrTitleRequired = errors.New("title is required")

// TicketBackend is the tickets and projects part of the REST API.
type TicketBackend interface {
	ListTickets(ctx context.Context, q api.TicketQuery) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetNotionPage(ctx context.Context, id string) (*domain.NotionPage, error)
	GetNotionContent(ctx context.Context, id string) (*domain.NotionContent, error)
}

type ticketService struct {
	backend  TicketBackend
	observer UseCaseObserver
}

func NewTicketService(backend TicketBackend, observers ...UseCaseObserver) TicketService {
	return &ticketService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *ticketService) List(ctx context.Context, q api.TicketQuery) (tickets []domain.Ticket, err error) {
	fields := map[string]any{"project_id": q.ProjectID, "status": string(q.Status)}
	defer observe(ctx, s.observer, "list-tickets", time.Now(), fields, &err)

	tickets, err = s.backend.ListTickets(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	fields["count"] = len(tickets)
	return tickets, nil
}

func (s *ticketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.backend.GetTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting ticket %s: %w", id, err)
	}
	return t, nil
}

func (s *ticketService) Create(ctx context.Context, in domain.NewTicket) (t *domain.Ticket, err error) {
	fields := map[string]any{"type": in.Type, "project": in.InternalProjectID}
	defer observe(ctx, s.observer, "create-ticket", time.Now(), fields, &err)

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Type == "" {
		in.Type = string(domain.TicketTask)
	}
	if _, err = domain.ParseTicketType(in.Type); err != nil {
		return nil, err
	}

	t, err = s.backend.CreateTicket(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	fields["id"] = t.ID
	return t, nil
}

func (s *ticketService) Update(ctx context.Context, id string, patch domain.TicketPatch) (t *domain.Ticket, err error) {
	defer observe(ctx, s.observer, "update-ticket", time.Now(), map[string]any{"id": id}, &err)

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrTitleRequired
	}
	t, err = s.backend.UpdateTicket(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating ticket %s: %w", id, err)
	}
	return t, nil
}

func (s *ticketService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-ticket", time.Now(), map[string]any{"id": id}, &err)

	if err = s.backend.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("deleting ticket %s: %w", id, err)
	}
	return nil
}

// Unscheduled lists tickets that have a scheduled date but no time slot
// and still need attention, optionally limited to one project.
func (s *ticketService) Unscheduled(ctx context.Context, projectID string) (out []domain.Ticket, err error) {
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "unscheduled-tickets", time.Now(), fields, &err)

	tickets, err := s.backend.ListTickets(ctx, api.TicketQuery{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	out = domain.Unscheduled(tickets)
	fields["count"] = len(out)
	return out, nil
}

func (s *ticketService) Projects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.backend.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (s *ticketService) NotionPage(ctx context.Context, id string) (*domain.NotionPage, error) {
	page, err := s.backend.GetNotionPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading notion page for %s: %w", id, err)
	}
	return page, nil
}

func (s *ticketService) NotionContent(ctx context.Context, id string) (*domain.NotionContent, error) {
	content, err := s.backend.GetNotionContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading notion content for %s: %w", id, err)
	}
	return content, nil
}
