package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// createTicketRequest is the JSON body sent to POST /tickets.
type createTicketRequest struct {
	Title             string              `json:"title"`
	ProjectNotionID   string              `json:"project_notion_id"`
	InternalProjectID string              `json:"internal_project_id"`
	Type              domain.TicketType   `json:"type"`
	EpicID            string              `json:"epic_id,omitempty"`
	Status            domain.TicketStatus `json:"status,omitempty"`
	ScheduledDate     *time.Time          `json:"scheduled_date,omitempty"`
}

// newCreateTicketRequest normalises the ticket type to its capitalized
// wire form ("task" becomes "Task").
func newCreateTicketRequest(in domain.NewTicket) (createTicketRequest, error) {
	typ, err := domain.ParseTicketType(in.Type)
	if err != nil {
		return createTicketRequest{}, err
	}
	return createTicketRequest{
		Title:             in.Title,
		ProjectNotionID:   in.ProjectNotionID,
		InternalProjectID: in.InternalProjectID,
		Type:              typ,
		EpicID:            in.EpicID,
		Status:            in.Status,
		ScheduledDate:     in.ScheduledDate,
	}, nil
}

// TicketQuery narrows ListTickets. Empty fields are not sent.
type TicketQuery struct {
	ProjectID string
	Status    domain.TicketStatus
}

func (q TicketQuery) values() url.Values {
	v := url.Values{}
	if q.ProjectID != "" {
		v.Set("project_id", q.ProjectID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// ListTickets returns tickets matching q.
func (c *Client) ListTickets(ctx context.Context, q TicketQuery) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets", q.values(), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches one ticket.
func (c *Client) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := c.do(ctx, http.MethodGet, pathID("/tickets", id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTicket files a new ticket.
func (c *Client) CreateTicket(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error) {
	body, err := newCreateTicketRequest(in)
	if err != nil {
		return nil, fmt.Errorf("building ticket: %w", err)
	}
	var t domain.Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTicket patches a ticket and returns the server's version.
func (c *Client) UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := c.do(ctx, http.MethodPatch, pathID("/tickets", id), nil, patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("/tickets", id), nil, nil, nil)
}

// GetNotionPage returns the Notion page linked to a ticket.
func (c *Client) GetNotionPage(ctx context.Context, id string) (*domain.NotionPage, error) {
	var page domain.NotionPage
	if err := c.do(ctx, http.MethodGet, pathID("/tickets", id, "notion"), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNotionContent returns the text blocks of a ticket's Notion page.
func (c *Client) GetNotionContent(ctx context.Context, id string) (*domain.NotionContent, error) {
	var content domain.NotionContent
	if err := c.do(ctx, http.MethodGet, pathID("/tickets", id, "notion", "content"), nil, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
