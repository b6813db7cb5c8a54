package domain

import (
	"encoding/json"
	"time"
)

// Meeting carries the optional video-call metadata attached to a ticket.
type Meeting struct {
	URL       string   `json:"url"`
	Platform  string   `json:"platform,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
}

type Ticket struct {
	ID            string       `json:"id"`
	Key           string       `json:"key"`
	Type          TicketType   `json:"type"`
	Title         string       `json:"title"`
	Status        TicketStatus `json:"status"`
	ProjectID     string       `json:"project_id,omitempty"`
	EpicID        string       `json:"epic_id,omitempty"`
	NotionID      string       `json:"notion_id,omitempty"`
	ScheduledDate *time.Time   `json:"scheduled_date,omitempty"`
	Start         *time.Time   `json:"start,omitempty"`
	End           *time.Time   `json:"end,omitempty"`
	Meeting       *Meeting     `json:"meeting,omitempty"`
}

// IsEpic reports whether the ticket groups other tickets.
func (t *Ticket) IsEpic() bool {
	return t.Type == TicketEpic
}

// HasTimeSlot reports whether the ticket has been placed on the calendar.
func (t *Ticket) HasTimeSlot() bool {
	return t.Start != nil && t.End != nil
}

// DisplayKey returns the ticket key, falling back to a truncated id.
func (t *Ticket) DisplayKey() string {
	if t.Key != "" {
		return t.Key
	}
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// NewTicket is the input for creating a ticket. Type is free-form and
// parsed case-insensitively when the request is built.
type NewTicket struct {
	Title             string
	ProjectNotionID   string
	InternalProjectID string
	Type              string
	EpicID            string
	Status            TicketStatus
	ScheduledDate     *time.Time
}

// TicketPatch lists the fields a PATCH may change. Nil fields are left alone.
type TicketPatch struct {
	Title         *string       `json:"title,omitempty"`
	Status        *TicketStatus `json:"status,omitempty"`
	Type          *TicketType   `json:"type,omitempty"`
	EpicID        *string       `json:"epic_id,omitempty"`
	ProjectID     *string       `json:"project_id,omitempty"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty"`
	Start         *time.Time    `json:"start,omitempty"`
	End           *time.Time    `json:"end,omitempty"`

	// ClearSlot sends explicit nulls for start and end, taking the ticket
	// off the calendar. Start and End are ignored when set.
	ClearSlot bool `json:"-"`
}

func (p TicketPatch) MarshalJSON() ([]byte, error) {
	type plain TicketPatch
	if !p.ClearSlot {
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		plain
		Start *time.Time `json:"start"`
		End   *time.Time `json:"end"`
	}{plain: plain(p)})
}

// Apply copies the patch's set fields onto t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.EpicID != nil {
		t.EpicID = *p.EpicID
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.ScheduledDate != nil {
		d := *p.ScheduledDate
		t.ScheduledDate = &d
	}
	if p.Start != nil {
		s := *p.Start
		t.Start = &s
	}
	if p.End != nil {
		e := *p.End
		t.End = &e
	}
	if p.ClearSlot {
		t.Start, t.End = nil, nil
	}
}

// NotionPage links a ticket to its Notion page.
type NotionPage struct {
	TicketID string `json:"ticket_id"`
	NotionID string `json:"notion_id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
}

// NotionContent is the plain-text rendition of a ticket's Notion page.
type NotionContent struct {
	NotionID string   `json:"notion_id"`
	Blocks   []string `json:"blocks"`
}
