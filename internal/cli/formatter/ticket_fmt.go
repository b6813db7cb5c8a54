package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// FormatTicketList renders tickets as a table inside a box.
func FormatTicketList(tickets []domain.Ticket, projects map[string]domain.Project, now time.Time) string {
	if len(tickets) == 0 {
		return Dim("No tickets found.")
	}
	headers := []string{"KEY", "TITLE", "TYPE", "STATUS", "PROJECT", "SCHEDULED"}
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{
			StyleGreen.Render(t.DisplayKey()),
			Bold(Truncate(t.Title, 40)),
			TypeBadge(t.Type),
			TicketStatusPill(t.Status),
			projectLabel(projects, t.ProjectID),
			ScheduledDateStyled(t.ScheduledDate, now),
		})
	}
	return RenderBox("Tickets", RenderTable(headers, rows))
}

// FormatTicketDetail renders one ticket as a key/value card.
func FormatTicketDetail(t *domain.Ticket, projects map[string]domain.Project, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(PadRight(label, 10)), value)
	}

	b.WriteString(Bold(t.Title) + "\n\n")
	field("Key", StyleGreen.Render(t.DisplayKey()))
	field("ID", Dim(t.ID))
	field("Type", TypeBadge(t.Type))
	field("Status", TicketStatusPill(t.Status))
	field("Project", projectLabel(projects, t.ProjectID))
	if t.EpicID != "" {
		field("Epic", t.EpicID)
	}
	if t.ScheduledDate != nil {
		field("Date", t.ScheduledDate.Format("Mon 2 Jan")+"  "+ScheduledDateStyled(t.ScheduledDate, now))
	}
	if t.HasTimeSlot() {
		field("Slot", t.Start.Format("Mon 2 Jan 15:04")+"-"+t.End.Format("15:04"))
	}
	if t.Meeting != nil && t.Meeting.URL != "" {
		m := t.Meeting.URL
		if t.Meeting.Platform != "" {
			m = t.Meeting.Platform + "  " + m
		}
		field("Meeting", m)
		if len(t.Meeting.Attendees) > 0 {
			field("Attendees", strings.Join(t.Meeting.Attendees, ", "))
		}
	}
	if t.NotionID != "" {
		field("Notion", Dim(t.NotionID))
	}
	return RenderBox(t.DisplayKey(), strings.TrimRight(b.String(), "\n"))
}

// FormatUnscheduled renders the unscheduled list grouped by project, with
// each project's tickets ordered by scheduled date.
func FormatUnscheduled(tickets []domain.Ticket, projects map[string]domain.Project, now time.Time) string {
	if len(tickets) == 0 {
		return Dim("Nothing waiting to be scheduled.")
	}
	groups := domain.GroupByProject(tickets)
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return projectName(projects, ids[i]) < projectName(projects, ids[j])
	})

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(projectName(projects, id)) + "\n")
		for _, t := range groups[id] {
			fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
				StyleGreen.Render(PadRight(t.DisplayKey(), 8)),
				PadRight(t.Title, 36),
				TicketStatusPill(t.Status),
				ScheduledDateStyled(t.ScheduledDate, now))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProjectList renders projects as a table inside a box.
func FormatProjectList(projects []domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects found.")
	}
	headers := []string{"KEY", "TITLE", "STATUS", "ID"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleGreen.Render(domain.CoalesceStr(p.Key, "--")),
			Bold(p.Title),
			ProjectStatusPill(p.Status),
			TruncID(p.ID),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatNotion renders a ticket's linked Notion page and its content.
func FormatNotion(page *domain.NotionPage, content *domain.NotionContent) string {
	var b strings.Builder
	if page != nil {
		b.WriteString(Bold(domain.CoalesceStr(page.Title, "Notion page")) + "\n")
		if page.URL != "" {
			b.WriteString(StyleBlue.Render(page.URL) + "\n")
		}
	}
	if content == nil || len(content.Blocks) == 0 {
		b.WriteString("\n" + Dim("(no content)"))
		return b.String()
	}
	b.WriteString("\n")
	for _, block := range content.Blocks {
		b.WriteString(block + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func projectName(projects map[string]domain.Project, id string) string {
	if id == "" {
		return "No project"
	}
	if p, ok := projects[id]; ok {
		return domain.CoalesceStr(p.Title, p.Key, id)
	}
	return id
}

func projectLabel(projects map[string]domain.Project, id string) string {
	if id == "" {
		return Dim("--")
	}
	if p, ok := projects[id]; ok && p.Key != "" {
		return StylePurple.Render(p.Key)
	}
	return Dim(Truncate(projectName(projects, id), 12))
}
