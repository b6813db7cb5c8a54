package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/ethanhollins/cc-web-sub001/internal/service"
)

// FormatCoachList renders coaches with the programs they run.
func FormatCoachList(coaches []domain.Coach) string {
	if len(coaches) == 0 {
		return Dim("No coaches.")
	}
	headers := []string{"ID", "COACH", "SPECIALTY", "PROGRAMS"}
	rows := make([][]string, 0, len(coaches))
	for _, c := range coaches {
		rows = append(rows, []string{
			Dim(c.ID),
			Bold(c.Name),
			StylePurple.Render(c.Specialty),
			strings.Join(c.ProgramIDs, ", "),
		})
	}
	return RenderBox("Coaches", RenderTable(headers, rows))
}

// FormatProgram renders a program card: header, completion, the weekly
// milestone timeline and the success criteria.
func FormatProgram(p domain.CoachProgram, coach *domain.Coach, timeline []service.ScheduledMilestone, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(p.Title))
	if coach != nil {
		b.WriteString("  " + Dim("with "+coach.Name))
	}
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}

	week := p.CurrentWeek(now)
	switch {
	case week == 0:
		b.WriteString("\n" + StyleBlue.Render("Starts "+RelativeDateFrom(domain.WeekStart(p.StartDate), now)))
	case week > p.Weeks:
		b.WriteString("\n" + StyleGreen.Render("Finished"))
	default:
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("Week %d of %d", week, p.Weeks)))
	}
	b.WriteString("  " + RenderProgress(p.Completion(), 20) + "\n\n")

	b.WriteString(Header("Milestones") + "\n")
	for _, m := range timeline {
		marker := "  "
		title := m.Title
		if m.Current {
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}
		fmt.Fprintf(&b, "%sW%-2d %s  %s\n", marker, m.Week, StyleBlue.Render(m.WeekOf.Format("2 Jan")), title)
		for _, t := range m.Tickets {
			fmt.Fprintf(&b, "        %s %s\n", ticketCheck(t.Status), t.Title)
		}
	}

	if len(p.SuccessCriteria) > 0 {
		met, total := p.CriteriaMet()
		b.WriteString("\n" + Header(fmt.Sprintf("Success criteria %d/%d", met, total)) + "\n")
		for _, c := range p.SuccessCriteria {
			box := Dim("☐")
			if c.Met {
				box = StyleGreen.Render("☑")
			}
			b.WriteString("  " + box + " " + c.Description + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func ticketCheck(s domain.TicketStatus) string {
	switch s {
	case domain.StatusDone:
		return StyleGreen.Render("✔")
	case domain.StatusInProgress:
		return StyleYellow.Render("▶")
	default:
		return Dim("○")
	}
}
