package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly date relative to now, counted
// in calendar days.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(domain.StartOfDay(t.In(now.Location())).Sub(domain.StartOfDay(now)).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// ScheduledDateStyled renders a ticket's scheduled day, red once it is in
// the past and yellow for today.
func ScheduledDateStyled(t *time.Time, now time.Time) string {
	if t == nil {
		return Dim("--")
	}
	text := RelativeDateFrom(*t, now)
	day, today := domain.StartOfDay(t.In(now.Location())), domain.StartOfDay(now)
	switch {
	case day.Before(today):
		return StyleRed.Render(text)
	case day.Equal(today):
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// TicketStatusPill returns a colored status indicator for a ticket.
func TicketStatusPill(status domain.TicketStatus) string {
	switch status {
	case domain.StatusBacklog:
		return StyleDim.Render("◌ Backlog")
	case domain.StatusTodo:
		return StyleBlue.Render("○ Todo")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusBlocked:
		return StyleRed.Render("■ Blocked")
	case domain.StatusDone:
		return StyleDim.Render("✔ Done")
	case domain.StatusRemoved:
		return StyleDim.Render("✖ Removed")
	default:
		return StyleDim.Render(string(status))
	}
}

// ProjectStatusPill returns a colored status indicator for a project.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive, "":
		return StyleGreen.Render("● Active")
	case domain.ProjectPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// TimeRange renders "09:00-10:30", or "all day".
func TimeRange(ev *domain.CalendarEvent) string {
	if ev.AllDay {
		return "all day"
	}
	return ev.Start.Format("15:04") + "-" + ev.End.Format("15:04")
}

// Truncate shortens s to width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// PadRight pads s with spaces to width cells, truncating if needed.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
