package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// EventMark is the one-cell status prefix used in agendas and on the grid.
func EventMark(ev *domain.CalendarEvent) string {
	switch {
	case ev.IsBreak():
		return "~"
	case ev.IsPending():
		return "…"
	case ev.Completed || ev.Status == domain.StatusDone:
		return "✔"
	default:
		return "•"
	}
}

// EventLabel is the title shown for an event: tickets that are not plain
// events carry their key.
func EventLabel(ev *domain.CalendarEvent) string {
	if ev.Key != "" && !ev.IsBreak() && ev.Type != domain.TicketEvent {
		return ev.Key + " " + ev.Title
	}
	return ev.Title
}

// FormatEventLine renders one agenda line.
func FormatEventLine(ev *domain.CalendarEvent) string {
	when := PadRight(TimeRange(ev), 11)
	label := EventLabel(ev)
	switch {
	case ev.IsBreak():
		return fmt.Sprintf("  %s  %s %s", Dim(when), Dim(EventMark(ev)), Dim(label))
	case ev.Completed || ev.Status == domain.StatusDone:
		return fmt.Sprintf("  %s  %s %s", Dim(when), StyleGreen.Render(EventMark(ev)), Dim(label))
	}
	line := fmt.Sprintf("  %s  %s %s", StyleBlue.Render(when), StyleFg.Render(EventMark(ev)), label)
	if ev.Type != "" && ev.Type != domain.TicketEvent {
		line += "  " + TypeBadge(ev.Type)
	}
	if ev.Meeting != nil && ev.Meeting.URL != "" {
		line += "  " + Dim(ev.Meeting.URL)
	}
	return line
}

// FormatWeek renders a week as a day-by-day agenda. Days are listed
// Monday to Sunday; today is highlighted.
func FormatWeek(week time.Time, events []domain.CalendarEvent, now time.Time) string {
	var b strings.Builder
	start := domain.WeekStart(week)
	b.WriteString(Header("Week of "+start.Format("Mon 2 Jan 2006")) + "\n")

	for _, day := range domain.WeekDays(week) {
		title := day.Format("Monday 2 Jan")
		if domain.StartOfDay(now.In(day.Location())).Equal(day) {
			title = StyleYellowBold.Render(title + "  (today)")
		} else {
			title = Bold(title)
		}
		b.WriteString("\n" + title + "\n")

		dayEvents := domain.EventsOnDay(events, day)
		if len(dayEvents) == 0 {
			b.WriteString("  " + Dim("Nothing scheduled.") + "\n")
			continue
		}
		for i := range dayEvents {
			b.WriteString(FormatEventLine(&dayEvents[i]) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatBreaks renders breaks as a compact list.
func FormatBreaks(breaks []domain.CalendarEvent) string {
	if len(breaks) == 0 {
		return Dim("No breaks this week.")
	}
	var b strings.Builder
	for i := range breaks {
		ev := &breaks[i]
		fmt.Fprintf(&b, "%s  %s  %s\n",
			StyleBlue.Render(ev.Start.Format("Mon 2 Jan")),
			TimeRange(ev),
			ev.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}
