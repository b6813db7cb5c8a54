package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// WeekSummary is the totals line printed at the bottom of the PDF report.
type WeekSummary struct {
	Events    int
	Completed int
	Breaks    int
	Scheduled time.Duration
}

// Summarize counts a week's events. Break time is not counted as scheduled.
func Summarize(events []domain.CalendarEvent) WeekSummary {
	var s WeekSummary
	for _, ev := range events {
		if ev.IsBreak() {
			s.Breaks++
			continue
		}
		s.Events++
		if ev.Completed {
			s.Completed++
		}
		if !ev.AllDay {
			s.Scheduled += ev.Duration()
		}
	}
	return s
}

// WritePDF renders the week containing week as an A4 report, one section
// per day.
func WritePDF(w io.Writer, week time.Time, events []domain.CalendarEvent) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Week of "+domain.WeekStart(week).Format("2 Jan 2006"), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr(fmt.Sprintf("Week of %s", domain.WeekStart(week).Format("Mon 2 Jan 2006"))))
	pdf.Ln(12)

	for _, day := range domain.WeekDays(week) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, day.Format("Monday 2 Jan"))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 11)
		dayEvents := domain.EventsOnDay(events, day)
		if len(dayEvents) == 0 {
			pdf.Cell(0, 7, "  - Nothing scheduled.")
			pdf.Ln(7)
		}
		for _, ev := range dayEvents {
			pdf.Cell(0, 7, tr(reportLine(ev)))
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	s := Summarize(events)
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Events: %d  Completed: %d  Breaks: %d  Scheduled: %s",
		s.Events, s.Completed, s.Breaks, formatHours(s.Scheduled)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func reportLine(ev domain.CalendarEvent) string {
	mark := "[ ]"
	if ev.Completed || ev.Status == domain.StatusDone {
		mark = "[x]"
	}
	when := ev.Start.Format("15:04") + "-" + ev.End.Format("15:04")
	if ev.AllDay {
		when = "all day    "
	}
	if ev.IsBreak() {
		return fmt.Sprintf("  %s  (break) %s", when, ev.Title)
	}
	return fmt.Sprintf("  %s  %s %s", when, mark, summary(ev))
}

func formatHours(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
