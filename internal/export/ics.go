// Package export renders a week of calendar events for use outside the
// client: an iCalendar feed and a printable PDF.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// ProductID identifies the exporter in the PRODID property.
const ProductID = "-//ccweb//calendar export//EN"

// UID returns the stable iCalendar UID for an event.
func UID(ev domain.CalendarEvent) string {
	return ev.ID + "@ccweb"
}

// BuildCalendar converts events into a VCALENDAR. Pending events are left
// out since the server has not given them an id yet.
func BuildCalendar(events []domain.CalendarEvent, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, ev := range events {
		if ev.IsPending() {
			continue
		}
		ve := cal.AddEvent(UID(ev))
		ve.SetDtStampTime(stamp)
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.End)
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
		ve.SetSummary(summary(ev))
		if desc := description(ev); desc != "" {
			ve.SetDescription(desc)
		}
		if ev.IsBreak() {
			ve.SetProperty(ical.ComponentPropertyCategories, "BREAK")
		} else if ev.Type != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(ev.Type)))
		}
		ve.SetProperty(ical.ComponentPropertyStatus, icsStatus(ev))
	}
	return cal
}

// WriteICS writes events as an RFC 5545 calendar.
func WriteICS(w io.Writer, events []domain.CalendarEvent) error {
	cal := BuildCalendar(events, time.Now().UTC())
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing ics: %w", err)
	}
	return nil
}

func summary(ev domain.CalendarEvent) string {
	if ev.Key != "" && !ev.IsBreak() && ev.Type != domain.TicketEvent {
		return ev.Key + " " + ev.Title
	}
	return ev.Title
}

func description(ev domain.CalendarEvent) string {
	var lines []string
	if ev.Status != "" && !ev.IsBreak() {
		lines = append(lines, "Status: "+string(ev.Status))
	}
	if ev.Completed {
		lines = append(lines, "Completed")
	}
	if ev.Meeting != nil && ev.Meeting.URL != "" {
		lines = append(lines, "Meeting: "+ev.Meeting.URL)
	}
	return strings.Join(lines, "\n")
}

func icsStatus(ev domain.CalendarEvent) string {
	if ev.Status == domain.StatusRemoved {
		return "CANCELLED"
	}
	return "CONFIRMED"
}
