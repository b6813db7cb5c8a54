package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/spf13/pflag"
)

// parseDay resolves a day expression relative to now: "today",
// "tomorrow", "yesterday", a weekday name (the next one, today included),
// YYYY-MM-DD, or an offset like +3d, -2w.
func parseDay(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := domain.StartOfDay(now)

	switch s {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		unit := s[len(s)-1]
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day offset %q", s)
		}
		switch unit {
		case 'd':
			return today.AddDate(0, 0, n), nil
		case 'w':
			return today.AddDate(0, 0, 7*n), nil
		}
		return time.Time{}, fmt.Errorf("invalid day offset %q (use d or w)", s)
	}

	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, i)
		name := strings.ToLower(d.Weekday().String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}

	t, err := time.ParseInLocation(time.DateOnly, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (want today, tomorrow, a weekday, YYYY-MM-DD or +Nd)", s)
	}
	return t, nil
}

// parseDateTime resolves "[day] HH:MM" or "YYYY-MM-DDTHH:MM". A bare time
// means today.
func parseDateTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date-time")
	}

	dayPart, clockPart := "", s
	if i := strings.LastIndexAny(s, " T"); i >= 0 {
		dayPart, clockPart = s[:i], s[i+1:]
	}

	day, err := parseDay(dayPart, now)
	if err != nil {
		return time.Time{}, err
	}
	hm, err := time.Parse("15:04", clockPart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM)", clockPart)
	}
	return day.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute), nil
}

// dayValue is a pflag.Value for day expressions.
type dayValue struct {
	now func() time.Time
	t   *time.Time
}

var _ pflag.Value = (*dayValue)(nil)

func newDayValue(now func() time.Time, p *time.Time) *dayValue {
	return &dayValue{now: now, t: p}
}

func (v *dayValue) Set(s string) error {
	t, err := parseDay(s, v.now())
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (v *dayValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.DateOnly)
}

func (v *dayValue) Type() string { return "day" }

// dateTimeValue is a pflag.Value for "[day] HH:MM" expressions.
type dateTimeValue struct {
	now func() time.Time
	t   *time.Time
}

var _ pflag.Value = (*dateTimeValue)(nil)

func newDateTimeValue(now func() time.Time, p *time.Time) *dateTimeValue {
	return &dateTimeValue{now: now, t: p}
}

func (v *dateTimeValue) Set(s string) error {
	t, err := parseDateTime(s, v.now())
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (v *dateTimeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format("2006-01-02 15:04")
}

func (v *dateTimeValue) Type() string { return "datetime" }

// ticketTypeValue is a pflag.Value accepting any case of a ticket type.
type ticketTypeValue struct{ t *domain.TicketType }

var _ pflag.Value = (*ticketTypeValue)(nil)

func (v ticketTypeValue) Set(s string) error {
	t, err := domain.ParseTicketType(s)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (v ticketTypeValue) String() string {
	if v.t == nil {
		return ""
	}
	return string(*v.t)
}

func (v ticketTypeValue) Type() string { return "type" }

// ticketStatusValue is a pflag.Value accepting "in_progress", "done" etc.
type ticketStatusValue struct{ s *domain.TicketStatus }

var _ pflag.Value = (*ticketStatusValue)(nil)

func (v ticketStatusValue) Set(s string) error {
	st, err := domain.ParseTicketStatus(s)
	if err != nil {
		return err
	}
	*v.s = st
	return nil
}

func (v ticketStatusValue) String() string {
	if v.s == nil {
		return ""
	}
	return string(*v.s)
}

func (v ticketStatusValue) Type() string { return "status" }

// resolveEnd picks the event end from an explicit --end or --duration.
func resolveEnd(start, end time.Time, dur time.Duration) (time.Time, error) {
	if !end.IsZero() {
		if !start.Before(end) {
			return time.Time{}, domain.ErrInvalidRange
		}
		return end, nil
	}
	if dur <= 0 {
		return time.Time{}, fmt.Errorf("duration must be positive")
	}
	return start.Add(dur), nil
}
