package domain

import "sort"

// IsUnscheduled reports whether a ticket belongs in the unscheduled list:
// it has a scheduled date but no time slot, and its status still needs
// attention (not Done, Removed or Backlog).
func IsUnscheduled(t *Ticket) bool {
	if t.ScheduledDate == nil || t.HasTimeSlot() {
		return false
	}
	switch t.Status {
	case StatusDone, StatusRemoved, StatusBacklog:
		return false
	}
	return true
}

// Unscheduled filters tickets down to the unscheduled list, ordered by
// scheduled date then key.
func Unscheduled(tickets []Ticket) []Ticket {
	var out []Ticket
	for i := range tickets {
		if IsUnscheduled(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ScheduledDate, out[j].ScheduledDate
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// FilterTickets keeps tickets matching every non-empty criterion.
func FilterTickets(tickets []Ticket, projectID string, status TicketStatus) []Ticket {
	var out []Ticket
	for _, t := range tickets {
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EpicChildren returns the tickets grouped under the given epic.
func EpicChildren(tickets []Ticket, epicID string) []Ticket {
	var out []Ticket
	for _, t := range tickets {
		if t.EpicID == epicID {
			out = append(out, t)
		}
	}
	return out
}
