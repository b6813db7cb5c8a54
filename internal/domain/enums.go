package domain

import (
	"fmt"
	"strings"
)

type TicketType string

const (
	TicketTask    TicketType = "Task"
	TicketStory   TicketType = "Story"
	TicketBug     TicketType = "Bug"
	TicketEpic    TicketType = "Epic"
	TicketSubtask TicketType = "Subtask"
	TicketEvent   TicketType = "Event"
)

// TicketTypes lists every ticket type in display order.
var TicketTypes = []TicketType{
	TicketTask, TicketStory, TicketBug, TicketEpic, TicketSubtask, TicketEvent,
}

// ParseTicketType matches s against the known ticket types ignoring case,
// so "task", "TASK" and "Task" all yield TicketTask.
func ParseTicketType(s string) (TicketType, error) {
	trimmed := strings.TrimSpace(s)
	for _, t := range TicketTypes {
		if strings.EqualFold(string(t), trimmed) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown ticket type %q", s)
}

type TicketStatus string

const (
	StatusBacklog    TicketStatus = "Backlog"
	StatusTodo       TicketStatus = "Todo"
	StatusInProgress TicketStatus = "In Progress"
	StatusBlocked    TicketStatus = "Blocked"
	StatusDone       TicketStatus = "Done"
	StatusRemoved    TicketStatus = "Removed"
)

// TicketStatuses lists every ticket status in workflow order.
var TicketStatuses = []TicketStatus{
	StatusBacklog, StatusTodo, StatusInProgress, StatusBlocked, StatusDone, StatusRemoved,
}

// ParseTicketStatus matches s against the known statuses ignoring case.
// Underscores and hyphens are treated as spaces ("in_progress" works).
func ParseTicketStatus(s string) (TicketStatus, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s))
	for _, st := range TicketStatuses {
		if strings.EqualFold(string(st), norm) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

// IsClosed reports whether the status takes a ticket off the active board.
func (s TicketStatus) IsClosed() bool {
	return s == StatusDone || s == StatusRemoved
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "Active"
	ProjectPaused   ProjectStatus = "Paused"
	ProjectArchived ProjectStatus = "Archived"
)

type SkillKind string

const (
	SkillMastery   SkillKind = "mastery"
	SkillObjective SkillKind = "objective"
)
