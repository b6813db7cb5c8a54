package service

import (
	"context"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

type TicketService interface {
	List(ctx context.Context, q api.TicketQuery) ([]domain.Ticket, error)
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, in domain.NewTicket) (*domain.Ticket, error)
	Update(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	Unscheduled(ctx context.Context, projectID string) ([]domain.Ticket, error)
	Projects(ctx context.Context) ([]domain.Project, error)
	NotionPage(ctx context.Context, id string) (*domain.NotionPage, error)
	NotionContent(ctx context.Context, id string) (*domain.NotionContent, error)
}

type ScheduleService interface {
	Week(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error)
	Refresh(ctx context.Context) error
	CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error)
	MoveEvent(ctx context.Context, id string, start, end time.Time) (*domain.CalendarEvent, error)
	RenameEvent(ctx context.Context, id, title string) (*domain.CalendarEvent, error)
	CompleteEvent(ctx context.Context, id string, done bool) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ScheduleTicket(ctx context.Context, ticket domain.Ticket, start, end time.Time) (*domain.CalendarEvent, error)
	UnscheduleTicket(ctx context.Context, id string) error
	Breaks(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error)
	AddBreak(ctx context.Context, title string, start, end time.Time) (*domain.CalendarEvent, error)
}

type SkillService interface {
	List(ctx context.Context) []domain.Skill
	Get(ctx context.Context, id string) (domain.Skill, error)
	SetStageProgress(ctx context.Context, skillID string, stage, progress int) (domain.Skill, error)
	SetObjectiveProgress(ctx context.Context, skillID string, progress int) (domain.Skill, error)
	Tabs(ctx context.Context) ([]domain.SkillTab, error)
	OpenTab(ctx context.Context, skillID string) error
	CloseTab(ctx context.Context, skillID string) error
	MoveTab(ctx context.Context, skillID string, position int) error
	PinTab(ctx context.Context, skillID string, pinned bool) error
	CloseUnpinned(ctx context.Context) error
	ActiveTab(ctx context.Context) (string, error)
}

// ScheduledMilestone is a program milestone with the calendar week it falls in.
type ScheduledMilestone struct {
	domain.Milestone
	WeekOf  time.Time
	Current bool
}

type CoachService interface {
	Coaches(ctx context.Context) []domain.Coach
	Coach(ctx context.Context, id string) (domain.Coach, error)
	Programs(ctx context.Context) []domain.CoachProgram
	Program(ctx context.Context, id string) (domain.CoachProgram, error)
	Timeline(ctx context.Context, programID string) ([]ScheduledMilestone, error)
}

type PreferenceService interface {
	Theme(ctx context.Context) (domain.Theme, error)
	SetTheme(ctx context.Context, theme domain.Theme) error
	LastWeek(ctx context.Context) (time.Time, bool)
	SetLastWeek(ctx context.Context, week time.Time) error
	Reset(ctx context.Context) error
}
