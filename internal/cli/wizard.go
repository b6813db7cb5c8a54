package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

const wizardTimeLayout = "2006-01-02 15:04"

// ccwebHuhTheme returns a huh theme using the Gruvbox palette.
func ccwebHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(ccwebHuhTheme()).WithShowHelp(false)
}

// ── validators ──────────────────────────────────────────────────────────────

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDateTime(now func() time.Time) func(string) error {
	return func(s string) error {
		_, err := parseDateTime(s, now())
		return err
	}
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return errors.New("use a duration like 30m or 1h30m")
	}
	if d <= 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

// roundUp moves t forward to the next slot boundary.
func roundUp(t time.Time, slotMinutes int) time.Time {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	slot := time.Duration(slotMinutes) * time.Minute
	day := domain.StartOfDay(t)
	offset := t.Sub(day)
	if r := offset % slot; r != 0 {
		offset += slot - r
	}
	return day.Add(offset)
}

// slotFromFields turns the start and duration fields into a time range.
func slotFromFields(startText, durText string, now time.Time) (time.Time, time.Time, error) {
	start, err := parseDateTime(startText, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	dur, err := time.ParseDuration(strings.TrimSpace(durText))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := resolveEnd(start, time.Time{}, dur)
	return start, end, err
}

func typeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.TicketTypes))
	for _, t := range domain.TicketTypes {
		opts = append(opts, huh.NewOption(string(t), string(t)))
	}
	return opts
}

// ── events ──────────────────────────────────────────────────────────────────

type eventFields struct {
	title string
	typ   string
	start string
	dur   string
}

// newEventWizard asks for an event's title, type and slot, prefilled with
// the given range, then creates it.
func newEventWizard(state *SharedState, start, end time.Time) tea.Cmd {
	app := state.App
	f := &eventFields{
		typ:   string(domain.TicketEvent),
		start: start.Format(wizardTimeLayout),
		dur:   formatDuration(end.Sub(start)),
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&f.title).Validate(validateRequired("title")),
			huh.NewSelect[string]().Title("Type").Options(typeOptions()...).Value(&f.typ),
			huh.NewInput().Title("Start").Description("YYYY-MM-DD HH:MM, or a day and time like tomorrow 09:00").
				Value(&f.start).Validate(validateDateTime(app.now)),
			huh.NewInput().Title("Duration").Value(&f.dur).Validate(validateDuration),
		),
	)

	return startWizardCmd(state, "New Event", form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			s, e, err := slotFromFields(f.start, f.dur, app.now())
			if err != nil {
				return shellError(err)
			}
			ev, err := app.Schedule.CreateEvent(context.Background(), domain.EventInput{
				Title: strings.TrimSpace(f.title),
				Type:  domain.TicketType(f.typ),
				Start: s,
				End:   e,
			})
			if err != nil {
				return shellError(err)
			}
			return fmt.Sprintf("Created %s  %s", formatter.EventLabel(ev), formatter.Dim(eventSlot(ev)))
		})
	})
}

// renameEventWizard edits an event's title in place.
func renameEventWizard(state *SharedState, ev domain.CalendarEvent) tea.Cmd {
	app := state.App
	title := ev.Title

	form := newForm(
		huh.NewGroup(
			huh.NewInput().Title("Rename " + formatter.EventLabel(&ev)).Value(&title).Validate(validateRequired("title")),
		),
	)

	return startWizardCmd(state, "Rename", form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			if strings.TrimSpace(title) == ev.Title {
				return formatter.Dim("Unchanged.")
			}
			renamed, err := app.Schedule.RenameEvent(context.Background(), ev.ID, strings.TrimSpace(title))
			if err != nil {
				return shellError(err)
			}
			return "Renamed to " + formatter.EventLabel(renamed)
		})
	})
}

// ── tickets ─────────────────────────────────────────────────────────────────

// scheduleTicketWizard places an unscheduled ticket on the calendar.
func scheduleTicketWizard(state *SharedState, t domain.Ticket) tea.Cmd {
	app := state.App
	day := app.now()
	if t.ScheduledDate != nil {
		day = *t.ScheduledDate
	}
	start := domain.StartOfDay(day).Add(9 * time.Hour)
	f := &eventFields{start: start.Format(wizardTimeLayout), dur: "1h"}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().Title("Start").Description(t.DisplayKey()+" "+t.Title).
				Value(&f.start).Validate(validateDateTime(app.now)),
			huh.NewInput().Title("Duration").Value(&f.dur).Validate(validateDuration),
		),
	)

	return startWizardCmd(state, "Schedule "+t.DisplayKey(), form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			ctx := context.Background()
			s, e, err := slotFromFields(f.start, f.dur, app.now())
			if err != nil {
				return shellError(err)
			}
			if _, err := app.Schedule.Week(ctx, s); err != nil {
				return shellError(err)
			}
			ev, err := app.Schedule.ScheduleTicket(ctx, t, s, e)
			if err != nil {
				return shellError(err)
			}
			return fmt.Sprintf("Scheduled %s for %s", formatter.StyleGreen.Render(t.DisplayKey()), eventSlot(ev))
		})
	})
}

// ticketStatusWizard moves a ticket to another status.
func ticketStatusWizard(state *SharedState, t domain.Ticket) tea.Cmd {
	app := state.App
	status := string(t.Status)
	opts := make([]huh.Option[string], 0, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		opts = append(opts, huh.NewOption(string(s), string(s)))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Status of " + t.DisplayKey()).Options(opts...).Value(&status),
		),
	)

	return startWizardCmd(state, "Status", form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			st := domain.TicketStatus(status)
			if st == t.Status {
				return formatter.Dim("Unchanged.")
			}
			updated, err := app.Tickets.Update(context.Background(), t.ID, domain.TicketPatch{Status: &st})
			if err != nil {
				return shellError(err)
			}
			return fmt.Sprintf("Updated %s  %s", formatter.StyleGreen.Render(updated.DisplayKey()), formatter.TicketStatusPill(updated.Status))
		})
	})
}

type ticketFields struct {
	title   string
	typ     string
	project string
}

// newTicketWizard creates a ticket in one of the known projects.
func newTicketWizard(state *SharedState) tea.Cmd {
	app := state.App
	f := &ticketFields{typ: string(domain.TicketTask)}

	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(&f.title).Validate(validateRequired("title")),
		huh.NewSelect[string]().Title("Type").Options(typeOptions()...).Value(&f.typ),
	}
	if opts := projectOptions(state); len(opts) > 0 {
		fields = append(fields, huh.NewSelect[string]().Title("Project").Options(opts...).Value(&f.project))
	}
	form := newForm(huh.NewGroup(fields...))

	return startWizardCmd(state, "New Ticket", form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			t, err := app.Tickets.Create(context.Background(), domain.NewTicket{
				Title:             strings.TrimSpace(f.title),
				Type:              f.typ,
				InternalProjectID: f.project,
				Status:            domain.StatusTodo,
			})
			if err != nil {
				return shellError(err)
			}
			return fmt.Sprintf("Created %s %s %s", formatter.TypeBadge(t.Type), formatter.StyleGreen.Render(t.DisplayKey()), t.Title)
		})
	})
}

func projectOptions(state *SharedState) []huh.Option[string] {
	projects := state.Projects(context.Background())
	if len(projects) == 0 {
		return nil
	}
	list := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		list = append(list, p)
	}
	sortProjects(list)
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range list {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", p.Key, p.Title), p.ID))
	}
	return opts
}

// ── skills ──────────────────────────────────────────────────────────────────

// openSkillWizard picks a skill not already open and opens it as a tab.
func openSkillWizard(state *SharedState, open map[string]bool) tea.Cmd {
	app := state.App
	var opts []huh.Option[string]
	for _, s := range app.Skills.List(context.Background()) {
		if open[s.ID] {
			continue
		}
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", s.Title, formatter.Dim(s.Category)), s.ID))
	}
	if len(opts) == 0 {
		return outputCmd(formatter.Dim("Every skill is already open."))
	}

	var id string
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Open skill").Options(opts...).Value(&id),
		),
	)

	return startWizardCmd(state, "Open Skill", form, func() tea.Cmd {
		return asyncOutputCmd(func() string {
			if err := app.Skills.OpenTab(context.Background(), id); err != nil {
				return shellError(err)
			}
			s, err := app.Skills.Get(context.Background(), id)
			if err != nil {
				return shellError(err)
			}
			return "Opened " + formatter.Bold(s.Title)
		})
	})
}

func sortProjects(projects []domain.Project) {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Key < projects[j].Key })
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "1h"
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}
