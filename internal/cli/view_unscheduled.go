package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// unscheduledLoadedMsg carries tickets with a date but no time slot.
type unscheduledLoadedMsg struct {
	tickets  []domain.Ticket
	projects map[string]domain.Project
	err      error
}

// unscheduledRow is a project heading or a ticket under it.
type unscheduledRow struct {
	heading string
	ticket  *domain.Ticket
}

// unscheduledView lists tickets waiting for a calendar slot, grouped by
// project, with a filter prompt.
type unscheduledView struct {
	state    *SharedState
	tickets  []domain.Ticket
	projects map[string]domain.Project
	cursor   int
	loading  bool
	err      error

	filter    textinput.Model
	filtering bool
}

func newUnscheduledView(state *SharedState) *unscheduledView {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 80
	return &unscheduledView{state: state, loading: true, filter: ti}
}

func (v *unscheduledView) ID() ViewID    { return ViewUnscheduled }
func (v *unscheduledView) Title() string { return "Unscheduled" }

// Modal is true while the filter prompt is focused.
func (v *unscheduledView) Modal() bool { return v.filtering }

func (v *unscheduledView) ShortHelp() []key.Binding {
	if v.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "move")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "schedule")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *unscheduledView) Init() tea.Cmd {
	return v.load()
}

func (v *unscheduledView) load() tea.Cmd {
	state := v.state
	return func() tea.Msg {
		ctx := context.Background()
		tickets, err := state.App.Tickets.Unscheduled(ctx, "")
		if err != nil {
			return unscheduledLoadedMsg{err: err}
		}
		return unscheduledLoadedMsg{tickets: tickets, projects: state.Projects(ctx)}
	}
}

// rows groups the filtered tickets under project headings, projects in
// key order and tickets in the order the service returned them.
func (v *unscheduledView) rows() []unscheduledRow {
	q := strings.ToLower(strings.TrimSpace(v.filter.Value()))
	groups := map[string][]*domain.Ticket{}
	for i := range v.tickets {
		t := &v.tickets[i]
		if q != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Key), q) {
			continue
		}
		groups[t.ProjectID] = append(groups[t.ProjectID], t)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return v.projectLabel(ids[i]) < v.projectLabel(ids[j])
	})

	var rows []unscheduledRow
	for _, id := range ids {
		rows = append(rows, unscheduledRow{heading: v.projectLabel(id)})
		for _, t := range groups[id] {
			rows = append(rows, unscheduledRow{ticket: t})
		}
	}
	return rows
}

func (v *unscheduledView) projectLabel(id string) string {
	if p, ok := v.projects[id]; ok {
		return p.Key + "  " + p.Title
	}
	if id == "" {
		return "No project"
	}
	return id
}

// current returns the ticket under the cursor.
func (v *unscheduledView) current() (*domain.Ticket, bool) {
	rows := v.rows()
	if v.cursor < 0 || v.cursor >= len(rows) || rows[v.cursor].ticket == nil {
		return nil, false
	}
	return rows[v.cursor].ticket, true
}

// snapCursor moves the cursor off headings in the direction of travel.
func (v *unscheduledView) snapCursor(dir int) {
	rows := v.rows()
	if len(rows) == 0 {
		v.cursor = 0
		return
	}
	v.cursor = min(max(v.cursor, 0), len(rows)-1)
	for i := 0; i < len(rows) && rows[v.cursor].ticket == nil; i++ {
		next := v.cursor + dir
		if next < 0 || next >= len(rows) {
			dir = -dir
			next = v.cursor + dir
		}
		if next < 0 || next >= len(rows) {
			return
		}
		v.cursor = next
	}
}

func (v *unscheduledView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case unscheduledLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.tickets = msg.tickets
			v.projects = msg.projects
		}
		v.snapCursor(1)
		return v, nil

	case refreshViewMsg, calendarChangedMsg:
		return v, v.load()

	case tea.KeyMsg:
		if v.filtering {
			return v, v.updateFilter(msg)
		}
		switch msg.String() {
		case "j", "down":
			v.cursor++
			v.snapCursor(1)
		case "k", "up":
			v.cursor--
			v.snapCursor(-1)
		case "g", "home":
			v.cursor = 0
			v.snapCursor(1)
		case "G", "end":
			v.cursor = len(v.rows()) - 1
			v.snapCursor(-1)
		case "/":
			v.filtering = true
			v.filter.Focus()
			return v, textinput.Blink
		case "enter":
			if t, ok := v.current(); ok {
				return v, pushView(newTicketView(v.state, t.ID))
			}
		case "s":
			if t, ok := v.current(); ok {
				return v, scheduleTicketWizard(v.state, *t)
			}
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

func (v *unscheduledView) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		v.cursor = 0
		v.snapCursor(1)
		return nil
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.Reset()
		v.snapCursor(1)
		return nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.cursor = 0
	v.snapCursor(1)
	return cmd
}

func (v *unscheduledView) View() string {
	if v.loading && len(v.tickets) == 0 {
		return formatter.Dim("Loading unscheduled tickets…")
	}
	if v.err != nil {
		return shellError(v.err)
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Unscheduled") + "  " + formatter.Dim(fmt.Sprintf("%d tickets", len(v.tickets))) + "\n")
	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View() + "\n")
	}

	rows := v.rows()
	if len(rows) == 0 {
		b.WriteString("\n" + formatter.Dim("Nothing waiting for a slot."))
		return b.String()
	}

	now := v.state.App.now()
	height := v.state.ContentHeight() - 2
	start := 0
	if height > 0 && v.cursor >= height {
		start = v.cursor - height + 1
	}
	for i := start; i < len(rows); i++ {
		if height > 0 && i-start >= height {
			break
		}
		row := rows[i]
		if row.ticket == nil {
			b.WriteString(formatter.StyleBold.Render(row.heading) + "\n")
			continue
		}
		t := row.ticket
		cursor := "  "
		title := t.Title
		if i == v.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
			title = formatter.Bold(title)
		}
		fmt.Fprintf(&b, "%s%s %s %s  %s\n",
			cursor,
			formatter.TypeBadge(t.Type),
			formatter.StyleGreen.Render(formatter.PadRight(t.DisplayKey(), 9)),
			title,
			formatter.ScheduledDateStyled(t.ScheduledDate, now))
	}
	return strings.TrimRight(b.String(), "\n")
}
