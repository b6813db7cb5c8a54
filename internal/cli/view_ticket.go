package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/api"
	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

type ticketLoadedMsg struct {
	ticket   *domain.Ticket
	projects map[string]domain.Project
	err      error
}

type notionLoadedMsg struct {
	text string
	err  error
}

type ticketMutatedMsg struct {
	flash string
	err   error
}

// ticketView shows one ticket with its linked Notion page on demand.
type ticketView struct {
	state    *SharedState
	id       string
	ticket   *domain.Ticket
	projects map[string]domain.Project
	loading  bool
	err      error

	notion  string
	showing bool
	flash   string
}

func newTicketView(state *SharedState, id string) *ticketView {
	return &ticketView{state: state, id: id, loading: true}
}

func (v *ticketView) ID() ViewID { return ViewTicket }

func (v *ticketView) Title() string {
	if v.ticket != nil {
		return v.ticket.DisplayKey()
	}
	return "Ticket"
}

func (v *ticketView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "status")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notion")),
	}
	if v.ticket != nil && v.ticket.HasTimeSlot() {
		bindings = append(bindings, key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unschedule")))
	} else {
		bindings = append(bindings, key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "schedule")))
	}
	return append(bindings, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")))
}

func (v *ticketView) Init() tea.Cmd {
	return v.load()
}

func (v *ticketView) load() tea.Cmd {
	state, id := v.state, v.id
	return func() tea.Msg {
		ctx := context.Background()
		t, err := state.App.Tickets.Get(ctx, id)
		if err != nil {
			return ticketLoadedMsg{err: err}
		}
		return ticketLoadedMsg{ticket: t, projects: state.Projects(ctx)}
	}
}

func (v *ticketView) loadNotion() tea.Cmd {
	app, id := v.state.App, v.id
	return func() tea.Msg {
		ctx := context.Background()
		page, err := app.Tickets.NotionPage(ctx, id)
		if err != nil {
			return notionLoadedMsg{err: err}
		}
		content, err := app.Tickets.NotionContent(ctx, id)
		if err != nil && !api.IsNotFound(err) {
			return notionLoadedMsg{err: err}
		}
		return notionLoadedMsg{text: formatter.FormatNotion(page, content)}
	}
}

func (v *ticketView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.ticket = msg.ticket
			v.projects = msg.projects
		}
		return v, nil

	case notionLoadedMsg:
		v.showing = true
		if msg.err != nil {
			v.notion = shellError(msg.err)
		} else {
			v.notion = msg.text
		}
		return v, nil

	case ticketMutatedMsg:
		if msg.err != nil {
			v.flash = shellError(msg.err)
		} else {
			v.flash = msg.flash
		}
		return v, tea.Batch(v.load(), refreshViews)

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		if v.ticket == nil {
			if msg.String() == "r" {
				v.loading = true
				return v, v.load()
			}
			return v, nil
		}
		t := *v.ticket
		switch msg.String() {
		case "n":
			if v.showing {
				v.showing = false
				return v, nil
			}
			v.notion = formatter.Dim("Loading Notion page…")
			v.showing = true
			return v, v.loadNotion()
		case "S":
			return v, ticketStatusWizard(v.state, t)
		case "s":
			if !t.HasTimeSlot() {
				return v, scheduleTicketWizard(v.state, t)
			}
		case "u":
			if t.HasTimeSlot() {
				return v, v.unschedule(t)
			}
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

func (v *ticketView) unschedule(t domain.Ticket) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := app.Schedule.Week(ctx, *t.Start); err != nil {
			return ticketMutatedMsg{err: err}
		}
		if err := app.Schedule.UnscheduleTicket(ctx, t.ID); err != nil {
			return ticketMutatedMsg{err: err}
		}
		return ticketMutatedMsg{flash: fmt.Sprintf("Unscheduled %s", t.DisplayKey())}
	}
}

func (v *ticketView) View() string {
	if v.loading && v.ticket == nil {
		return formatter.Dim("Loading ticket…")
	}
	if v.err != nil {
		return shellError(v.err)
	}
	if v.ticket == nil {
		return formatter.Dim("Ticket not found.")
	}

	var b strings.Builder
	b.WriteString(formatter.FormatTicketDetail(v.ticket, v.projects, v.state.App.now()))
	if v.flash != "" {
		b.WriteString("\n" + v.flash)
	}
	if v.showing {
		b.WriteString("\n\n" + v.notion)
	}
	return b.String()
}
