package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

type programDetailMsg struct {
	id   string
	text string
	err  error
}

// programsView lists coaching programs with the selected one's timeline.
type programsView struct {
	state    *SharedState
	programs []domain.CoachProgram
	coaches  map[string]string
	cursor   int
	detail   string
	detailID string
}

func newProgramsView(state *SharedState) *programsView {
	return &programsView{state: state}
}

func (v *programsView) ID() ViewID    { return ViewPrograms }
func (v *programsView) Title() string { return "Programs" }

func (v *programsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "move")),
	}
}

func (v *programsView) Init() tea.Cmd {
	ctx := context.Background()
	app := v.state.App
	v.programs = app.Coaches.Programs(ctx)
	v.coaches = map[string]string{}
	for _, c := range app.Coaches.Coaches(ctx) {
		v.coaches[c.ID] = c.Name
	}
	return v.loadDetail()
}

func (v *programsView) loadDetail() tea.Cmd {
	if v.cursor < 0 || v.cursor >= len(v.programs) {
		return nil
	}
	app, p := v.state.App, v.programs[v.cursor]
	return func() tea.Msg {
		text, err := renderProgram(context.Background(), app, p)
		return programDetailMsg{id: p.ID, text: text, err: err}
	}
}

func (v *programsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case programDetailMsg:
		if v.cursor < len(v.programs) && v.programs[v.cursor].ID == msg.id {
			v.detailID = msg.id
			v.detail = msg.text
			if msg.err != nil {
				v.detail = shellError(msg.err)
			}
		}
		return v, nil

	case refreshViewMsg:
		return v, v.loadDetail()

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.programs)-1 {
				v.cursor++
				return v, v.loadDetail()
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
				return v, v.loadDetail()
			}
		}
	}
	return v, nil
}

func (v *programsView) View() string {
	if len(v.programs) == 0 {
		return formatter.Dim("No programs.")
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Programs") + "\n")
	for i, p := range v.programs {
		cursor := "  "
		title := p.Title
		if i == v.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
			title = formatter.Bold(title)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, title,
			formatter.Dim(v.coaches[p.CoachID]),
			formatter.RenderCompactBar(p.Completion(), 10, i != v.cursor))
	}

	if v.detail != "" && v.detailID == v.programs[v.cursor].ID {
		b.WriteString("\n" + v.detail)
	}
	return strings.TrimRight(b.String(), "\n")
}
