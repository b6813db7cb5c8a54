package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// progressStep is how far +/- move a skill's progress.
const progressStep = 10

type skillsLoadedMsg struct {
	tabs   []domain.SkillTab
	active string
	skills map[string]domain.Skill
	err    error
}

type skillsMutatedMsg struct {
	err error
}

// skillsView is the tabbed skill browser. Tabs persist across sessions;
// progress does not.
type skillsView struct {
	state   *SharedState
	tabs    []domain.SkillTab
	active  string
	skills  map[string]domain.Skill
	loading bool
	err     error
}

func newSkillsView(state *SharedState) *skillsView {
	return &skillsView{state: state, loading: true}
}

func (v *skillsView) ID() ViewID    { return ViewSkills }
func (v *skillsView) Title() string { return "Skills" }

func (v *skillsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "tab")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "reorder")),
		key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "progress")),
	}
}

func (v *skillsView) Init() tea.Cmd {
	return v.load()
}

func (v *skillsView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		tabs, err := app.Skills.Tabs(ctx)
		if err != nil {
			return skillsLoadedMsg{err: err}
		}
		active, err := app.Skills.ActiveTab(ctx)
		if err != nil {
			return skillsLoadedMsg{err: err}
		}
		return skillsLoadedMsg{tabs: tabs, active: active, skills: skillIndex(app.Skills.List(ctx))}
	}
}

// mutate runs fn and reloads the tabs afterwards.
func (v *skillsView) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return skillsMutatedMsg{err: fn(context.Background())}
	}
}

func (v *skillsView) activeIndex() int {
	for i, t := range v.tabs {
		if t.SkillID == v.active {
			return i
		}
	}
	return -1
}

func (v *skillsView) openTabs() map[string]bool {
	open := make(map[string]bool, len(v.tabs))
	for _, t := range v.tabs {
		open[t.SkillID] = true
	}
	return open
}

func (v *skillsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case skillsLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.tabs, v.active, v.skills = msg.tabs, msg.active, msg.skills
		}
		return v, nil

	case skillsMutatedMsg:
		v.err = msg.err
		return v, v.load()

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *skillsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	idx := v.activeIndex()

	switch msg.String() {
	case "o":
		return openSkillWizard(v.state, v.openTabs())
	case "r":
		return v.load()
	}
	if idx < 0 {
		return nil
	}
	tab := v.tabs[idx]

	switch msg.String() {
	case "l", "right", "tab":
		next := v.tabs[(idx+1)%len(v.tabs)].SkillID
		return v.mutate(func(ctx context.Context) error { return app.Skills.OpenTab(ctx, next) })
	case "h", "left", "shift+tab":
		prev := v.tabs[(idx-1+len(v.tabs))%len(v.tabs)].SkillID
		return v.mutate(func(ctx context.Context) error { return app.Skills.OpenTab(ctx, prev) })
	case "x":
		return v.mutate(func(ctx context.Context) error { return app.Skills.CloseTab(ctx, tab.SkillID) })
	case "X":
		return v.mutate(app.Skills.CloseUnpinned)
	case "p":
		return v.mutate(func(ctx context.Context) error { return app.Skills.PinTab(ctx, tab.SkillID, !tab.Pinned) })
	case "[":
		if idx > 0 {
			return v.mutate(func(ctx context.Context) error { return app.Skills.MoveTab(ctx, tab.SkillID, idx-1) })
		}
	case "]":
		if idx < len(v.tabs)-1 {
			return v.mutate(func(ctx context.Context) error { return app.Skills.MoveTab(ctx, tab.SkillID, idx+1) })
		}
	case "+", "=":
		return v.mutate(func(ctx context.Context) error { return bumpProgress(ctx, app, tab.SkillID, progressStep) })
	case "-", "_":
		return v.mutate(func(ctx context.Context) error { return bumpProgress(ctx, app, tab.SkillID, -progressStep) })
	}
	return nil
}

// bumpProgress moves the working stage of a mastery skill, or the
// objective, by delta percent.
func bumpProgress(ctx context.Context, app *App, skillID string, delta int) error {
	s, err := app.Skills.Get(ctx, skillID)
	if err != nil {
		return err
	}
	if s.Kind == domain.SkillObjective {
		cur := 0
		if s.Objective != nil {
			cur = s.Objective.Progress
		}
		_, err = app.Skills.SetObjectiveProgress(ctx, s.ID, cur+delta)
		return err
	}
	if len(s.Stages) == 0 {
		return nil
	}
	stage := min(s.CurrentStage(), len(s.Stages)-1)
	if delta < 0 && s.Stages[stage].Progress == 0 && stage > 0 {
		stage--
	}
	_, err = app.Skills.SetStageProgress(ctx, s.ID, stage, s.Stages[stage].Progress+delta)
	return err
}

func (v *skillsView) View() string {
	if v.loading && v.skills == nil {
		return formatter.Dim("Loading skills…")
	}

	var b strings.Builder
	if v.err != nil {
		b.WriteString(shellError(v.err) + "\n\n")
	}
	b.WriteString(formatter.FormatSkillTabs(v.tabs, v.skills, v.active) + "\n\n")

	if s, ok := v.skills[v.active]; ok && v.activeIndex() >= 0 {
		b.WriteString(formatter.FormatSkillDetail(s))
		return b.String()
	}

	b.WriteString(formatter.FormatSkillList(v.state.App.Skills.List(context.Background())) + "\n\n")
	b.WriteString(formatter.Dim("Press o to open a skill in a tab."))
	return b.String()
}
