package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanhollins/cc-web-sub001/internal/calendar"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	shortHelp  []key.Binding
	modal      bool
	initCmd    tea.Cmd
	updateCmd  tea.Cmd
	updateSeen []tea.Msg
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, v.updateCmd
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return v.shortHelp }
func (v *stubView) Title() string            { return v.title }
func (v *stubView) Modal() bool              { return v.modal }
func newStubView(id ViewID, title, text string) *stubView {
	return &stubView{id: id, title: title, viewText: text}
}

func newTestModel(t *testing.T) appModel {
	t.Helper()
	app, _, _ := testApp(t)
	return newAppModel(app)
}

func TestNewAppModelStartsAtWeek(t *testing.T) {
	m := newTestModel(t)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewWeek, m.activeView().ID())
	assert.Equal(t, "Week of 9 Jun (W24)", m.activeView().Title())
}

func TestAppModel_NavigationMessages(t *testing.T) {
	m := newTestModel(t)
	v2 := newStubView(ViewUnscheduled, "Unscheduled", "backlog")
	v3 := newStubView(ViewTicket, "CC-1", "ticket")

	model, cmd := m.Update(pushViewMsg{view: v2})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v2, m.activeView())

	model, cmd = m.Update(replaceViewMsg{view: v3})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v3, m.activeView())

	model, cmd = m.Update(popViewMsg{})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewWeek, m.activeView().ID())

	model, _ = m.Update(switchRootMsg{view: newStubView(ViewSkills, "Skills", "skills")})
	m = model.(appModel)
	assert.Equal(t, []View{m.activeView()}, m.viewStack)
	assert.Equal(t, ViewSkills, m.activeView().ID())
}

func TestAppModel_WindowResizeForwardsToActiveView(t *testing.T) {
	m := newTestModel(t)
	v := newStubView(ViewUnscheduled, "Unscheduled", "backlog")
	m.viewStack = []View{v}

	model, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(appModel)
	require.Nil(t, cmd)

	assert.Equal(t, 100, m.state.Width)
	assert.Equal(t, 30, m.state.Height)
	assert.NotZero(t, m.cmdBar.input.Width)
	require.Len(t, v.updateSeen, 1)
	_, ok := v.updateSeen[0].(tea.WindowSizeMsg)
	assert.True(t, ok)
}

func TestAppModel_KeyHandling_GlobalAndCaptured(t *testing.T) {
	t.Run("colon focuses command bar", func(t *testing.T) {
		m := newTestModel(t)
		require.False(t, m.cmdBar.Focused())

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
		m = model.(appModel)
		require.Nil(t, cmd)
		assert.True(t, m.cmdBar.Focused())
	})

	t.Run("q quits when active view does not capture input", func(t *testing.T) {
		m := newTestModel(t)
		m.viewStack = []View{newStubView(ViewUnscheduled, "Unscheduled", "")}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("modal view receives q and does not quit", func(t *testing.T) {
		m := newTestModel(t)
		v := newStubView(ViewWeek, "Week", "")
		v.modal = true
		m.viewStack = []View{v}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.Nil(t, cmd)
		assert.False(t, m.quitting)
		require.Len(t, v.updateSeen, 1)
		assert.Equal(t, "q", v.updateSeen[0].(tea.KeyMsg).String())
	})

	t.Run("number keys switch root view", func(t *testing.T) {
		m := newTestModel(t)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
		require.NotNil(t, cmd)
		msg, ok := cmd().(switchRootMsg)
		require.True(t, ok)
		assert.Equal(t, ViewSkills, msg.view.ID())
	})

	t.Run("esc pops back stack", func(t *testing.T) {
		m := newTestModel(t)
		m.viewStack = []View{
			newStubView(ViewWeek, "Week", "week"),
			newStubView(ViewTicket, "CC-1", "ticket"),
		}
		m.lastOutput = "stale output"
		m.outputActive = true

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = model.(appModel)
		require.Nil(t, cmd)
		require.Len(t, m.viewStack, 2, "first esc only dismisses output")
		assert.Empty(t, m.lastOutput)
		assert.False(t, m.outputActive)

		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = model.(appModel)
		assert.Len(t, m.viewStack, 1)
	})
}

func TestAppModel_WizardCompleteAndOutput(t *testing.T) {
	m := newTestModel(t)
	week := newStubView(ViewWeek, "Week", "week")
	m.viewStack = []View{week, newStubView(ViewForm, "Wizard", "wizard")}

	next := func() tea.Msg { return cmdOutputMsg{output: "done"} }

	model, cmd := m.Update(wizardCompleteMsg{nextCmd: next})
	m = model.(appModel)
	require.NotNil(t, cmd)
	require.Len(t, m.viewStack, 1)

	batchMsg := cmd()
	batch, ok := batchMsg.(tea.BatchMsg)
	require.True(t, ok, "expected tea.BatchMsg, got %T", batchMsg)
	var gotOutput, gotRefresh bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch c().(type) {
		case cmdOutputMsg:
			gotOutput = true
		case refreshViewMsg:
			gotRefresh = true
		}
	}
	assert.True(t, gotOutput, "batch should contain cmdOutputMsg")
	assert.True(t, gotRefresh, "batch should contain refreshViewMsg")

	model, cmd = m.Update(cmdOutputMsg{output: "hello"})
	m = model.(appModel)
	require.Nil(t, cmd)
	assert.Contains(t, m.View(), "hello")
}

func TestAppModel_RefreshReachesEveryView(t *testing.T) {
	m := newTestModel(t)
	bottom := newStubView(ViewWeek, "Week", "")
	top := newStubView(ViewTicket, "CC-1", "")
	m.viewStack = []View{bottom, top}

	m.Update(refreshViewMsg{})
	assert.Len(t, bottom.updateSeen, 1)
	assert.Len(t, top.updateSeen, 1)
}

func TestAppModel_SubscribeFeedsCalendarChanges(t *testing.T) {
	app, _, _ := testApp(t)
	var notify func(calendar.Snapshot)
	unsubscribed := false
	app.Subscribe = func(fn func(calendar.Snapshot)) func() {
		notify = fn
		return func() { unsubscribed = true }
	}

	m := newAppModel(app)
	require.NotNil(t, notify)

	week := domain.WeekStart(testNow)
	notify(calendar.Snapshot{Week: week, Key: domain.WeekKey(week), Loading: true})
	notify(calendar.Snapshot{Week: week, Key: domain.WeekKey(week)})

	// Only the newest snapshot is kept.
	snap := <-m.changes
	assert.False(t, snap.Loading)
	assert.Empty(t, m.changes)

	_, cmd := m.quit()
	assert.NotNil(t, cmd)
	assert.True(t, unsubscribed)
}

func TestViewCapturesInput(t *testing.T) {
	assert.False(t, viewCapturesInput(nil))
	assert.True(t, viewCapturesInput(newStubView(ViewForm, "Form", "")))
	assert.False(t, viewCapturesInput(newStubView(ViewWeek, "Week", "")))

	modal := newStubView(ViewUnscheduled, "Unscheduled", "")
	modal.modal = true
	assert.True(t, viewCapturesInput(modal))
}

func TestAppModel_OutputViewportScroll(t *testing.T) {
	m := newTestModel(t)
	m.viewStack = []View{newStubView(ViewWeek, "Week", "week")}

	// Height 10 leaves a content height of 5.
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = model.(appModel)

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	content := strings.Join(lines, "\n")

	model, _ = m.Update(cmdOutputMsg{output: content})
	m = model.(appModel)
	assert.True(t, m.outputActive)
	assert.Contains(t, m.View(), "line 1")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(appModel)
	assert.True(t, m.outputActive)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = model.(appModel)
	assert.False(t, m.outputActive)
	assert.Empty(t, m.lastOutput)
}

func TestAppModel_OutputShortContentNoScroll(t *testing.T) {
	m := newTestModel(t)
	m.viewStack = []View{newStubView(ViewWeek, "Week", "week")}

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(appModel)

	model, _ = m.Update(cmdOutputMsg{output: "short output"})
	m = model.(appModel)
	assert.True(t, m.outputActive)

	view := m.View()
	assert.Contains(t, view, "short output")
	assert.NotContains(t, view, "pgup/pgdn")
}

func TestIsOutputScrollKey(t *testing.T) {
	scrollKeys := []tea.KeyType{
		tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD,
	}
	for _, k := range scrollKeys {
		assert.True(t, isOutputScrollKey(tea.KeyMsg{Type: k}), "expected scroll key: %v", k)
	}

	nonScrollKeys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{':'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyEnter},
	}
	for _, k := range nonScrollKeys {
		assert.False(t, isOutputScrollKey(k), "expected non-scroll key: %v", k)
	}
}

func TestAppModel_MutatingOutputRefreshesAfterShowing(t *testing.T) {
	m := newTestModel(t)
	week := newStubView(ViewWeek, "Week", "week")
	m.viewStack = []View{week}

	ran := false
	cmd := mutatingOutputCmd(func() string {
		ran = true
		return "Created Pairing"
	})
	msg := cmd()
	require.True(t, ran)
	require.Empty(t, week.updateSeen, "views reload only after the command has run")

	model, next := m.Update(msg)
	m = model.(appModel)
	assert.Equal(t, "Created Pairing", m.lastOutput)
	require.NotNil(t, next)
	assert.IsType(t, refreshViewMsg{}, next())

	// Read-only output does not reload anything.
	_, next = m.Update(cmdOutputMsg{output: "listing"})
	assert.Nil(t, next)
}
