package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanhollins/cc-web-sub001/internal/testutil"
)

func TestUnscheduledView_GroupsByProject(t *testing.T) {
	app, fb, _ := testApp(t)
	seedTickets(fb)
	fb.addTickets(testutil.NewTestTicket("Buy groceries",
		testutil.WithKey("HOME-8"), testutil.WithProject("proj-2"), testutil.WithScheduledDate(at(14, 0, 0))))
	d := NewTestDriver(t, app)

	d.PressKey('2')
	require.Equal(t, ViewUnscheduled, d.ActiveViewID())

	view := d.View()
	assert.Contains(t, view, "CC  Command Center")
	assert.Contains(t, view, "HOME  Household")
	assert.Contains(t, view, "Write release notes")
	assert.Contains(t, view, "Buy groceries")
	assert.NotContains(t, view, "Plan sprint", "slotted tickets are on the calendar")
	assert.NotContains(t, view, "Fix login bug", "undated tickets are not waiting for a slot")

	// The cursor skips the HOME heading.
	d.PressKey('j')
	d.PressEnter()
	assert.Equal(t, ViewTicket, d.ActiveViewID())
	assert.Equal(t, "HOME-8", d.ActiveViewTitle())

	d.PressEsc()
	assert.Equal(t, ViewUnscheduled, d.ActiveViewID())
}

func TestUnscheduledView_Filter(t *testing.T) {
	app, fb, _ := testApp(t)
	seedTickets(fb)
	fb.addTickets(testutil.NewTestTicket("Buy groceries",
		testutil.WithKey("HOME-8"), testutil.WithProject("proj-2"), testutil.WithScheduledDate(at(14, 0, 0))))
	d := NewTestDriver(t, app)
	d.PressKey('2')

	d.PressKey('/')
	d.Type("groc")
	assert.False(t, d.IsQuitting())
	d.PressEnter()

	view := d.View()
	assert.Contains(t, view, "Buy groceries")
	assert.NotContains(t, view, "Write release notes")

	// s on the filtered row schedules it.
	d.PressKey('s')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "Schedule HOME-8", d.ActiveViewTitle())
	assert.Contains(t, d.View(), "2025-06-14 09:00")
}

func TestUnscheduledView_FilterEscClears(t *testing.T) {
	app, fb, _ := testApp(t)
	seedTickets(fb)
	d := NewTestDriver(t, app)
	d.PressKey('2')

	d.PressKey('/')
	d.Type("zzz")
	assert.Contains(t, d.View(), "Nothing waiting for a slot.")
	d.PressEsc()

	assert.Equal(t, ViewUnscheduled, d.ActiveViewID())
	assert.Contains(t, d.View(), "Write release notes")
}

func TestSkillsView_OpenPinAndClose(t *testing.T) {
	app, _, _ := testApp(t)
	ctx := context.Background()
	d := NewTestDriver(t, app)

	d.PressKey('3')
	require.Equal(t, ViewSkills, d.ActiveViewID())
	assert.Contains(t, d.View(), "No open tabs.")
	assert.Contains(t, d.View(), "Press o to open a skill in a tab.")

	d.PressKey('o')
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "Open Skill", d.ActiveViewTitle())
	d.PressEnter()

	assert.Equal(t, ViewSkills, d.ActiveViewID())
	assert.Contains(t, d.LastOutput(), "Opened")
	active, err := app.Skills.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, "skill-go", active)

	d.PressKey('+')
	s, err := app.Skills.Get(ctx, "skill-go")
	require.NoError(t, err)
	assert.Equal(t, 90, s.Stages[1].Progress)
	assert.Contains(t, d.View(), "Competent")

	d.PressKey('p')
	tabs, err := app.Skills.Tabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.True(t, tabs[0].Pinned)

	d.PressKey('x')
	tabs, err = app.Skills.Tabs(ctx)
	require.NoError(t, err)
	assert.Empty(t, tabs)
	active, err = app.Skills.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSkillsView_TabSwitching(t *testing.T) {
	app, _, _ := testApp(t)
	ctx := context.Background()
	require.NoError(t, app.Skills.OpenTab(ctx, "skill-go"))
	require.NoError(t, app.Skills.OpenTab(ctx, "skill-5k"))
	d := NewTestDriver(t, app)

	d.PressKey('3')
	assert.Contains(t, d.View(), "5k in 24:59")

	d.PressKey('l')
	active, err := app.Skills.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, "skill-go", active, "l wraps to the first tab")

	d.PressKey(']')
	tabs, err := app.Skills.Tabs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "skill-5k", tabs[0].SkillID)
	assert.Equal(t, "skill-go", tabs[1].SkillID)
}

func TestProgramsView_MovesBetweenPrograms(t *testing.T) {
	app, _, _ := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('4')
	require.Equal(t, ViewPrograms, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "Six Weeks of Deep Work")
	assert.Contains(t, view, "Foundations of Strength")
	assert.Contains(t, view, "Audit your week")

	d.PressKey('j')
	view = d.View()
	assert.Contains(t, view, "Movement baseline")
	assert.NotContains(t, view, "Audit your week")

	d.PressKey('k')
	d.PressKey('k')
	assert.Contains(t, d.View(), "Audit your week")
}
