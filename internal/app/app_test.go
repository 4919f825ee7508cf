package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/tests/testutil"
)

func newTestModel(t *testing.T) (Model, *engine.Service, *model.User) {
	t.Helper()
	s := testutil.NewTestStore(t)
	u := testutil.NewTestUser(t, s, "alice")
	svc := engine.NewService(s, engine.Options{})
	return New(svc, u), svc, u
}

// drive feeds cmd's messages back into m until no command remains.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 20, "command chain did not settle")
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = drive(t, next.(Model), cmd)
	}
	return m
}

func TestBoardLoadsMissionsAndTasks(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "Ship feature", nil)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, u.ID, mission.ID, "Write code")
	require.NoError(t, err)

	m = drive(t, m, m.Init())
	assert.Equal(t, 2, m.missions.Len())
	assert.Empty(t, m.errMessage)

	row, ok := m.missions.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, "Ship feature", row.Mission.Title)
}

func TestToggleTaskCompletesMission(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "Ship feature", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, mission.ID, "Write code")
	require.NoError(t, err)

	m = drive(t, m, m.Init())
	m = press(t, m, "j", "x")
	assert.Empty(t, m.errMessage)

	got, err := svc.GetMission(ctx, u.ID, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, got.State)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, task.ID, got.Tasks[0].ID)
	assert.Equal(t, model.StateCompleted, got.Tasks[0].State)
}

func TestSelectAndUnfocus(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "Ship feature", nil)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, u.ID, mission.ID, "Write code")
	require.NoError(t, err)

	m = drive(t, m, m.Init())
	m = press(t, m, "j", "s")
	require.Len(t, m.focus.Entries(), 1)

	row, ok := m.missions.SelectedRow()
	require.True(t, ok)
	assert.True(t, row.Focused)

	// Selecting again is caught locally.
	m = press(t, m, "s")
	assert.Contains(t, m.status, "already in focus")

	m = press(t, m, "tab", "d")
	assert.Empty(t, m.focus.Entries())

	selected, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestMoveFocusEntryPersistsOrder(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	for _, title := range []string{"a", "b"} {
		task, err := svc.CreateTask(ctx, u.ID, mission.ID, title)
		require.NoError(t, err)
		_, err = svc.AddSelected(ctx, u.ID, task.ID)
		require.NoError(t, err)
	}

	m = drive(t, m, m.Init())
	m = press(t, m, "tab", "J")
	assert.Empty(t, m.errMessage)

	selected, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "b", selected[0].Title)
	assert.Equal(t, "a", selected[1].Title)

	entry, ok := m.focus.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, "a", entry.Title)

	// Moving past the end is a no-op.
	m = press(t, m, "J")
	assert.Empty(t, m.errMessage)
}

func TestCancelMissionRemovesFocus(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, mission.ID, "t")
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.NoError(t, err)

	m = drive(t, m, m.Init())
	m = press(t, m, "d")

	assert.Equal(t, 0, m.missions.Len())
	assert.Empty(t, m.focus.Entries())
}

func TestCommandPalette(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)
	m = drive(t, m, m.Init())

	m = drive(t, m, m.executeCommand("category Deep Work #112233"))
	assert.Empty(t, m.errMessage)

	cats, err := svc.ListCategories(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Deep Work", cats[0].Name)
	assert.Equal(t, "#112233", cats[0].Color)

	m = drive(t, m, m.executeCommand("color primary #336699"))
	assert.Empty(t, m.errMessage)
	assert.Equal(t, "#336699", m.styles.Palette.Primary)

	m = drive(t, m, m.executeCommand("color primary blue"))
	assert.Contains(t, m.errMessage, "primary_color")

	m = drive(t, m, m.executeCommand("bogus"))
	assert.Contains(t, m.errMessage, "unknown command")
}

func TestViewRendersPanels(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	m = drive(t, m, m.Init())

	out := m.View()
	assert.Contains(t, out, "Missions")
	assert.Contains(t, out, "Today's Focus")
	assert.Contains(t, out, "alice")

	m = press(t, m, "?")
	assert.Equal(t, ViewHelp, m.currentView)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = press(t, m, "esc")
	assert.Equal(t, ViewBoard, m.currentView)
}

func TestResetCommandNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	m, svc, u := newTestModel(t)

	mission, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, mission.ID, "t")
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.NoError(t, err)
	_, err = svc.SetTaskState(ctx, u.ID, task.ID, model.StateCompleted)
	require.NoError(t, err)
	m = drive(t, m, m.Init())

	m = drive(t, m, m.executeCommand("reset"))
	assert.Contains(t, m.errMessage, `"reset all"`)
	selected, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, model.StateCompleted, selected[0].State)

	m = drive(t, m, m.executeCommand("reset all"))
	assert.Empty(t, m.errMessage)
	assert.Contains(t, m.status, "reset 1 tasks")
	selected, err = svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, selected[0].State)
}

func TestHelpListsPaletteCommands(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	m = drive(t, m, m.Init())

	m = press(t, m, "?")
	out := m.View()
	assert.Contains(t, out, "Commands (:)")
	assert.Contains(t, out, "reset all")
	assert.Contains(t, out, "every user's focus list")
}
