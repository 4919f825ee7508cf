package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// boardLoadedMsg carries everything the two panels render.
type boardLoadedMsg struct {
	missions   []model.Mission
	categories []model.Category
	selected   []model.SelectedTaskView
	palette    theme.Palette
	err        error
}

// actionResultMsg is sent after a mutation. The board is reloaded on
// success so both panels reflect the new state.
type actionResultMsg struct {
	status string
	err    error
}

// categoriesLoadedMsg opens the new-mission form once categories are known.
type categoriesLoadedMsg struct {
	categories []model.Category
	err        error
}

// loadBoard reads missions, categories, the focus list and the palette.
func (m Model) loadBoard() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		ctx := context.Background()
		missions, err := svc.ListMissions(ctx, userID)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		categories, err := svc.ListCategories(ctx, userID)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		selected, err := svc.ListSelected(ctx, userID)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		prefs, err := svc.GetPreferences(ctx, userID)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		pal, err := theme.FromPreferences(*prefs)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		return boardLoadedMsg{
			missions:   missions,
			categories: categories,
			selected:   selected,
			palette:    pal,
		}
	}
}

// loadCategories fetches categories for the mission form.
func (m Model) loadCategories() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		cats, err := svc.ListCategories(context.Background(), userID)
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

// action wraps a service call as a command reporting status on success.
func (m Model) action(status string, fn func(ctx context.Context, svc *engine.Service, userID string) error) tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		if err := fn(context.Background(), svc, userID); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{status: status}
	}
}

// toggleTask flips a task between NOT_STARTED and COMPLETED.
func (m Model) toggleTask(task model.Task) tea.Cmd {
	next := model.StateCompleted
	if task.IsCompleted() {
		next = model.StateNotStarted
	}
	return m.action("updated "+task.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.SetTaskState(ctx, userID, task.ID, next)
		return err
	})
}

// toggleMission sets a mission's state manually. Its tasks are untouched.
func (m Model) toggleMission(mission model.Mission) tea.Cmd {
	next := model.StateCompleted
	if mission.IsCompleted() {
		next = model.StateNotStarted
	}
	return m.action("updated "+mission.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.UpdateMission(ctx, userID, mission.ID, engine.MissionUpdate{State: &next})
		return err
	})
}

func (m Model) selectTask(task model.Task) tea.Cmd {
	return m.action("focused "+task.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.AddSelected(ctx, userID, task.ID)
		return err
	})
}

func (m Model) removeSelected(entry model.SelectedTaskView) tea.Cmd {
	return m.action("unfocused "+entry.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		return svc.RemoveSelected(ctx, userID, entry.ID)
	})
}

func (m Model) cancelMission(mission model.Mission) tea.Cmd {
	return m.action("cancelled "+mission.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		return svc.CancelMission(ctx, userID, mission.ID)
	})
}

func (m Model) cancelTask(task model.Task) tea.Cmd {
	return m.action("cancelled "+task.Title, func(ctx context.Context, svc *engine.Service, userID string) error {
		return svc.CancelTask(ctx, userID, task.ID)
	})
}

func (m Model) createMission(title string, categoryID *string) tea.Cmd {
	return m.action("created "+title, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.CreateMission(ctx, userID, title, categoryID)
		return err
	})
}

func (m Model) createTask(missionID, title string) tea.Cmd {
	return m.action("created "+title, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.CreateTask(ctx, userID, missionID, title)
		return err
	})
}

func (m Model) reorderSelected(updates []model.OrderUpdate) tea.Cmd {
	return m.action("reordered", func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.ReorderSelected(ctx, userID, updates)
		return err
	})
}

// runReset runs the daily reset immediately. Like the scheduled job it
// covers every user in the database, not just the signed-in one.
func (m Model) runReset() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		res, err := svc.ResetSelected(context.Background())
		if err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{
			status: fmt.Sprintf("reset %d tasks, %d missions", res.Tasks, res.Missions),
		}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "refresh":
		return m.loadBoard()
	case "quit", "q":
		return tea.Quit
	case "new", "mission":
		m.currentView = ViewForm
		return m.loadCategories()
	case "reset":
		// The reset is not scoped to the signed-in user.
		if len(fields) != 2 || fields[1] != "all" {
			return m.fail(fmt.Errorf("reset changes every user's focus list; run \"reset all\" to confirm"))
		}
		return m.runReset()
	case "category":
		return m.categoryCommand(fields[1:])
	case "color":
		return m.colorCommand(fields[1:])
	default:
		return m.fail(fmt.Errorf("unknown command %q", fields[0]))
	}
}

// categoryCommand handles "category <name...> [#RRGGBB]".
func (m *Model) categoryCommand(args []string) tea.Cmd {
	if len(args) == 0 {
		return m.fail(fmt.Errorf("usage: category <name> [#RRGGBB]"))
	}
	color := ""
	if last := args[len(args)-1]; strings.HasPrefix(last, "#") {
		color = last
		args = args[:len(args)-1]
	}
	name := strings.Join(args, " ")
	if color == "" {
		color = m.styles.Palette.Accent
	}
	return m.action("created category "+name, func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.CreateCategory(ctx, userID, name, color)
		return err
	})
}

// colorCommand handles "color <primary|base|surface|accent> #RRGGBB".
func (m *Model) colorCommand(args []string) tea.Cmd {
	if len(args) != 2 {
		return m.fail(fmt.Errorf("usage: color <primary|base|surface|accent> #RRGGBB"))
	}
	value := args[1]
	var patch model.PreferencesPatch
	switch args[0] {
	case "primary":
		patch.PrimaryColor = &value
	case "base":
		patch.BackgroundBaseColor = &value
	case "surface":
		patch.BackgroundSurfaceColor = &value
	case "accent":
		patch.AccentColor = &value
	default:
		return m.fail(fmt.Errorf("unknown color %q", args[0]))
	}
	return m.action("updated theme", func(ctx context.Context, svc *engine.Service, userID string) error {
		_, err := svc.UpdatePreferences(ctx, userID, patch)
		return err
	})
}

func (m Model) fail(err error) tea.Cmd {
	return func() tea.Msg { return actionResultMsg{err: err} }
}
