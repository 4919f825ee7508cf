package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/keys"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
	"github.com/nhle/missionboard/internal/ui"
	"github.com/nhle/missionboard/internal/ui/command"
	"github.com/nhle/missionboard/internal/ui/focuslist"
	helpview "github.com/nhle/missionboard/internal/ui/help"
	"github.com/nhle/missionboard/internal/ui/missionform"
	"github.com/nhle/missionboard/internal/ui/missionlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
	ViewCommand
	ViewForm
)

// Panel identifies which board panel has keyboard focus.
type Panel int

const (
	PanelMissions Panel = iota
	PanelFocus
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the engine.
type Model struct {
	currentView  ViewState
	previousView ViewState
	panel        Panel
	layout       ui.Layout
	svc          *engine.Service
	user         *model.User
	userID       string
	keys         *keys.KeyMap
	styles       theme.Styles
	missions     missionlist.Model
	focus        focuslist.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     missionform.Model
	ready        bool
	status       string
	errMessage   string
}

// New creates a new root application model acting as user.
func New(svc *engine.Service, user *model.User) Model {
	k := keys.DefaultKeyMap()
	styles := theme.DefaultStyles()

	m := Model{
		currentView: ViewBoard,
		svc:         svc,
		user:        user,
		userID:      user.ID,
		keys:        k,
		styles:      styles,
		layout:      ui.NewLayout(80, 24, styles),
		missions:    missionlist.New(k, styles, 48, 22),
		focus:       focuslist.New(k, styles, 32, 22),
		helpView:    helpview.New(k, styles, 80, 22),
		commandView: command.New(styles, 80, 22),
		formView:    missionform.New(styles, 80, 22),
	}
	m.setPanel(PanelMissions)
	return m
}

// Init returns the initial command to load the board.
func (m Model) Init() tea.Cmd {
	return m.loadBoard()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, m.styles)
		m.ready = true
		m.resize()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case boardLoadedMsg:
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			return m, nil
		}
		if msg.palette != m.styles.Palette {
			m.applyStyles(theme.NewStyles(msg.palette))
		}
		m.missions.SetData(msg.missions, msg.categories, msg.selected)
		m.focus.SetEntries(msg.selected)
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.errMessage = msg.err.Error()
			m.status = ""
			// Reload anyway so optimistic local changes are undone.
			return m, m.loadBoard()
		}
		m.errMessage = ""
		m.status = msg.status
		return m, m.loadBoard()

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.currentView = ViewBoard
			m.errMessage = msg.err.Error()
			return m, nil
		}
		m.currentView = ViewForm
		return m, m.formView.StartMission(msg.categories)

	case missionform.MissionSubmittedMsg:
		m.currentView = ViewBoard
		return m, m.createMission(msg.Title, msg.CategoryID)

	case missionform.TaskSubmittedMsg:
		m.currentView = ViewBoard
		return m, m.createTask(msg.MissionID, msg.Title)

	case missionform.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			if m.currentView == ViewForm {
				m.currentView = ViewBoard
				return m, nil
			}

		case "q":
			if m.currentView == ViewBoard {
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewForm || m.currentView == ViewCommand {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.currentView != ViewBoard {
				break
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()
		}

		if m.currentView == ViewBoard {
			if cmd, handled := m.handleBoardKey(msg); handled {
				return m, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleBoardKey runs the board actions for the focused panel.
func (m *Model) handleBoardKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.SwitchPanel):
		if m.panel == PanelMissions {
			m.setPanel(PanelFocus)
		} else {
			m.setPanel(PanelMissions)
		}
		return nil, true

	case key.Matches(msg, m.keys.Refresh):
		return m.loadBoard(), true

	case key.Matches(msg, m.keys.NewMission):
		m.previousView = m.currentView
		return m.loadCategories(), true
	}

	if m.panel == PanelFocus {
		return m.handleFocusKey(msg)
	}
	return m.handleMissionKey(msg)
}

func (m *Model) handleMissionKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	row, ok := m.missions.SelectedRow()

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if !ok {
			return nil, true
		}
		if row.Kind == missionlist.TaskRow {
			return m.toggleTask(row.Task), true
		}
		return m.toggleMission(row.Mission), true

	case key.Matches(msg, m.keys.Select):
		if !ok {
			return nil, true
		}
		if row.Kind != missionlist.TaskRow {
			m.status = "select a task to add it to today's focus"
			return nil, true
		}
		if row.Focused {
			m.status = row.Task.Title + " is already in focus"
			return nil, true
		}
		return m.selectTask(row.Task), true

	case key.Matches(msg, m.keys.NewTask):
		if !ok {
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m.formView.StartTask(row.Mission), true

	case key.Matches(msg, m.keys.Cancel):
		if !ok {
			return nil, true
		}
		if row.Kind == missionlist.TaskRow {
			return m.cancelTask(row.Task), true
		}
		return m.cancelMission(row.Mission), true
	}

	return nil, false
}

func (m *Model) handleFocusKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	entry, ok := m.focus.SelectedEntry()

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if !ok {
			return nil, true
		}
		task := model.Task{ID: entry.TaskID, Title: entry.Title, State: entry.State}
		return m.toggleTask(task), true

	case key.Matches(msg, m.keys.Cancel):
		if !ok {
			return nil, true
		}
		return m.removeSelected(entry), true

	case key.Matches(msg, m.keys.MoveUp):
		if updates, moved := m.focus.Move(-1); moved {
			return m.reorderSelected(updates), true
		}
		return nil, true

	case key.Matches(msg, m.keys.MoveDown):
		if updates, moved := m.focus.Move(1); moved {
			return m.reorderSelected(updates), true
		}
		return nil, true
	}

	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		if m.panel == PanelFocus {
			m.focus, cmd = m.focus.Update(msg)
		} else {
			m.missions, cmd = m.missions.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Mission Board", m.user.Username)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.layout.RenderPanels(m.missions.View(), m.focus.View())
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.errMessage != "" && m.currentView == ViewBoard {
		return m.styles.Error.Render("error: " + m.errMessage)
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	}

	hints := "q quit | ? help | tab panel | x toggle | n mission | a task | s focus | d cancel"
	if m.panel == PanelFocus {
		hints = "q quit | ? help | tab panel | x toggle | d unfocus | K/J move"
	}
	if m.status != "" {
		return fmt.Sprintf("%s | %s", m.status, hints)
	}
	return hints
}

func (m *Model) setPanel(p Panel) {
	m.panel = p
	m.missions.SetActive(p == PanelMissions)
	m.focus.SetActive(p == PanelFocus)
}

func (m *Model) resize() {
	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()
	left, right := m.layout.PanelWidths()
	m.missions.SetSize(left, contentHeight)
	m.focus.SetSize(right, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
	m.formView.SetSize(contentWidth, contentHeight)
}

func (m *Model) applyStyles(styles theme.Styles) {
	m.styles = styles
	m.layout.Styles = styles
	m.missions.SetStyles(styles)
	m.focus.SetStyles(styles)
	m.helpView.SetStyles(styles)
	m.commandView.SetStyles(styles)
	m.formView.SetStyles(styles)
}
