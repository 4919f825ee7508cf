package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/missionboard/internal/keys"
	"github.com/nhle/missionboard/internal/theme"
	"github.com/nhle/missionboard/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	styles theme.Styles
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, styles theme.Styles, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		styles: styles,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	title := m.styles.PanelTitle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	commands := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PanelTitle.Render("Commands (:)"),
		command.RenderUsage(m.styles),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, title, helpText, "", commands)

	return m.styles.Panel.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}

// SetStyles replaces the styles after a palette change.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}
