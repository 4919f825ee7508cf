package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/missionboard/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Usage describes one palette command.
type Usage struct {
	Syntax string
	Desc   string
}

// Commands lists what the palette understands, in display order.
var Commands = []Usage{
	{"category <name> [#RRGGBB]", "create a category"},
	{"color <primary|base|surface|accent> #RRGGBB", "set a theme color"},
	{"new", "create a mission"},
	{"refresh", "reload the board"},
	{"reset all", "run the daily reset for every user's focus list"},
	{"quit", "exit"},
}

// RenderUsage formats Commands as an aligned two-column list.
func RenderUsage(styles theme.Styles) string {
	width := 0
	for _, c := range Commands {
		width = max(width, lipgloss.Width(c.Syntax))
	}
	lines := make([]string, len(Commands))
	for i, c := range Commands {
		syntax := styles.Accent.Render(c.Syntax + strings.Repeat(" ", width-lipgloss.Width(c.Syntax)))
		lines[i] = syntax + "  " + styles.Muted.Render(c.Desc)
	}
	return strings.Join(lines, "\n")
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	styles theme.Styles
	width  int
	height int
}

// New creates a new command palette model.
func New(styles theme.Styles, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "category Deep Work #5A9AA8"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		styles: styles,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := m.styles.PanelTitle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", RenderUsage(m.styles))

	return m.styles.Panel.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// SetStyles replaces the styles after a palette change.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
