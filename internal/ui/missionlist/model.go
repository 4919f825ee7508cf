package missionlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/missionboard/internal/keys"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// Model is the mission panel: missions with their tasks nested below.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	styles theme.Styles
	active bool
	width  int
	height int
}

// New creates a new mission panel.
func New(k *keys.KeyMap, styles theme.Styles, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{styles: styles}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	m := Model{
		list:   l,
		keys:   k,
		styles: styles,
		active: true,
	}
	m.SetSize(width, height)
	return m
}

// Update moves the cursor. Every other key is handled by the app.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.list.CursorUp()
		case key.Matches(msg, m.keys.Down):
			m.list.CursorDown()
		}
	}
	return m, nil
}

// SetData replaces the rows, keeping the cursor on the same mission or
// task when it still exists.
func (m *Model) SetData(
	missions []model.Mission,
	categories []model.Category,
	selected []model.SelectedTaskView,
) {
	current := ""
	if row, ok := m.SelectedRow(); ok {
		current = row.Key()
	}
	prev := m.list.Index()

	rows := BuildRows(missions, categories, selected)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	m.list.SetItems(items)

	for i, r := range rows {
		if r.Key() == current {
			m.list.Select(i)
			return
		}
	}
	if prev >= len(rows) {
		prev = len(rows) - 1
	}
	if prev >= 0 {
		m.list.Select(prev)
	}
}

// SelectedRow returns the row under the cursor.
func (m Model) SelectedRow() (Row, bool) {
	row, ok := m.list.SelectedItem().(Row)
	return row, ok
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.list.Items())
}

// SetActive marks whether the panel has keyboard focus.
func (m *Model) SetActive(active bool) {
	m.active = active
}

// SetStyles replaces the styles after a palette change.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
	m.list.SetDelegate(ItemDelegate{styles: styles})
}

// SetSize updates the panel dimensions, border included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(max(width-4, 0), max(height-4, 0))
}

// View renders the panel.
func (m Model) View() string {
	style := m.styles.Panel
	if m.active {
		style = m.styles.ActivePanel
	}

	title := m.styles.PanelTitle.Render("Missions")
	body := m.list.View()
	if m.Len() == 0 {
		body = m.styles.Muted.Render("No missions yet. Press n to create one.")
	}

	return style.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
