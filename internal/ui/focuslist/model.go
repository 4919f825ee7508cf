package focuslist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/missionboard/internal/keys"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// Model is the focus panel: the user's selected tasks in manual order.
type Model struct {
	list    list.Model
	entries []model.SelectedTaskView
	keys    *keys.KeyMap
	styles  theme.Styles
	active  bool
	width   int
	height  int
}

// New creates a new focus panel.
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

// SetEntries replaces the focus list, keeping the cursor on the same entry
// when it still exists.
func (m *Model) SetEntries(entries []model.SelectedTaskView) {
	current := ""
	if e, ok := m.SelectedEntry(); ok {
		current = e.ID
	}
	prev := m.list.Index()

	m.entries = append([]model.SelectedTaskView(nil), entries...)
	m.syncItems()

	for i, e := range m.entries {
		if e.ID == current {
			m.list.Select(i)
			return
		}
	}
	if prev >= len(m.entries) {
		prev = len(m.entries) - 1
	}
	if prev >= 0 {
		m.list.Select(prev)
	}
}

// Entries returns the entries in display order.
func (m Model) Entries() []model.SelectedTaskView {
	return m.entries
}

// SelectedEntry returns the entry under the cursor.
func (m Model) SelectedEntry() (model.SelectedTaskView, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it.Entry, ok
}

// Move shifts the entry under the cursor by delta positions and renumbers
// the whole list from 1. It returns the order updates to persist, or false
// when the move would leave the list.
func (m *Model) Move(delta int) ([]model.OrderUpdate, bool) {
	i := m.list.Index()
	j := i + delta
	if i < 0 || i >= len(m.entries) || j < 0 || j >= len(m.entries) {
		return nil, false
	}

	m.entries[i], m.entries[j] = m.entries[j], m.entries[i]
	updates := make([]model.OrderUpdate, len(m.entries))
	for k := range m.entries {
		m.entries[k].DisplayOrder = k + 1
		updates[k] = model.OrderUpdate{ID: m.entries[k].ID, DisplayOrder: k + 1}
	}

	m.syncItems()
	m.list.Select(j)
	return updates, true
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

	title := m.styles.PanelTitle.Render("Today's Focus")
	body := m.list.View()
	if len(m.entries) == 0 {
		body = m.styles.Muted.Render("Nothing selected. Press s on a task.")
	}

	return style.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m *Model) syncItems() {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
}
