package missionform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// MissionSubmittedMsg is dispatched when the new-mission form is completed.
type MissionSubmittedMsg struct {
	Title      string
	CategoryID *string
}

// TaskSubmittedMsg is dispatched when the new-task form is completed.
type TaskSubmittedMsg struct {
	MissionID string
	Title     string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// Kind selects what the form creates.
type Kind int

const (
	KindMission Kind = iota
	KindTask
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title      string
	categoryID string
}

// Model is the Bubble Tea model for the mission and task forms.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	kind         Kind
	missionID    string
	missionTitle string
	categories   []model.Category
	styles       theme.Styles
	width        int
	height       int
}

// New creates a new form model.
func New(styles theme.Styles, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		styles: styles,
		width:  width,
		height: height,
	}
}

// StartMission initializes the form for a new mission.
func (m *Model) StartMission(categories []model.Category) tea.Cmd {
	m.kind = KindMission
	m.categories = categories
	m.fb.title = ""
	m.fb.categoryID = ""

	fields := []huh.Field{m.titleField("What's the mission?")}
	if len(categories) > 0 {
		fields = append(fields, m.categoryField())
	}

	m.form = huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

// StartTask initializes the form for a new task under mission.
func (m *Model) StartTask(mission model.Mission) tea.Cmd {
	m.kind = KindTask
	m.missionID = mission.ID
	m.missionTitle = mission.Title
	m.fb.title = ""

	m.form = huh.NewForm(
		huh.NewGroup(m.titleField("What needs to be done?")),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Mission"
	if m.kind == KindTask {
		titleText = "New Task · " + m.missionTitle
	}

	content := m.styles.PanelTitle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles replaces the styles after a palette change.
func (m *Model) SetStyles(styles theme.Styles) {
	m.styles = styles
}

func (m *Model) titleField(placeholder string) huh.Field {
	return huh.NewInput().
		Title("Title").
		Placeholder(placeholder).
		Value(&m.fb.title).
		Validate(validateRequired("Title"))
}

func (m *Model) categoryField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("None", ""),
	}
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return huh.NewSelect[string]().
		Title("Category").
		Options(opts...).
		Value(&m.fb.categoryID)
}

func (m Model) handleSubmit() tea.Cmd {
	title := strings.TrimSpace(m.fb.title)

	if m.kind == KindTask {
		missionID := m.missionID
		return func() tea.Msg { return TaskSubmittedMsg{MissionID: missionID, Title: title} }
	}

	var categoryID *string
	if m.fb.categoryID != "" {
		id := m.fb.categoryID
		categoryID = &id
	}
	return func() tea.Msg { return MissionSubmittedMsg{Title: title, CategoryID: categoryID} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
