package missionlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// RowKind distinguishes mission rows from the task rows nested under them.
type RowKind int

const (
	MissionRow RowKind = iota
	TaskRow
)

// Row is one line of the mission panel: either a mission header or one of
// its tasks.
type Row struct {
	Kind     RowKind
	Mission  model.Mission
	Task     model.Task
	Category *model.Category
	// Focused is set on task rows already in the focus list.
	Focused bool
}

// Key identifies the row across reloads.
func (r Row) Key() string {
	if r.Kind == TaskRow {
		return "t:" + r.Task.ID
	}
	return "m:" + r.Mission.ID
}

// FilterValue returns the string used for fuzzy filtering.
func (r Row) FilterValue() string {
	if r.Kind == TaskRow {
		return r.Task.Title
	}
	return r.Mission.Title
}

// BuildRows flattens missions and their tasks into panel rows. Task rows
// follow their mission in display order.
func BuildRows(
	missions []model.Mission,
	categories []model.Category,
	selected []model.SelectedTaskView,
) []Row {
	byID := make(map[string]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	focused := make(map[string]bool, len(selected))
	for _, s := range selected {
		focused[s.TaskID] = true
	}

	var rows []Row
	for _, m := range missions {
		var cat *model.Category
		if m.CategoryID != nil {
			cat = byID[*m.CategoryID]
		}
		tasks := m.Tasks
		m.Tasks = nil
		rows = append(rows, Row{Kind: MissionRow, Mission: m, Category: cat})
		for _, t := range tasks {
			rows = append(rows, Row{
				Kind:     TaskRow,
				Mission:  m,
				Task:     t,
				Category: cat,
				Focused:  focused[t.ID],
			})
		}
	}
	return rows
}

// ItemDelegate implements list.ItemDelegate for mission panel rows.
type ItemDelegate struct {
	styles theme.Styles
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}

	var line string
	switch row.Kind {
	case MissionRow:
		line = d.renderMission(row)
	case TaskRow:
		line = d.renderTask(row)
	}

	if index == m.Index() {
		line = d.styles.SelectedItem.Render(line)
	} else {
		line = d.styles.ListItem.Render(line)
	}

	fmt.Fprint(w, line)
}

func (d ItemDelegate) renderMission(row Row) string {
	marker := "●"
	title := d.styles.Accent.Render(row.Mission.Title)
	if row.Mission.IsCompleted() {
		marker = "✓"
		title = d.styles.Completed.Render(row.Mission.Title)
	}

	badge := ""
	if row.Category != nil {
		badge = " " + d.styles.CategoryBadge(row.Category.Name, row.Category.Color)
	}

	return fmt.Sprintf("%s %s%s", marker, title, badge)
}

func (d ItemDelegate) renderTask(row Row) string {
	marker := "○"
	title := row.Task.Title
	if row.Task.IsCompleted() {
		marker = "✓"
		title = d.styles.Completed.Render(title)
	}

	star := ""
	if row.Focused {
		star = d.styles.Accent.Render(" ★")
	}

	return fmt.Sprintf("   %s %s%s", marker, title, star)
}
