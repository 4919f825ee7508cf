package focuslist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

// Item wraps a focus-list entry so it can be used in a bubbles/list.
type Item struct {
	Entry model.SelectedTaskView
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Entry.Title }

// ItemDelegate renders focus entries on two lines: the task title, then the
// mission it belongs to.
type ItemDelegate struct {
	styles theme.Styles
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single focus entry.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	marker := "○"
	title := it.Entry.Title
	if it.Entry.State == model.StateCompleted {
		marker = "✓"
		title = d.styles.Completed.Render(title)
	}

	line := fmt.Sprintf("%d. %s %s\n   %s",
		index+1, marker, title,
		d.styles.Muted.Render(it.Entry.MissionTitle),
	)

	if index == m.Index() {
		line = d.styles.SelectedItem.Render(line)
	} else {
		line = d.styles.ListItem.Render(line)
	}

	fmt.Fprint(w, line)
}
