package model

import "time"

// SelectedTask places a task in its owner's focus list.
type SelectedTask struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	TaskID       string    `json:"task_id" db:"task_id"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SelectedTaskView is a focus-list entry joined with live task and mission
// data. Title, State, and MissionTitle are never stored on the entry.
type SelectedTaskView struct {
	SelectedTask

	Title        string `json:"title" db:"title"`
	State        State  `json:"state" db:"state"`
	MissionID    string `json:"mission_id" db:"mission_id"`
	MissionTitle string `json:"mission_title" db:"mission_title"`
}

// OrderUpdate assigns a display order to a focus-list entry.
type OrderUpdate struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"display_order"`
}
