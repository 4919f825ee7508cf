package model

import "time"

// Mission is a top-level unit of work, optionally categorized, containing
// zero or more tasks. Missions are cancelled rather than deleted.
type Mission struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	CategoryID   *string    `json:"category_id" db:"category_id"`
	Title        string     `json:"title" db:"title"`
	State        State      `json:"state" db:"state"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	// CategoryOrder is populated by listing queries that join categories.
	CategoryOrder *int `json:"-" db:"category_order"`

	// Tasks holds the mission's non-cancelled tasks when loaded for display.
	Tasks []Task `json:"tasks,omitempty" db:"-"`
}

// IsCompleted reports whether the mission is in the COMPLETED state.
func (m Mission) IsCompleted() bool { return m.State == StateCompleted }

// IsCancelled reports whether the mission has been soft-deleted.
func (m Mission) IsCancelled() bool { return m.CancelledAt != nil }

// DeriveState returns the state implied by a mission's non-cancelled tasks:
// COMPLETED iff there is at least one task and every task is COMPLETED.
func DeriveState(tasks []Task) State {
	if len(tasks) == 0 {
		return StateNotStarted
	}
	for _, t := range tasks {
		if !t.IsCompleted() {
			return StateNotStarted
		}
	}
	return StateCompleted
}
