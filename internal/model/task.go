package model

import "time"

// State is the completion state shared by missions and tasks.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateCompleted  State = "COMPLETED"
)

// Valid reports whether s is one of the known completion states.
func (s State) Valid() bool {
	return s == StateNotStarted || s == StateCompleted
}

// Task is a sub-unit of work belonging to exactly one mission.
// Ownership is the owning mission's user.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id" db:"id"`

	// MissionID links the task to its parent mission.
	MissionID string `json:"mission_id" db:"mission_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// State is NOT_STARTED or COMPLETED.
	State State `json:"state" db:"state"`

	// DisplayOrder sorts the task among its siblings; ties break on CreatedAt.
	DisplayOrder int `json:"display_order" db:"display_order"`

	// CancelledAt is set when the task is soft-deleted.
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsCompleted reports whether the task is in the COMPLETED state.
func (t Task) IsCompleted() bool { return t.State == StateCompleted }

// IsCancelled reports whether the task has been soft-deleted.
func (t Task) IsCancelled() bool { return t.CancelledAt != nil }
