package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/missionboard/internal/model"
)

var (
	// ErrNotFound is returned when a lookup or targeted update matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// Store defines the persistence interface for users, categories, missions,
// tasks, selected tasks, and user preferences.
//
// Every method runs against the session the Store is bound to. Inside
// RunAtomic that session is a transaction; callers must use only the Store
// handed to fn while it runs.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// === Categories ===

	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// === Missions ===

	CreateMission(ctx context.Context, m *model.Mission) error
	GetMission(ctx context.Context, id string) (*model.Mission, error)
	ListMissions(ctx context.Context, userID string) ([]model.Mission, error)
	UpdateMission(ctx context.Context, m model.Mission) error
	SetMissionState(ctx context.Context, id string, state model.State) error
	CancelMission(ctx context.Context, id string, at time.Time) error

	// === Tasks ===

	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, missionID string) ([]model.Task, error)
	ListTasksForMissions(ctx context.Context, missionIDs []string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	CancelTask(ctx context.Context, id string, at time.Time) error

	// === Selected tasks ===

	CreateSelected(ctx context.Context, st *model.SelectedTask) error
	GetSelected(ctx context.Context, id string) (*model.SelectedTask, error)
	FindSelected(ctx context.Context, userID, taskID string) (*model.SelectedTask, error)
	DeleteSelected(ctx context.Context, id string) error
	DeleteSelectedForTask(ctx context.Context, taskID string) (int64, error)
	DeleteSelectedForMission(ctx context.Context, missionID string) (int64, error)
	ListSelected(ctx context.Context, userID string) ([]model.SelectedTaskView, error)
	GetSelectedView(ctx context.Context, id string) (*model.SelectedTaskView, error)
	OwnedSelectedIDs(ctx context.Context, userID string, ids []string) (map[string]bool, error)
	SetSelectedOrder(ctx context.Context, updates []model.OrderUpdate) error

	// === Daily reset ===

	ListSelectedCompletedMissionIDs(ctx context.Context) ([]string, error)
	ResetSelectedCompleted(ctx context.Context) (int64, error)
	ReopenMissions(ctx context.Context, ids []string) (int64, error)

	// === Preferences ===

	GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error)
	CreatePreferences(ctx context.Context, p *model.UserPreferences) error
	UpdatePreferences(ctx context.Context, p model.UserPreferences) error

	// === Ordering ===

	NextOrder(ctx context.Context, scope OrderScope) (int, error)

	// === Lifecycle ===

	// RunAtomic runs fn inside a single transaction. The Store passed to fn
	// is bound to that transaction; if fn returns an error every change is
	// rolled back. Calling RunAtomic on a transaction-bound Store joins the
	// outer transaction.
	RunAtomic(ctx context.Context, fn func(Store) error) error
	SchemaVersion(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
