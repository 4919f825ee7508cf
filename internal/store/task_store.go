package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/missionboard/internal/model"
)

const taskColumns = "id, mission_id, title, state, display_order, cancelled_at, created_at"

// CreateTask inserts a new task. Generates a UUID if ID is empty and appends
// it to the mission's live tasks when DisplayOrder is zero.
func (s *SQLStore) CreateTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now().UTC()
	if t.State == "" {
		t.State = model.StateNotStarted
	}

	if t.DisplayOrder == 0 {
		order, err := s.NextOrder(ctx, TaskScope(t.MissionID))
		if err != nil {
			return err
		}
		t.DisplayOrder = order
	}

	_, err := s.exec(ctx, `
		INSERT INTO tasks (id, mission_id, title, state, display_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.MissionID, t.Title, t.State, t.DisplayOrder, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// GetTask returns the task with the given ID, cancelled or not.
func (s *SQLStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	err := s.get(ctx, &t, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns a mission's live tasks ordered by display_order then
// creation time.
func (s *SQLStore) ListTasks(ctx context.Context, missionID string) ([]model.Task, error) {
	var tasks []model.Task
	err := s.selectAll(ctx, &tasks, `
		SELECT `+taskColumns+` FROM tasks
		WHERE mission_id = ? AND cancelled_at IS NULL
		ORDER BY display_order ASC, created_at ASC`, missionID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for mission %s: %w", missionID, err)
	}
	return tasks, nil
}

// ListTasksForMissions returns the live tasks of every given mission in one
// query, ordered within each mission like ListTasks.
func (s *SQLStore) ListTasksForMissions(ctx context.Context, missionIDs []string) ([]model.Task, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	query, args, err := s.in(`
		SELECT `+taskColumns+` FROM tasks
		WHERE mission_id IN (?) AND cancelled_at IS NULL
		ORDER BY mission_id, display_order ASC, created_at ASC`, missionIDs)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := s.selectAll(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("listing tasks for missions: %w", err)
	}
	return tasks, nil
}

// UpdateTask writes title, state, and display order.
func (s *SQLStore) UpdateTask(ctx context.Context, t model.Task) error {
	err := s.execAffected(ctx, `
		UPDATE tasks SET title = ?, state = ?, display_order = ?
		WHERE id = ?`,
		t.Title, t.State, t.DisplayOrder, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	return nil
}

// CancelTask soft-deletes a task.
func (s *SQLStore) CancelTask(ctx context.Context, id string, at time.Time) error {
	err := s.execAffected(ctx, "UPDATE tasks SET cancelled_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("cancelling task %s: %w", id, err)
	}
	return nil
}
