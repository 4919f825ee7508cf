package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/missionboard/internal/model"
)

const selectedColumns = "id, user_id, task_id, display_order, created_at"

// selectedViewQuery joins focus-list entries with their live task and
// mission. Entries whose task or mission is cancelled are excluded.
const selectedViewQuery = `
	SELECT st.id, st.user_id, st.task_id, st.display_order, st.created_at,
		t.title, t.state, t.mission_id, m.title AS mission_title
	FROM selected_tasks st
	JOIN tasks t ON t.id = st.task_id
	JOIN missions m ON m.id = t.mission_id
	WHERE t.cancelled_at IS NULL AND m.cancelled_at IS NULL`

// CreateSelected inserts a focus-list entry. Generates a UUID if ID is empty
// and appends it to the user's list when DisplayOrder is zero. Returns
// ErrDuplicate when the task is already in the user's list.
func (s *SQLStore) CreateSelected(ctx context.Context, st *model.SelectedTask) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	st.CreatedAt = time.Now().UTC()

	if st.DisplayOrder == 0 {
		order, err := s.NextOrder(ctx, SelectedScope(st.UserID))
		if err != nil {
			return err
		}
		st.DisplayOrder = order
	}

	_, err := s.exec(ctx, `
		INSERT INTO selected_tasks (id, user_id, task_id, display_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		st.ID, st.UserID, st.TaskID, st.DisplayOrder, st.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("selecting task %s: %w", st.TaskID, ErrDuplicate)
		}
		return fmt.Errorf("creating selected task: %w", err)
	}
	return nil
}

// GetSelected returns the focus-list entry with the given ID.
func (s *SQLStore) GetSelected(ctx context.Context, id string) (*model.SelectedTask, error) {
	var st model.SelectedTask
	err := s.get(ctx, &st, "SELECT "+selectedColumns+" FROM selected_tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting selected task %s: %w", id, err)
	}
	return &st, nil
}

// FindSelected returns the user's entry for taskID, or ErrNotFound.
func (s *SQLStore) FindSelected(ctx context.Context, userID, taskID string) (*model.SelectedTask, error) {
	var st model.SelectedTask
	err := s.get(ctx, &st, `
		SELECT `+selectedColumns+` FROM selected_tasks
		WHERE user_id = ? AND task_id = ?`, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("finding selected task for %s: %w", taskID, err)
	}
	return &st, nil
}

// DeleteSelected removes one focus-list entry.
func (s *SQLStore) DeleteSelected(ctx context.Context, id string) error {
	err := s.execAffected(ctx, "DELETE FROM selected_tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting selected task %s: %w", id, err)
	}
	return nil
}

// DeleteSelectedForTask removes every focus-list entry referencing taskID.
func (s *SQLStore) DeleteSelectedForTask(ctx context.Context, taskID string) (int64, error) {
	result, err := s.exec(ctx, "DELETE FROM selected_tasks WHERE task_id = ?", taskID)
	if err != nil {
		return 0, fmt.Errorf("removing task %s from selected lists: %w", taskID, err)
	}
	return result.RowsAffected()
}

// DeleteSelectedForMission removes every focus-list entry referencing any
// task of missionID.
func (s *SQLStore) DeleteSelectedForMission(ctx context.Context, missionID string) (int64, error) {
	result, err := s.exec(ctx, `
		DELETE FROM selected_tasks
		WHERE task_id IN (SELECT id FROM tasks WHERE mission_id = ?)`, missionID)
	if err != nil {
		return 0, fmt.Errorf("removing mission %s tasks from selected lists: %w", missionID, err)
	}
	return result.RowsAffected()
}

// ListSelected returns the user's focus list joined with live task data,
// ordered by display_order then creation time.
func (s *SQLStore) ListSelected(ctx context.Context, userID string) ([]model.SelectedTaskView, error) {
	var views []model.SelectedTaskView
	err := s.selectAll(ctx, &views, selectedViewQuery+`
		AND st.user_id = ?
		ORDER BY st.display_order ASC, st.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing selected tasks: %w", err)
	}
	return views, nil
}

// GetSelectedView returns one focus-list entry joined with live task data.
func (s *SQLStore) GetSelectedView(ctx context.Context, id string) (*model.SelectedTaskView, error) {
	var v model.SelectedTaskView
	if err := s.get(ctx, &v, selectedViewQuery+" AND st.id = ?", id); err != nil {
		return nil, fmt.Errorf("getting selected task %s: %w", id, err)
	}
	return &v, nil
}

// OwnedSelectedIDs returns which of ids are focus-list entries of userID.
func (s *SQLStore) OwnedSelectedIDs(ctx context.Context, userID string, ids []string) (map[string]bool, error) {
	owned := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}
	query, args, err := s.in(
		"SELECT id FROM selected_tasks WHERE user_id = ? AND id IN (?)", userID, ids)
	if err != nil {
		return nil, err
	}
	var found []string
	if err := s.selectAll(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("checking selected task ownership: %w", err)
	}
	for _, id := range found {
		owned[id] = true
	}
	return owned, nil
}

// SetSelectedOrder applies each display order update. Run it inside
// RunAtomic so a partial batch never commits.
func (s *SQLStore) SetSelectedOrder(ctx context.Context, updates []model.OrderUpdate) error {
	for _, u := range updates {
		err := s.execAffected(ctx,
			"UPDATE selected_tasks SET display_order = ? WHERE id = ?", u.DisplayOrder, u.ID)
		if err != nil {
			return fmt.Errorf("reordering selected task %s: %w", u.ID, err)
		}
	}
	return nil
}

// ListSelectedCompletedMissionIDs returns the distinct missions owning a
// COMPLETED task that sits in any focus list.
func (s *SQLStore) ListSelectedCompletedMissionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.selectAll(ctx, &ids, `
		SELECT DISTINCT t.mission_id FROM tasks t
		WHERE t.state = ? AND t.id IN (SELECT task_id FROM selected_tasks)`,
		model.StateCompleted)
	if err != nil {
		return nil, fmt.Errorf("listing missions of selected completed tasks: %w", err)
	}
	return ids, nil
}

// ResetSelectedCompleted moves every COMPLETED task that sits in any focus
// list back to NOT_STARTED and returns how many changed.
func (s *SQLStore) ResetSelectedCompleted(ctx context.Context) (int64, error) {
	result, err := s.exec(ctx, `
		UPDATE tasks SET state = ?
		WHERE state = ? AND id IN (SELECT task_id FROM selected_tasks)`,
		model.StateNotStarted, model.StateCompleted)
	if err != nil {
		return 0, fmt.Errorf("resetting selected tasks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
