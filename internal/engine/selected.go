package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// ListSelected returns the user's focus list joined with live task and
// mission data. Cancelled tasks and missions are excluded.
func (s *Service) ListSelected(ctx context.Context, userID string) ([]model.SelectedTaskView, error) {
	views, err := s.store.ListSelected(ctx, userID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.SelectedTaskView{}
	}
	return views, nil
}

// AddSelected appends one of the user's live tasks to their focus list.
// A task already in the list yields ErrConflict.
func (s *Service) AddSelected(ctx context.Context, userID, taskID string) (*model.SelectedTaskView, error) {
	if taskID == "" {
		return nil, ValidationError{Field: "task_id", Msg: "is required"}
	}

	var out *model.SelectedTaskView
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		if _, _, err := ownedTask(ctx, st, userID, taskID); err != nil {
			return err
		}

		_, err := st.FindSelected(ctx, userID, taskID)
		switch {
		case err == nil:
			return fmt.Errorf("task %s already selected: %w", taskID, ErrConflict)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		entry := &model.SelectedTask{UserID: userID, TaskID: taskID}
		if err := st.CreateSelected(ctx, entry); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("task %s already selected: %w", taskID, ErrConflict)
			}
			return err
		}

		out, err = st.GetSelectedView(ctx, entry.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveSelected drops one entry from the user's focus list.
func (s *Service) RemoveSelected(ctx context.Context, userID, id string) error {
	return s.store.RunAtomic(ctx, func(st store.Store) error {
		entry, err := st.GetSelected(ctx, id)
		if err != nil {
			return err
		}
		if entry.UserID != userID {
			return unauthorized("selected task", id)
		}
		return st.DeleteSelected(ctx, id)
	})
}

// ReorderSelected assigns display orders to focus-list entries as one unit.
// If any ID is not one of the user's entries the whole batch is rejected
// with ErrUnauthorized and nothing changes. Returns the refreshed list.
func (s *Service) ReorderSelected(ctx context.Context, userID string, updates []model.OrderUpdate) ([]model.SelectedTaskView, error) {
	if len(updates) == 0 {
		return nil, ValidationError{Field: "tasks", Msg: "must not be empty"}
	}
	ids := make([]string, len(updates))
	for i, u := range updates {
		if u.ID == "" {
			return nil, ValidationError{Field: "tasks", Msg: "entries must have an id"}
		}
		ids[i] = u.ID
	}

	var out []model.SelectedTaskView
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		owned, err := st.OwnedSelectedIDs(ctx, userID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !owned[id] {
				return fmt.Errorf("some selected tasks do not belong to you: %w", ErrUnauthorized)
			}
		}

		if err := st.SetSelectedOrder(ctx, updates); err != nil {
			return err
		}

		out, err = st.ListSelected(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.SelectedTaskView{}
	}
	return out, nil
}
