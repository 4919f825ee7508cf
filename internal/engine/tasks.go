package engine

import (
	"context"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// TaskUpdate carries optional task changes. Nil fields are unchanged.
type TaskUpdate struct {
	Title        *string
	State        *model.State
	DisplayOrder *int
}

// CreateTask appends a NOT_STARTED task to a mission. A COMPLETED mission is
// reopened, since it now has an open task.
func (s *Service) CreateTask(ctx context.Context, userID, missionID, title string) (*model.Task, error) {
	title, err := normalizeTitle("title", title)
	if err != nil {
		return nil, err
	}

	t := &model.Task{MissionID: missionID, Title: title, State: model.StateNotStarted}
	err = s.store.RunAtomic(ctx, func(st store.Store) error {
		m, err := ownedMission(ctx, st, userID, missionID)
		if err != nil {
			return err
		}
		if err := st.CreateTask(ctx, t); err != nil {
			return err
		}
		return syncMissionState(ctx, st, m, model.StateNotStarted)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies upd and, when the state is set, re-derives the parent
// mission's state in the same transaction. It returns the task as stored.
func (s *Service) UpdateTask(ctx context.Context, userID, id string, upd TaskUpdate) (*model.Task, error) {
	if upd.Title != nil {
		title, err := normalizeTitle("title", *upd.Title)
		if err != nil {
			return nil, err
		}
		upd.Title = &title
	}
	if upd.State != nil {
		if err := validateState(*upd.State); err != nil {
			return nil, err
		}
	}

	var out *model.Task
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		t, m, err := ownedTask(ctx, st, userID, id)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.State != nil {
			t.State = *upd.State
		}
		if upd.DisplayOrder != nil {
			t.DisplayOrder = *upd.DisplayOrder
		}
		if err := st.UpdateTask(ctx, *t); err != nil {
			return err
		}

		if upd.State != nil {
			if err := syncMissionState(ctx, st, m, *upd.State); err != nil {
				return err
			}
		}

		out, err = st.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetTaskState is UpdateTask restricted to the state field.
func (s *Service) SetTaskState(ctx context.Context, userID, id string, state model.State) (*model.Task, error) {
	return s.UpdateTask(ctx, userID, id, TaskUpdate{State: &state})
}

// CancelTask soft-deletes a task, removes it from every focus list, and
// completes the mission if every remaining live task is COMPLETED.
func (s *Service) CancelTask(ctx context.Context, userID, id string) error {
	return s.store.RunAtomic(ctx, func(st store.Store) error {
		_, m, err := ownedTask(ctx, st, userID, id)
		if err != nil {
			return err
		}
		if err := st.CancelTask(ctx, id, s.opts.Now()); err != nil {
			return err
		}
		if _, err := st.DeleteSelectedForTask(ctx, id); err != nil {
			return err
		}
		return syncMissionState(ctx, st, m, model.StateCompleted)
	})
}

// syncMissionState applies the derived mission rule after a task moved to
// state. COMPLETED completes the mission when its live tasks are non-empty
// and all COMPLETED. NOT_STARTED reopens a COMPLETED mission.
func syncMissionState(ctx context.Context, st store.Store, m *model.Mission, state model.State) error {
	switch state {
	case model.StateCompleted:
		if m.IsCompleted() {
			return nil
		}
		tasks, err := st.ListTasks(ctx, m.ID)
		if err != nil {
			return err
		}
		if model.DeriveState(tasks) != model.StateCompleted {
			return nil
		}
		m.State = model.StateCompleted
	case model.StateNotStarted:
		if !m.IsCompleted() {
			return nil
		}
		m.State = model.StateNotStarted
	default:
		return nil
	}
	return st.SetMissionState(ctx, m.ID, m.State)
}
