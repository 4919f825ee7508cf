package engine

import (
	"context"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/store"
)

// MissionUpdate carries optional mission changes. Nil fields are unchanged.
// Setting State is the manual path: it overrides the derived state and
// leaves the mission's tasks untouched.
type MissionUpdate struct {
	Title *string
	// CategoryID moves the mission into a category.
	CategoryID *string
	// ClearCategory moves the mission to the uncategorized group.
	ClearCategory bool
	State         *model.State
	DisplayOrder  *int
}

// ListMissions returns the user's live missions, each with its live tasks.
func (s *Service) ListMissions(ctx context.Context, userID string) ([]model.Mission, error) {
	missions, err := s.store.ListMissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := attachTasks(ctx, s.store, missions); err != nil {
		return nil, err
	}
	return missions, nil
}

// GetMission returns one live mission with its live tasks.
func (s *Service) GetMission(ctx context.Context, userID, id string) (*model.Mission, error) {
	m, err := ownedMission(ctx, s.store, userID, id)
	if err != nil {
		return nil, err
	}
	if m.Tasks, err = s.store.ListTasks(ctx, m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMission appends a NOT_STARTED mission to the user's list, optionally
// inside one of the user's categories.
func (s *Service) CreateMission(ctx context.Context, userID, title string, categoryID *string) (*model.Mission, error) {
	title, err := normalizeTitle("title", title)
	if err != nil {
		return nil, err
	}
	if categoryID != nil && *categoryID == "" {
		categoryID = nil
	}

	m := &model.Mission{UserID: userID, CategoryID: categoryID, Title: title}
	err = s.store.RunAtomic(ctx, func(st store.Store) error {
		if categoryID != nil {
			if _, err := ownedCategory(ctx, st, userID, *categoryID); err != nil {
				return err
			}
		}
		return st.CreateMission(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	m.Tasks = []model.Task{}
	return m, nil
}

// UpdateMission applies upd and returns the mission with its live tasks.
func (s *Service) UpdateMission(ctx context.Context, userID, id string, upd MissionUpdate) (*model.Mission, error) {
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

	var out *model.Mission
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		m, err := ownedMission(ctx, st, userID, id)
		if err != nil {
			return err
		}
		prevCategory := m.CategoryID
		switch {
		case upd.ClearCategory:
			m.CategoryID = nil
		case upd.CategoryID != nil && *upd.CategoryID == "":
			m.CategoryID = nil
		case upd.CategoryID != nil:
			if _, err := ownedCategory(ctx, st, userID, *upd.CategoryID); err != nil {
				return err
			}
			m.CategoryID = upd.CategoryID
		}
		if upd.Title != nil {
			m.Title = *upd.Title
		}
		if upd.State != nil {
			m.State = *upd.State
		}
		if upd.DisplayOrder != nil {
			m.DisplayOrder = *upd.DisplayOrder
		} else if !sameCategory(prevCategory, m.CategoryID) {
			// A moved mission goes to the end of its new group.
			if m.DisplayOrder, err = st.NextOrder(ctx, store.MissionScope(userID, m.CategoryID)); err != nil {
				return err
			}
		}
		if err := st.UpdateMission(ctx, *m); err != nil {
			return err
		}

		if m.Tasks, err = st.ListTasks(ctx, m.ID); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CancelMission soft-deletes a mission and removes all of its tasks from
// every focus list. The tasks themselves are left as they are.
func (s *Service) CancelMission(ctx context.Context, userID, id string) error {
	return s.store.RunAtomic(ctx, func(st store.Store) error {
		if _, err := ownedMission(ctx, st, userID, id); err != nil {
			return err
		}
		if err := st.CancelMission(ctx, id, s.opts.Now()); err != nil {
			return err
		}
		_, err := st.DeleteSelectedForMission(ctx, id)
		return err
	})
}

// attachTasks loads the live tasks of every mission in one query.
func attachTasks(ctx context.Context, st store.Store, missions []model.Mission) error {
	if len(missions) == 0 {
		return nil
	}
	ids := make([]string, len(missions))
	for i, m := range missions {
		ids[i] = m.ID
	}
	tasks, err := st.ListTasksForMissions(ctx, ids)
	if err != nil {
		return err
	}

	byMission := make(map[string][]model.Task, len(missions))
	for _, t := range tasks {
		byMission[t.MissionID] = append(byMission[t.MissionID], t)
	}
	for i := range missions {
		missions[i].Tasks = byMission[missions[i].ID]
		if missions[i].Tasks == nil {
			missions[i].Tasks = []model.Task{}
		}
	}
	return nil
}
