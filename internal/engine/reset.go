package engine

import (
	"context"

	"github.com/nhle/missionboard/internal/store"
)

// ResetResult reports what one daily reset changed.
type ResetResult struct {
	Tasks    int64 `json:"tasks"`
	Missions int64 `json:"missions"`
}

// ResetSelected moves every COMPLETED task that sits in any user's focus
// list back to NOT_STARTED, as one transaction. With ReopenMissionsOnReset
// the completed missions owning those tasks are reopened too. Running it
// again finds nothing to change.
func (s *Service) ResetSelected(ctx context.Context) (ResetResult, error) {
	var res ResetResult
	err := s.store.RunAtomic(ctx, func(st store.Store) error {
		var missionIDs []string
		if s.opts.ReopenMissionsOnReset {
			ids, err := st.ListSelectedCompletedMissionIDs(ctx)
			if err != nil {
				return err
			}
			missionIDs = ids
		}

		n, err := st.ResetSelectedCompleted(ctx)
		if err != nil {
			return err
		}
		res.Tasks = n

		if len(missionIDs) > 0 {
			if res.Missions, err = st.ReopenMissions(ctx, missionIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ResetResult{}, err
	}
	return res, nil
}
