package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/tests/testutil"
)

func newTestService(t *testing.T, opts engine.Options) (*engine.Service, *model.User) {
	t.Helper()
	s := testutil.NewTestStore(t)
	u := testutil.NewTestUser(t, s, "alice")
	return engine.NewService(s, opts), u
}

func state(st model.State) *model.State { return &st }

func missionState(t *testing.T, svc *engine.Service, userID, id string) model.State {
	t.Helper()
	m, err := svc.GetMission(context.Background(), userID, id)
	require.NoError(t, err)
	return m.State
}

func TestCreateAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
		require.NoError(t, err)
		assert.Equal(t, i, task.DisplayOrder)
	}
}

func TestMissionAutoCompletesInAnyOrder(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}}
	for _, order := range orders {
		ctx := context.Background()
		svc, u := newTestService(t, engine.Options{})

		m, err := svc.CreateMission(ctx, u.ID, "m", nil)
		require.NoError(t, err)
		var ids []string
		for i := 0; i < 3; i++ {
			task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
			require.NoError(t, err)
			ids = append(ids, task.ID)
		}

		for i, idx := range order {
			_, err := svc.SetTaskState(ctx, u.ID, ids[idx], model.StateCompleted)
			require.NoError(t, err)
			want := model.StateNotStarted
			if i == len(order)-1 {
				want = model.StateCompleted
			}
			assert.Equal(t, want, missionState(t, svc, u.ID, m.ID), "order %v step %d", order, i)
		}

		_, err = svc.SetTaskState(ctx, u.ID, ids[order[0]], model.StateNotStarted)
		require.NoError(t, err)
		assert.Equal(t, model.StateNotStarted, missionState(t, svc, u.ID, m.ID))
	}
}

func TestEmptyMissionNeverAutoCompletes(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "empty", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, m.ID, "only")
	require.NoError(t, err)
	require.NoError(t, svc.CancelTask(ctx, u.ID, task.ID))
	assert.Equal(t, model.StateNotStarted, missionState(t, svc, u.ID, m.ID))

	updated, err := svc.UpdateMission(ctx, u.ID, m.ID, engine.MissionUpdate{State: state(model.StateCompleted)})
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, updated.State)
}

func TestManualMissionStateLeavesTasks(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, u.ID, m.ID, "t")
	require.NoError(t, err)

	updated, err := svc.UpdateMission(ctx, u.ID, m.ID, engine.MissionUpdate{State: state(model.StateCompleted)})
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, updated.State)
	require.Len(t, updated.Tasks, 1)
	assert.Equal(t, model.StateNotStarted, updated.Tasks[0].State)
}

func TestCancelMissionCascades(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	t1, err := svc.CreateTask(ctx, u.ID, m.ID, "t1")
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, u.ID, m.ID, "t2")
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, t1.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelMission(ctx, u.ID, m.ID))

	selected, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, selected)

	missions, err := svc.ListMissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, missions)

	_, err = svc.GetMission(ctx, u.ID, m.ID)
	require.ErrorIs(t, err, engine.ErrNotFound)

	n, err := svc.Store().DeleteSelectedForTask(ctx, t1.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "selected entry should already be gone")
}

func TestReorderRejectsForeignIDs(t *testing.T) {
	ctx := context.Background()
	svc, alice := newTestService(t, engine.Options{})
	bob := testutil.NewTestUser(t, svc.Store(), "bob")

	am, err := svc.CreateMission(ctx, alice.ID, "a", nil)
	require.NoError(t, err)
	bm, err := svc.CreateMission(ctx, bob.ID, "b", nil)
	require.NoError(t, err)

	var aliceEntries []string
	for i := 0; i < 2; i++ {
		task, err := svc.CreateTask(ctx, alice.ID, am.ID, "t")
		require.NoError(t, err)
		v, err := svc.AddSelected(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		aliceEntries = append(aliceEntries, v.ID)
	}
	bt, err := svc.CreateTask(ctx, bob.ID, bm.ID, "t")
	require.NoError(t, err)
	bobEntry, err := svc.AddSelected(ctx, bob.ID, bt.ID)
	require.NoError(t, err)

	_, err = svc.ReorderSelected(ctx, alice.ID, []model.OrderUpdate{
		{ID: aliceEntries[0], DisplayOrder: 10},
		{ID: bobEntry.ID, DisplayOrder: 11},
	})
	require.ErrorIs(t, err, engine.ErrUnauthorized)

	list, err := svc.ListSelected(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].DisplayOrder)
	assert.Equal(t, 2, list[1].DisplayOrder)

	list, err = svc.ReorderSelected(ctx, alice.ID, []model.OrderUpdate{
		{ID: aliceEntries[0], DisplayOrder: 2},
		{ID: aliceEntries[1], DisplayOrder: 1},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, aliceEntries[1], list[0].ID)
	assert.Equal(t, aliceEntries[0], list[1].ID)

	_, err = svc.ReorderSelected(ctx, alice.ID, nil)
	require.ErrorIs(t, err, engine.ErrValidation)
}

func TestResetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
	require.NoError(t, err)
	_, err = svc.SetTaskState(ctx, u.ID, task.ID, model.StateCompleted)
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.NoError(t, err)

	res, err := svc.ResetSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Tasks)

	res, err = svc.ResetSelected(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Tasks)

	list, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StateNotStarted, list[0].State)
}

func TestShipFeatureScenario(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{ReopenMissionsOnReset: false})

	m, err := svc.CreateMission(ctx, u.ID, "Ship feature", nil)
	require.NoError(t, err)
	code, err := svc.CreateTask(ctx, u.ID, m.ID, "Write code")
	require.NoError(t, err)
	tests, err := svc.CreateTask(ctx, u.ID, m.ID, "Write tests")
	require.NoError(t, err)
	assert.Equal(t, 1, code.DisplayOrder)
	assert.Equal(t, 2, tests.DisplayOrder)

	_, err = svc.SetTaskState(ctx, u.ID, code.ID, model.StateCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, missionState(t, svc, u.ID, m.ID))

	_, err = svc.SetTaskState(ctx, u.ID, tests.ID, model.StateCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, missionState(t, svc, u.ID, m.ID))

	view, err := svc.AddSelected(ctx, u.ID, tests.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write tests", view.Title)
	assert.Equal(t, model.StateCompleted, view.State)
	assert.Equal(t, "Ship feature", view.MissionTitle)

	res, err := svc.ResetSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Tasks)
	assert.Zero(t, res.Missions)

	got, err := svc.Store().GetTask(ctx, tests.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, got.State)
	assert.Equal(t, model.StateCompleted, missionState(t, svc, u.ID, m.ID))
}

func TestResetReopensMissionsWhenEnabled(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{ReopenMissionsOnReset: true})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
	require.NoError(t, err)
	_, err = svc.SetTaskState(ctx, u.ID, task.ID, model.StateCompleted)
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, model.StateCompleted, missionState(t, svc, u.ID, m.ID))

	res, err := svc.ResetSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.ResetResult{Tasks: 1, Missions: 1}, res)
	assert.Equal(t, model.StateNotStarted, missionState(t, svc, u.ID, m.ID))
}

func TestAddSelectedTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
	require.NoError(t, err)

	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, task.ID)
	require.ErrorIs(t, err, engine.ErrConflict)

	_, err = svc.AddSelected(ctx, u.ID, "missing")
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCancelTaskRederivesMission(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	done, err := svc.CreateTask(ctx, u.ID, m.ID, "done")
	require.NoError(t, err)
	open, err := svc.CreateTask(ctx, u.ID, m.ID, "open")
	require.NoError(t, err)
	_, err = svc.SetTaskState(ctx, u.ID, done.ID, model.StateCompleted)
	require.NoError(t, err)
	_, err = svc.AddSelected(ctx, u.ID, open.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelTask(ctx, u.ID, open.ID))
	assert.Equal(t, model.StateCompleted, missionState(t, svc, u.ID, m.ID))

	selected, err := svc.ListSelected(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, selected)

	_, err = svc.SetTaskState(ctx, u.ID, open.ID, model.StateCompleted)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCreateTaskReopensCompletedMission(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, u.ID, m.ID, "t")
	require.NoError(t, err)
	_, err = svc.SetTaskState(ctx, u.ID, task.ID, model.StateCompleted)
	require.NoError(t, err)
	require.Equal(t, model.StateCompleted, missionState(t, svc, u.ID, m.ID))

	_, err = svc.CreateTask(ctx, u.ID, m.ID, "more")
	require.NoError(t, err)
	assert.Equal(t, model.StateNotStarted, missionState(t, svc, u.ID, m.ID))
}

func TestDeleteCategoryUncategorizesMissions(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	c, err := svc.CreateCategory(ctx, u.ID, "Work", "#112233")
	require.NoError(t, err)
	m, err := svc.CreateMission(ctx, u.ID, "m", &c.ID)
	require.NoError(t, err)
	require.NotNil(t, m.CategoryID)

	require.NoError(t, svc.DeleteCategory(ctx, u.ID, c.ID))

	got, err := svc.GetMission(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestOwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	svc, alice := newTestService(t, engine.Options{})
	bob := testutil.NewTestUser(t, svc.Store(), "bob")

	c, err := svc.CreateCategory(ctx, alice.ID, "Work", "#112233")
	require.NoError(t, err)
	m, err := svc.CreateMission(ctx, alice.ID, "m", nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, alice.ID, m.ID, "t")
	require.NoError(t, err)
	entry, err := svc.AddSelected(ctx, alice.ID, task.ID)
	require.NoError(t, err)

	_, err = svc.CreateMission(ctx, bob.ID, "steal", &c.ID)
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	_, err = svc.UpdateMission(ctx, bob.ID, m.ID, engine.MissionUpdate{Title: &m.Title})
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	_, err = svc.SetTaskState(ctx, bob.ID, task.ID, model.StateCompleted)
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	_, err = svc.AddSelected(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	assert.ErrorIs(t, svc.RemoveSelected(ctx, bob.ID, entry.ID), engine.ErrUnauthorized)
	assert.ErrorIs(t, svc.CancelMission(ctx, bob.ID, m.ID), engine.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, bob.ID, c.ID), engine.ErrUnauthorized)

	assert.Equal(t, model.StateNotStarted, missionState(t, svc, alice.ID, m.ID))
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	_, err := svc.CreateMission(ctx, u.ID, "   ", nil)
	assert.ErrorIs(t, err, engine.ErrValidation)
	_, err = svc.CreateCategory(ctx, u.ID, "Work", "blue")
	assert.ErrorIs(t, err, engine.ErrValidation)

	bad := "#12345"
	_, err = svc.UpdatePreferences(ctx, u.ID, model.PreferencesPatch{AccentColor: &bad})
	var verr engine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "accent_color", verr.Field)

	m, err := svc.CreateMission(ctx, u.ID, "m", nil)
	require.NoError(t, err)
	_, err = svc.UpdateMission(ctx, u.ID, m.ID, engine.MissionUpdate{State: state("DONE")})
	assert.ErrorIs(t, err, engine.ErrValidation)
}

func TestPreferencesLazyDefaults(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	p, err := svc.GetPreferences(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPrimaryColor, p.PrimaryColor)
	assert.Equal(t, model.DefaultAccentColor, p.AccentColor)

	primary := "#000000"
	p, err = svc.UpdatePreferences(ctx, u.ID, model.PreferencesPatch{PrimaryColor: &primary})
	require.NoError(t, err)
	assert.Equal(t, "#000000", p.PrimaryColor)
	assert.Equal(t, model.DefaultBackgroundBaseColor, p.BackgroundBaseColor)
}

func TestRegisterUserRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, engine.Options{})

	_, err := svc.RegisterUser(ctx, "alice", "hash")
	require.ErrorIs(t, err, engine.ErrValidation)

	u, err := svc.RegisterUser(ctx, " carol ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
}

func TestMovingMissionAppendsToNewCategory(t *testing.T) {
	ctx := context.Background()
	svc, u := newTestService(t, engine.Options{})

	work, err := svc.CreateCategory(ctx, u.ID, "Work", "#112233")
	require.NoError(t, err)
	for _, title := range []string{"a", "b"} {
		_, err := svc.CreateMission(ctx, u.ID, title, &work.ID)
		require.NoError(t, err)
	}
	loose, err := svc.CreateMission(ctx, u.ID, "loose", nil)
	require.NoError(t, err)
	require.Equal(t, 1, loose.DisplayOrder)

	moved, err := svc.UpdateMission(ctx, u.ID, loose.ID, engine.MissionUpdate{CategoryID: &work.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.DisplayOrder)

	// An explicit order wins over the append.
	order := 7
	moved, err = svc.UpdateMission(ctx, u.ID, loose.ID, engine.MissionUpdate{ClearCategory: true, DisplayOrder: &order})
	require.NoError(t, err)
	assert.Nil(t, moved.CategoryID)
	assert.Equal(t, 7, moved.DisplayOrder)

	// Same category keeps the current order.
	title := "renamed"
	moved, err = svc.UpdateMission(ctx, u.ID, loose.ID, engine.MissionUpdate{Title: &title, ClearCategory: true})
	require.NoError(t, err)
	assert.Equal(t, 7, moved.DisplayOrder)
}
