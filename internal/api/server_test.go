package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/missionboard/internal/auth"
	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/scheduler"
	"github.com/nhle/missionboard/tests/testutil"
)

type testServer struct {
	t      *testing.T
	server *Server
	svc    *engine.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := testutil.NewTestStore(t)
	svc := engine.NewService(s, engine.Options{ReopenMissionsOnReset: true})
	tokens := auth.NewTokens([]byte("test-signing-key-0123456789abcdef"), time.Hour)
	job := scheduler.New(svc, scheduler.Config{Hour: 5})

	return &testServer{
		t:      t,
		server: NewServer(svc, tokens, job, Config{AdminUsers: []string{"root"}}),
		svc:    svc,
	}
}

// do sends a JSON request and decodes the response body into out when non-nil.
func (ts *testServer) do(method, path, token string, body any, out any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	if out != nil {
		require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func (ts *testServer) register(username string) string {
	ts.t.Helper()
	var resp authResponse
	w := ts.do(http.MethodPost, "/api/auth/register", "", credentialsRequest{
		Username: username,
		Password: "hunter22",
	}, &resp)
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(ts.t, resp.Token)
	return resp.Token
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	var me struct {
		User model.User `json:"user"`
	}
	w := ts.do(http.MethodGet, "/api/auth/me", token, nil, &me)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", me.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	var login authResponse
	w = ts.do(http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "hunter22"}, &login)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, me.User.ID, login.User.ID)

	w = ts.do(http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "nobody", Password: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/register", "", credentialsRequest{Username: "alice", Password: "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "already exists")

	w = ts.do(http.MethodPost, "/api/auth/register", "", credentialsRequest{Username: "bob"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/missions", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/missions", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissionAndTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	var mission model.Mission
	w := ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "Ship feature"}, &mission)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.StateNotStarted, mission.State)
	assert.Equal(t, 1, mission.DisplayOrder)

	var t1, t2 model.Task
	w = ts.do(http.MethodPost, "/api/missions/"+mission.ID+"/tasks", token, createTaskRequest{Title: "Write code"}, &t1)
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(http.MethodPost, "/api/missions/"+mission.ID+"/tasks", token, createTaskRequest{Title: "Review"}, &t2)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, t2.DisplayOrder)

	completed := model.StateCompleted
	for _, id := range []string{t1.ID, t2.ID} {
		w = ts.do(http.MethodPut, "/api/missions/tasks/"+id, token, updateTaskRequest{State: &completed}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var missions []model.Mission
	w = ts.do(http.MethodGet, "/api/missions", token, nil, &missions)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, missions, 1)
	assert.Equal(t, model.StateCompleted, missions[0].State)
	assert.Len(t, missions[0].Tasks, 2)

	w = ts.do(http.MethodDelete, "/api/missions/tasks/"+t2.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodDelete, "/api/missions/"+mission.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	missions = nil
	ts.do(http.MethodGet, "/api/missions", token, nil, &missions)
	assert.Empty(t, missions)

	w = ts.do(http.MethodPut, "/api/missions/"+mission.ID, token, map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	w := ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var mission model.Mission
	ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "m"}, &mission)

	w = ts.do(http.MethodPut, "/api/missions/"+mission.ID, token, map[string]string{"state": "DONE"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/categories", token, createCategoryRequest{Name: "Work", Color: "red"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/user/preferences", token, map[string]string{"accent_color": "#12345"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryAssignmentAndClear(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	var cat model.Category
	w := ts.do(http.MethodPost, "/api/categories", token, createCategoryRequest{Name: "Work", Color: "#5A9AA8"}, &cat)
	require.Equal(t, http.StatusCreated, w.Code)

	var mission model.Mission
	ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "m", CategoryID: &cat.ID}, &mission)
	require.NotNil(t, mission.CategoryID)
	assert.Equal(t, cat.ID, *mission.CategoryID)

	// Absent category_id leaves the category alone.
	w = ts.do(http.MethodPut, "/api/missions/"+mission.ID, token, map[string]any{"title": "renamed"}, &mission)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mission.CategoryID)
	assert.Equal(t, "renamed", mission.Title)

	// Explicit null clears it.
	w = ts.do(http.MethodPut, "/api/missions/"+mission.ID, token, map[string]any{"category_id": nil}, &mission)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mission.CategoryID)

	w = ts.do(http.MethodPut, "/api/categories/"+cat.ID, token,
		map[string]any{"name": "Deep Work", "display_order": 4}, &cat)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Deep Work", cat.Name)
	assert.Equal(t, "#5A9AA8", cat.Color)
	assert.Equal(t, 4, cat.DisplayOrder)

	w = ts.do(http.MethodPut, "/api/categories/"+cat.ID, token, map[string]any{"color": "teal"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodDelete, "/api/categories/"+cat.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var cats []model.Category
	ts.do(http.MethodGet, "/api/categories", token, nil, &cats)
	assert.Empty(t, cats)
}

func TestOwnershipIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register("alice")
	bob := ts.register("bob")

	var mission model.Mission
	ts.do(http.MethodPost, "/api/missions", alice, createMissionRequest{Title: "m"}, &mission)
	var task model.Task
	ts.do(http.MethodPost, "/api/missions/"+mission.ID+"/tasks", alice, createTaskRequest{Title: "t"}, &task)

	w := ts.do(http.MethodPut, "/api/missions/"+mission.ID, bob, map[string]string{"title": "mine"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/selected-tasks", bob, addSelectedRequest{TaskID: task.ID}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/selected-tasks", bob, addSelectedRequest{TaskID: "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectedTasks(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	var mission model.Mission
	ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "Ship feature"}, &mission)

	var entries []model.SelectedTaskView
	for _, title := range []string{"a", "b", "c"} {
		var task model.Task
		ts.do(http.MethodPost, "/api/missions/"+mission.ID+"/tasks", token, createTaskRequest{Title: title}, &task)

		var view model.SelectedTaskView
		w := ts.do(http.MethodPost, "/api/selected-tasks", token, addSelectedRequest{TaskID: task.ID}, &view)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, title, view.Title)
		assert.Equal(t, "Ship feature", view.MissionTitle)
		entries = append(entries, view)

		if title == "a" {
			w = ts.do(http.MethodPost, "/api/selected-tasks", token, addSelectedRequest{TaskID: task.ID}, nil)
			assert.Equal(t, http.StatusConflict, w.Code)
		}
	}

	w := ts.do(http.MethodPost, "/api/selected-tasks", token, map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reordered []model.SelectedTaskView
	w = ts.do(http.MethodPut, "/api/selected-tasks/reorder", token, reorderRequest{Tasks: []model.OrderUpdate{
		{ID: entries[0].ID, DisplayOrder: 3},
		{ID: entries[2].ID, DisplayOrder: 1},
	}}, &reordered)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, reordered, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{reordered[0].Title, reordered[1].Title, reordered[2].Title})

	w = ts.do(http.MethodPut, "/api/selected-tasks/reorder", token, reorderRequest{Tasks: []model.OrderUpdate{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/selected-tasks/reorder", token, map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodDelete, "/api/selected-tasks/"+entries[1].ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var list []model.SelectedTaskView
	ts.do(http.MethodGet, "/api/selected-tasks", token, nil, &list)
	assert.Len(t, list, 2)
}

func TestPreferencesAndTheme(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")

	var prefs model.UserPreferences
	w := ts.do(http.MethodGet, "/api/user/preferences", token, nil, &prefs)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.DefaultPrimaryColor, prefs.PrimaryColor)

	primary := "#336699"
	w = ts.do(http.MethodPut, "/api/user/preferences", token, model.PreferencesPatch{PrimaryColor: &primary}, &prefs)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, primary, prefs.PrimaryColor)
	assert.Equal(t, model.DefaultAccentColor, prefs.AccentColor)

	var pal map[string]string
	w = ts.do(http.MethodGet, "/api/user/theme", token, nil, &pal)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, primary, pal["primary"])
	assert.NotEmpty(t, pal["primary_light"])
}

// completeSelectedTask gives the user a mission with one task that is in
// focus and COMPLETED, returning the mission.
func (ts *testServer) completeSelectedTask(token string) model.Mission {
	ts.t.Helper()
	var mission model.Mission
	ts.do(http.MethodPost, "/api/missions", token, createMissionRequest{Title: "m"}, &mission)
	var task model.Task
	ts.do(http.MethodPost, "/api/missions/"+mission.ID+"/tasks", token, createTaskRequest{Title: "t"}, &task)
	w := ts.do(http.MethodPost, "/api/selected-tasks", token, addSelectedRequest{TaskID: task.ID}, nil)
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	completed := model.StateCompleted
	w = ts.do(http.MethodPut, "/api/missions/tasks/"+task.ID, token, updateTaskRequest{State: &completed}, nil)
	require.Equal(ts.t, http.StatusOK, w.Code, w.Body.String())
	return mission
}

func TestAdminReset(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register("alice")
	rootToken := ts.register("root")
	ts.completeSelectedTask(token)

	var res engine.ResetResult
	w := ts.do(http.MethodPost, "/api/admin/reset", rootToken, nil, &res)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(1), res.Tasks)
	assert.Equal(t, int64(1), res.Missions)

	var status resetStatusResponse
	w = ts.do(http.MethodGet, "/api/admin/reset", rootToken, nil, &status)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", status.State)
	assert.False(t, status.Scheduled)
	assert.NotNil(t, status.LastRun)
	assert.Equal(t, int64(1), status.LastResult.Tasks)
}

func TestAdminResetRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register("alice")
	mallory := ts.register("mallory")
	mission := ts.completeSelectedTask(alice)

	w := ts.do(http.MethodPost, "/api/admin/reset", mallory, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "admin access required", errorBody(t, w))

	w = ts.do(http.MethodGet, "/api/admin/reset", alice, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/admin/reset", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var list []model.SelectedTaskView
	w = ts.do(http.MethodGet, "/api/selected-tasks", alice, nil, &list)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list, 1)
	assert.Equal(t, model.StateCompleted, list[0].State)

	var missions []model.Mission
	ts.do(http.MethodGet, "/api/missions", alice, nil, &missions)
	require.Len(t, missions, 1)
	assert.Equal(t, mission.ID, missions[0].ID)
	assert.Equal(t, model.StateCompleted, missions[0].State)
}

func TestHealthAndCORS(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	w := ts.do(http.MethodGet, "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodOptions, "/api/missions", nil)
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
