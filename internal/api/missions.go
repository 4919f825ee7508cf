package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/model"
)

type createMissionRequest struct {
	Title      string  `json:"title"`
	CategoryID *string `json:"category_id"`
}

// updateMissionRequest keeps category_id raw so an explicit null (clear)
// can be told apart from an absent field (unchanged).
type updateMissionRequest struct {
	Title        *string         `json:"title"`
	CategoryID   json.RawMessage `json:"category_id"`
	State        *model.State    `json:"state"`
	DisplayOrder *int            `json:"display_order"`
}

func (r updateMissionRequest) toUpdate() (engine.MissionUpdate, error) {
	upd := engine.MissionUpdate{
		Title:        r.Title,
		State:        r.State,
		DisplayOrder: r.DisplayOrder,
	}
	if len(r.CategoryID) == 0 {
		return upd, nil
	}
	if string(r.CategoryID) == "null" {
		upd.ClearCategory = true
		return upd, nil
	}
	var id string
	if err := json.Unmarshal(r.CategoryID, &id); err != nil {
		return upd, engine.ValidationError{Field: "category_id", Msg: "must be a string or null"}
	}
	upd.CategoryID = &id
	return upd, nil
}

type createTaskRequest struct {
	Title string `json:"title"`
}

type updateTaskRequest struct {
	Title        *string      `json:"title"`
	State        *model.State `json:"state"`
	DisplayOrder *int         `json:"display_order"`
}

func (s *Server) handleListMissions(c *gin.Context) {
	missions, err := s.svc.ListMissions(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (s *Server) handleCreateMission(c *gin.Context) {
	var req createMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	m, err := s.svc.CreateMission(c.Request.Context(), currentUser(c), req.Title, req.CategoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) handleUpdateMission(c *gin.Context) {
	var req updateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		writeError(c, err)
		return
	}

	m, err := s.svc.UpdateMission(c.Request.Context(), currentUser(c), c.Param("id"), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleCancelMission(c *gin.Context) {
	if err := s.svc.CancelMission(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mission cancelled"})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	t, err := s.svc.CreateTask(c.Request.Context(), currentUser(c), c.Param("id"), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	t, err := s.svc.UpdateTask(c.Request.Context(), currentUser(c), c.Param("id"), engine.TaskUpdate{
		Title:        req.Title,
		State:        req.State,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleCancelTask(c *gin.Context) {
	if err := s.svc.CancelTask(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task cancelled"})
}
