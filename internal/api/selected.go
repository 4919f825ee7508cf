package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/model"
)

type addSelectedRequest struct {
	TaskID string `json:"task_id"`
}

type reorderRequest struct {
	Tasks []model.OrderUpdate `json:"tasks"`
}

func (s *Server) handleListSelected(c *gin.Context) {
	views, err := s.svc.ListSelected(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleAddSelected(c *gin.Context) {
	var req addSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" {
		badRequest(c, "task_id is required")
		return
	}

	view, err := s.svc.AddSelected(c.Request.Context(), currentUser(c), req.TaskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleRemoveSelected(c *gin.Context) {
	if err := s.svc.RemoveSelected(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task removed from selected"})
}

func (s *Server) handleReorderSelected(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tasks == nil {
		badRequest(c, "tasks array is required")
		return
	}

	views, err := s.svc.ReorderSelected(c.Request.Context(), currentUser(c), req.Tasks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
