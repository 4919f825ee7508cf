package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/engine"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name         *string `json:"name"`
	Color        *string `json:"color"`
	DisplayOrder *int    `json:"display_order"`
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.svc.ListCategories(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	cat, err := s.svc.CreateCategory(c.Request.Context(), currentUser(c), req.Name, req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	cat, err := s.svc.UpdateCategory(c.Request.Context(), currentUser(c), c.Param("id"), engine.CategoryUpdate{
		Name:         req.Name,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	if err := s.svc.DeleteCategory(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
