package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/model"
	"github.com/nhle/missionboard/internal/theme"
)

func (s *Server) handleGetPreferences(c *gin.Context) {
	prefs, err := s.svc.GetPreferences(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(c *gin.Context) {
	var patch model.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	prefs, err := s.svc.UpdatePreferences(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleGetTheme(c *gin.Context) {
	prefs, err := s.svc.GetPreferences(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	pal, err := theme.FromPreferences(*prefs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pal)
}
