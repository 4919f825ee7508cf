package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/engine"
)

type resetStatusResponse struct {
	State      string             `json:"state"`
	Scheduled  bool               `json:"scheduled"`
	LastRun    *time.Time         `json:"last_run,omitempty"`
	LastResult engine.ResetResult `json:"last_result"`
	LastError  string             `json:"last_error,omitempty"`
	NextRun    *time.Time         `json:"next_run,omitempty"`
}

func (s *Server) handleResetStatus(c *gin.Context) {
	if s.reset == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reset job not configured"})
		return
	}

	st := s.reset.Status()
	resp := resetStatusResponse{
		State:      st.State.String(),
		Scheduled:  st.Started,
		LastResult: st.LastResult,
	}
	if !st.LastRun.IsZero() {
		resp.LastRun = &st.LastRun
	}
	if !st.NextRun.IsZero() {
		resp.NextRun = &st.NextRun
	}
	if st.LastErr != nil {
		resp.LastError = st.LastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRunReset(c *gin.Context) {
	if s.reset == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reset job not configured"})
		return
	}

	res, err := s.reset.RunNow(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
