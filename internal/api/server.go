package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/missionboard/internal/auth"
	"github.com/nhle/missionboard/internal/engine"
	"github.com/nhle/missionboard/internal/scheduler"
)

// ResetRunner exposes the daily reset job to the admin endpoints.
type ResetRunner interface {
	Status() scheduler.Status
	RunNow(ctx context.Context) (engine.ResetResult, error)
}

// Config holds the HTTP surface settings.
type Config struct {
	// Mode is the gin mode: debug, release or test. Empty keeps gin's default.
	Mode string
	// CORSOrigin is the allowed browser origin. Empty means "*".
	CORSOrigin string
	// AdminUsers may use the /api/admin routes. The reset touches every
	// user's focus list, so no one else may.
	AdminUsers []string
}

// Server is the missionboard REST API.
type Server struct {
	svc    *engine.Service
	tokens *auth.Tokens
	reset  ResetRunner
	admins map[string]bool
	router *gin.Engine
}

// NewServer wires the routes. reset may be nil, in which case the admin
// endpoints answer 503.
func NewServer(svc *engine.Service, tokens *auth.Tokens, reset ResetRunner, cfg Config) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID(), cors(cfg.CORSOrigin))

	s := &Server{
		svc:    svc,
		tokens: tokens,
		reset:  reset,
		admins: make(map[string]bool, len(cfg.AdminUsers)),
		router: router,
	}
	for _, name := range cfg.AdminUsers {
		s.admins[name] = true
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.GET("/me", s.authRequired(), s.handleMe)
	}

	secured := api.Group("", s.authRequired())
	{
		secured.GET("/categories", s.handleListCategories)
		secured.POST("/categories", s.handleCreateCategory)
		secured.PUT("/categories/:id", s.handleUpdateCategory)
		secured.DELETE("/categories/:id", s.handleDeleteCategory)

		secured.GET("/missions", s.handleListMissions)
		secured.POST("/missions", s.handleCreateMission)
		secured.PUT("/missions/tasks/:id", s.handleUpdateTask)
		secured.DELETE("/missions/tasks/:id", s.handleCancelTask)
		secured.PUT("/missions/:id", s.handleUpdateMission)
		secured.DELETE("/missions/:id", s.handleCancelMission)
		secured.POST("/missions/:id/tasks", s.handleCreateTask)

		secured.GET("/selected-tasks", s.handleListSelected)
		secured.POST("/selected-tasks", s.handleAddSelected)
		secured.PUT("/selected-tasks/reorder", s.handleReorderSelected)
		secured.DELETE("/selected-tasks/:id", s.handleRemoveSelected)

		secured.GET("/user/preferences", s.handleGetPreferences)
		secured.PUT("/user/preferences", s.handleUpdatePreferences)
		secured.GET("/user/theme", s.handleGetTheme)
	}

	admin := api.Group("/admin", s.authRequired(), s.adminRequired())
	{
		admin.GET("/reset", s.handleResetStatus)
		admin.POST("/reset", s.handleRunReset)
	}

	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
