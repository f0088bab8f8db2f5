package ui

import (
	"log"
	"net/http"

	"partsdash/app"
	"partsdash/internal/errors"
	"partsdash/internal/session"
	"partsdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Server is the JSON API of the dashboard. Every route lives under /api so
// the engine can be mounted as-is below the outer router.
type Server struct {
	router         *gin.Engine
	registry       *session.Registry
	service        *app.DashboardService
	maxUploadBytes int64
}

// ServerOptions configures the API server
type ServerOptions struct {
	MaxUploadBytes int64
}

// NewServer creates a new API server instance
func NewServer(registry *session.Registry, service *app.DashboardService, opts ServerOptions) *Server {
	s := &Server{
		router:         gin.New(),
		registry:       registry,
		service:        service,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	if s.maxUploadBytes > 0 {
		s.router.MaxMultipartMemory = s.maxUploadBytes
	}
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/sessions", s.handleCreateSession)

	sessions := api.Group("/sessions/:id", middleware.RequireSession(s.registry))
	sessions.GET("", s.handleGetSession)
	sessions.DELETE("", s.handleDeleteSession)
	sessions.GET("/files", s.handleListFiles)
	sessions.PUT("/files/:role", s.handleUploadFile)

	// Views recomputed from scratch on every request
	sessions.GET("/options", s.handleOptions)
	sessions.GET("/merged", s.handleMerged)
	sessions.GET("/browse/:role", s.handleBrowse)
	sessions.GET("/panels/:role", s.handlePanel)
}

// Handler returns the gin engine as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the API on its own, without the outer router
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// respondError maps err to a status through its application error code.
func respondError(c *gin.Context, handler string, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] ERROR - %v", handler, err)
	} else {
		log.Printf("[%s] FAILED - %v", handler, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
