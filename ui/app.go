package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"partsdash/domain/catalog"
	"partsdash/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App is the outer HTTP application: index page, health check and the JSON
// API mounted at /api.
type App struct {
	router    *chi.Mux
	api       *Server
	registry  *session.Registry
	templates *template.Template
	handler   http.Handler
	port      string
}

// Config holds UI application configuration
type Config struct {
	Port           string
	AllowedOrigins []string
}

// NewApp creates a new UI application around the API server
func NewApp(config Config, api *Server, registry *session.Registry) (*App, error) {
	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		api:       api,
		registry:  registry,
		templates: templates,
		port:      config.Port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	allowed := config.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	app.handler = cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler(app.router)

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/healthz", a.handleHealth)

	// The gin engine registers its routes with the /api prefix itself.
	a.router.Mount("/api", a.api.Handler())
}

// Handler returns the CORS-wrapped router
func (a *App) Handler() http.Handler {
	return a.handler
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.port
	log.Printf("Starting partsdash on %s", addr)
	return http.ListenAndServe(addr, a.handler)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Roles": catalog.Roles,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, a.registry.Len())
}
