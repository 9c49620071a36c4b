package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"roster/internal/importer"
	"roster/internal/roster"
)

// Pinger is implemented by persistence backends that can report readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminConfig holds admin listener settings
type AdminConfig struct {
	Profiling bool
}

// AdminApp serves health, readiness, runtime stats and pprof on a separate
// listener
type AdminApp struct {
	router  *chi.Mux
	store   *roster.Store
	pending *importer.PendingRegistry
	pinger  Pinger
	started time.Time
	config  AdminConfig
}

// NewAdminApp creates the admin router. pinger may be nil.
func NewAdminApp(config AdminConfig, store *roster.Store, pending *importer.PendingRegistry, pinger Pinger) *AdminApp {
	app := &AdminApp{
		router:  chi.NewRouter(),
		store:   store,
		pending: pending,
		pinger:  pinger,
		started: time.Now(),
		config:  config,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// Handler exposes the router for http.Server and tests
func (a *AdminApp) Handler() http.Handler {
	return a.router
}

func (a *AdminApp) setupMiddleware() {
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *AdminApp) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/readyz", a.handleReady)
	a.router.Get("/stats", a.handleStats)
	if a.config.Profiling {
		a.router.Mount("/debug", middleware.Profiler())
	}
}

func (a *AdminApp) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *AdminApp) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.pinger.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *AdminApp) handleStats(w http.ResponseWriter, r *http.Request) {
	ix := a.store.Index()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptimeSeconds":  int64(time.Since(a.started).Seconds()),
		"customers":      a.store.Len(),
		"version":        a.store.Version().Short(),
		"occurrences":    ix.Len(),
		"scheduledDays":  len(ix.Days()),
		"pendingImports": a.pending.Len(),
		"location":       a.store.Location().String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
