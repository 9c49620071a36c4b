package ui

import (
	"net/http"
	"time"

	"roster/internal"
	"roster/internal/events"
	"roster/internal/importer"
	"roster/internal/roster"
	"roster/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the JSON API is served from
type Deps struct {
	Store          *roster.Store
	Importer       *importer.Service
	Events         *events.SSEHub
	MaxUploadBytes int64
	AllowedOrigins []string
	Logger         *internal.Logger
	Now            func() time.Time
}

// Server represents the JSON API server for the work schedule
type Server struct {
	router         *gin.Engine
	store          *roster.Store
	importer       *importer.Service
	events         *events.SSEHub
	maxUploadBytes int64
	allowedOrigins []string
	logger         *internal.Logger
	now            func() time.Time
}

// NewServer creates a new API server with its routes registered
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		router:         gin.New(),
		store:          deps.Store,
		importer:       deps.Importer,
		events:         deps.Events,
		maxUploadBytes: deps.MaxUploadBytes,
		allowedOrigins: deps.AllowedOrigins,
		logger:         logger.WithComponent("HTTP"),
		now:            now,
	}
	// Multipart bodies beyond this spill to temp files.
	s.router.MaxMultipartMemory = 8 << 20
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router for http.Server and tests. Cross-origin
// requests are answered only when origins are configured.
func (s *Server) Handler() http.Handler {
	if len(s.allowedOrigins) == 0 {
		return s.router
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})(s.router)
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")

	customers := api.Group("/customers")
	customers.GET("", s.handleListCustomers)
	customers.POST("", s.handleCreateCustomer)
	customers.GET("/:id", s.handleGetCustomer)
	customers.PUT("/:id", s.handleUpdateCustomer)
	customers.DELETE("/:id", s.handleDeleteCustomer)
	customers.POST("/:id/dates", s.handleAddDate)
	customers.DELETE("/:id/dates/:date", s.handleRemoveDate)
	customers.POST("/:id/dates/recurring", s.handleAddRecurring)

	api.GET("/calendar", s.handleCalendarIndex)
	api.GET("/calendar/month", s.handleCalendarMonth)
	api.GET("/calendar/today", s.handleCalendarToday)
	api.GET("/calendar/:date/agenda", s.handleAgendaSheet)
	api.POST("/calendar/:date/quick-add", s.handleQuickAdd)
	api.GET("/calendar.ics", s.handleCalendarICS)
	api.GET("/summary", s.handleSummary)
	api.GET("/export", s.handleExport)

	if s.events != nil {
		api.GET("/events", s.events.HandleSSE)
	}

	imports := api.Group("/imports")
	imports.POST("", s.handleUpload)
	imports.GET("/:token", s.handleGetPending)
	imports.POST("/:token/confirm", s.handleConfirmImport)
	imports.DELETE("/:token", s.handleCancelImport)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"customers": s.store.Len(),
	})
}
