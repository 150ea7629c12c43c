package server

import (
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/aistudio/internal/logger"
	"github.com/wolfeidau/aistudio/internal/store"
	"github.com/wolfeidau/aistudio/internal/telemetry"
)

//go:embed index.html
var indexHTML []byte

// Server wires the resource handlers to the stores. Handlers never apply
// tenant filters themselves; they pass the resolved tenant to the store
// layer, which owns isolation.
type Server struct {
	projects store.ProjectStore
	runs     store.AgentRunStore
	logs     store.UsageLogStore
}

// New creates a new server with the given stores.
func New(projects store.ProjectStore, runs store.AgentRunStore, logs store.UsageLogStore) *Server {
	return &Server{
		projects: projects,
		runs:     runs,
		logs:     logs,
	}
}

// Router builds the echo instance with middleware and all routes registered.
func (s *Server) Router(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(logger.RequestLogger(log))
	e.Use(telemetry.Middleware())

	e.GET("/", s.handleIndex)
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(telemetry.Handler()))

	api := e.Group("/api", TenantContext())
	api.POST("/projects", s.createProject)
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:id", s.getProject)
	api.PUT("/projects/:id", s.updateProject)
	api.DELETE("/projects/:id", s.deleteProject)
	api.POST("/agent-runs", s.createAgentRun)
	api.GET("/agent-runs", s.listAgentRuns)
	api.POST("/usage-logs", s.createUsageLog)
	api.GET("/usage-logs", s.listUsageLogs)

	return e
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// storeError maps store failures onto HTTP responses. Not-found covers both
// missing rows and rows hidden by tenant isolation; the two are deliberately
// indistinguishable.
func (s *Server) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrProjectNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Project not found"})
	case errors.Is(err, store.ErrAgentRunNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent run not found"})
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("store operation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
