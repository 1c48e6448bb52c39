package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"booking-reconciler/internal/handler/api"
	"booking-reconciler/internal/handler/middleware"
	"booking-reconciler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Jobs   *api.JobsHandler
	Health *api.HealthHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, gatherer prometheus.Gatherer, h Handlers) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, gatherer, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLoggerFrom(logger, cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, gatherer prometheus.Gatherer, h Handlers) {
	engine.GET("/healthz", h.Health.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	jobs := engine.Group("/jobs")
	{
		addRoutes(jobs, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Jobs.List},
			{Method: http.MethodPost, Path: "/:name/run", Handler: h.Jobs.Run},
		})
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}
