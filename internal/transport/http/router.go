package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"adapter/internal/config"
	custommw "adapter/internal/middleware"
)

// NewRouter assembles the service router: middleware chain, health and
// metrics endpoints, and the pipeline API.
func NewRouter(logger *slog.Logger, cfg *config.Config, metrics *Metrics) chi.Router {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	if cfg.Server.RateLimit.Enabled {
		r.Use(custommw.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", NewHealthHandler(logger).Health)
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/api/pipeline", NewPipelineHandler(logger, metrics, cfg.Pipeline).Routes())

	return r
}
