package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadpulse/internal/http/handlers"
	"leadpulse/internal/infra"
	"leadpulse/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))

	r.Get("/v1/healthz", app.Health)

	r.Get("/v1/insights/overview", app.InsightsOverview)

	r.Route("/v1/cache", func(r chi.Router) {
		r.Post("/warm", app.CacheWarm)
		r.Get("/status", app.CacheStatus)
		r.Get("/keys", app.CacheKeys)
		r.Delete("/", app.CacheClear)
	})

	r.Route("/v1/backfill", func(r chi.Router) {
		r.Post("/", app.BackfillRun)
		r.Post("/quick", app.BackfillQuick)
	})

	r.Route("/v1/clients", func(r chi.Router) {
		r.Get("/", app.ClientsList)
		r.Post("/", app.ClientsCreate)
		r.Delete("/{id}", app.ClientDeactivate)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
