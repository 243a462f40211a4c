package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"leadpulse/internal/cache"
	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
	"leadpulse/internal/insights"
	"leadpulse/internal/rollup"
)

// BackfillRunner is the orchestrator surface the HTTP layer needs.
type BackfillRunner interface {
	Run(ctx context.Context, r domain.Range, clientIDs []string) (*rollup.RunReport, error)
}

// ClientDirectory is the client store surface the admin endpoints need.
type ClientDirectory interface {
	List(ctx context.Context) ([]domain.Client, error)
	Create(ctx context.Context, c domain.Client) (string, error)
	Deactivate(ctx context.Context, id string) error
}

type App struct {
	Cache    *cache.Cache
	Warmer   *cache.Warmer
	Insights *insights.Service
	Backfill BackfillRunner
	Clients  ClientDirectory
	CacheTTL time.Duration
	Logger   infra.Logger

	now func() time.Time
}

func NewApp(c *cache.Cache, w *cache.Warmer, ins *insights.Service, backfill BackfillRunner, clients ClientDirectory, cacheTTL time.Duration, logger infra.Logger) *App {
	return &App{
		Cache:    c,
		Warmer:   w,
		Insights: ins,
		Backfill: backfill,
		Clients:  clients,
		CacheTTL: cacheTTL,
		Logger:   logger,
		now:      time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": errCode, "message": message}})
}
