package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"leadpulse/internal/cache"
	"leadpulse/internal/http/handlers"
	httpapi "leadpulse/internal/http/httpapi"
	"leadpulse/internal/infra"
	"leadpulse/internal/insights"
	"leadpulse/internal/providers"
	"leadpulse/internal/rollup"
	"leadpulse/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	summaries := store.NewSummaryStore(runner)
	clients := store.NewClientStore(runner)

	connectors := providers.NewSet(cfg, &logger)
	computer := rollup.NewComputer(connectors, summaries, logger)
	orchestrator := rollup.NewOrchestrator(computer, clients, rollup.Options{
		Concurrency:    cfg.BackfillConcurrency,
		JobTimeout:     cfg.BackfillJobTimeout,
		DatesPerSecond: cfg.BackfillDatesPerSecond,
	}, logger)

	responseCache := cache.New(cfg.CacheWarmThreshold)
	warmer := cache.NewWarmer(responseCache, logger, cfg.CacheComputeTimeout)
	overviews := insights.NewService(summaries)

	app := handlers.NewApp(responseCache, warmer, overviews, orchestrator, clients, cfg.CacheTTL, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	// In-flight warms are bounded by the compute timeout.
	warmer.Close()
	logger.Info().Msg("server stopped")
}
