package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
	"leadpulse/internal/providers"
	"leadpulse/internal/rollup"
	"leadpulse/internal/store"
)

type options struct {
	start   string
	end     string
	days    int
	clients string
	dryRun  bool
}

func main() {
	opts := parseFlags()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	rng, err := resolveRange(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("backfill: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	summaries := store.NewSummaryStore(runner)
	clients := store.NewClientStore(runner)

	var clientIDs []string
	if opts.clients != "" {
		for _, id := range strings.Split(opts.clients, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				clientIDs = append(clientIDs, trimmed)
			}
		}
	}

	if opts.dryRun {
		if err := printPlan(ctx, clients, rng, clientIDs); err != nil {
			logger.Fatal().Err(err).Msg("backfill: dry-run failed")
		}
		return
	}

	connectors := providers.NewSet(cfg, &logger)
	computer := rollup.NewComputer(connectors, summaries, logger)
	orchestrator := rollup.NewOrchestrator(computer, clients, rollup.Options{
		Concurrency:    cfg.BackfillConcurrency,
		JobTimeout:     cfg.BackfillJobTimeout,
		DatesPerSecond: cfg.BackfillDatesPerSecond,
	}, logger)

	report, err := orchestrator.Run(ctx, rng, clientIDs)
	if err != nil {
		logger.Fatal().Err(err).Msg("backfill: run failed to start")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	if report.Failed > 0 {
		os.Exit(2)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.start, "start", "", "range start date (YYYY-MM-DD)")
	flag.StringVar(&opts.end, "end", "", "range end date (YYYY-MM-DD)")
	flag.IntVar(&opts.days, "days", 0, "trailing day count ending yesterday (alternative to -start/-end)")
	flag.StringVar(&opts.clients, "clients", "", "comma-separated client ids (default: all active)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the job plan without running anything")
	flag.Parse()
	return opts
}

func resolveRange(opts options) (domain.Range, error) {
	if opts.days > 0 {
		if opts.start != "" || opts.end != "" {
			return domain.Range{}, fmt.Errorf("-days cannot be combined with -start/-end")
		}
		return domain.LastNDays(opts.days, time.Now())
	}
	if opts.start == "" || opts.end == "" {
		return domain.Range{}, fmt.Errorf("either -days or both -start and -end are required")
	}
	return domain.ParseRange(opts.start, opts.end)
}

func printPlan(ctx context.Context, directory *store.ClientStore, rng domain.Range, clientIDs []string) error {
	var (
		resolved []domain.Client
		err      error
	)
	if len(clientIDs) > 0 {
		resolved, err = directory.ByIDs(ctx, clientIDs)
	} else {
		resolved, err = directory.Active(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Dry-run: %d date(s) x %d client(s) = %d job(s) over %s\n",
		rng.Len(), len(resolved), rng.Len()*len(resolved), rng)
	for _, c := range resolved {
		fmt.Printf("  %s  %s\n", c.ID, c.Name)
	}
	return nil
}
