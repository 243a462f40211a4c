package rollup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"leadpulse/internal/domain"
	"leadpulse/internal/obs"
)

// ClientDirectory resolves the client set for a run. The active list is read
// fresh at run start, never cached here.
type ClientDirectory interface {
	Active(ctx context.Context) ([]domain.Client, error)
	ByIDs(ctx context.Context, ids []string) ([]domain.Client, error)
}

// DayComputer is the unit of work the orchestrator schedules.
type DayComputer interface {
	Compute(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error)
}

// Options tunes a run. Zero values fall back to conservative defaults.
type Options struct {
	Concurrency    int64
	JobTimeout     time.Duration
	DatesPerSecond float64
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 4
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = 180 * time.Second
	}
	if o.DatesPerSecond <= 0 {
		o.DatesPerSecond = 1
	}
	return o
}

// Orchestrator expands a date range into rollup jobs and runs them date by
// date: each date's client batch finishes before the next date begins, so
// bursts against upstream providers stay bounded. Within a date, client jobs
// run under a semaphore.
type Orchestrator struct {
	computer DayComputer
	clients  ClientDirectory
	opts     Options
	logger   zerolog.Logger
}

func NewOrchestrator(computer DayComputer, clients ClientDirectory, opts Options, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{computer: computer, clients: clients, opts: opts.withDefaults(), logger: logger}
}

// Run executes a backfill over the range, for the explicit client ids or all
// active clients when none are given. A failed job never aborts the run; the
// only run-level failures are an unresolvable client set or a cancelled
// context before the run starts.
func (o *Orchestrator) Run(ctx context.Context, r domain.Range, clientIDs []string) (*RunReport, error) {
	clients, err := o.resolveClients(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     uuid.NewString(),
		StartDate: r.Start.Format(domain.DateLayout),
		EndDate:   r.End.Format(domain.DateLayout),
		Clients:   len(clients),
		StartedAt: time.Now(),
	}

	o.logger.Info().
		Str("run_id", report.RunID).
		Str("range", r.String()).
		Int("clients", len(clients)).
		Int64("concurrency", o.opts.Concurrency).
		Msg("backfill: run starting")

	// Token bucket across date iterations, replacing a fixed inter-date
	// sleep; the first date draws from a full bucket and starts at once.
	limiter := rate.NewLimiter(rate.Limit(o.opts.DatesPerSecond), 1)

	var totalSuccessMS int64
	for _, date := range r.Days() {
		if err := limiter.Wait(ctx); err != nil {
			// Context cancelled mid-run: report what already completed.
			o.logger.Warn().Str("run_id", report.RunID).Err(err).Msg("backfill: run interrupted")
			break
		}

		dateReport := o.runDate(ctx, date, clients)
		report.Dates = append(report.Dates, dateReport)
		report.Succeeded += dateReport.Succeeded
		report.Failed += dateReport.Failed
		report.TotalJobs += len(dateReport.Jobs)
		for _, job := range dateReport.Jobs {
			if job.Status == JobSucceeded {
				totalSuccessMS += job.DurationMS
			}
		}
	}

	report.FinishedAt = time.Now()
	if report.Succeeded > 0 {
		report.AvgSuccessMS = totalSuccessMS / int64(report.Succeeded)
	}

	o.logger.Info().
		Str("run_id", report.RunID).
		Int("total", report.TotalJobs).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("backfill: run finished")
	return report, nil
}

func (o *Orchestrator) resolveClients(ctx context.Context, clientIDs []string) ([]domain.Client, error) {
	if len(clientIDs) > 0 {
		clients, err := o.clients.ByIDs(ctx, clientIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve clients: %w", err)
		}
		return clients, nil
	}
	clients, err := o.clients.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active clients: %w", err)
	}
	return clients, nil
}

func (o *Orchestrator) runDate(ctx context.Context, date time.Time, clients []domain.Client) DateReport {
	sem := semaphore.NewWeighted(o.opts.Concurrency)
	results := make([]JobResult, len(clients))

	for i, client := range clients {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = JobResult{
				ClientID:   client.ID,
				ClientName: client.Name,
				Date:       date.Format(domain.DateLayout),
				Status:     JobFailed,
				ErrorKind:  string(domain.KindUnknown),
				Error:      "run interrupted before job start",
			}
			continue
		}
		go func(i int, client domain.Client) {
			defer sem.Release(1)
			results[i] = o.runJob(ctx, client, date)
		}(i, client)
	}
	// Draining the semaphore waits for the whole batch.
	if err := sem.Acquire(context.Background(), o.opts.Concurrency); err == nil {
		sem.Release(o.opts.Concurrency)
	}

	report := DateReport{Date: date.Format(domain.DateLayout), Jobs: results}
	for _, job := range results {
		if job.Status == JobSucceeded {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report
}

func (o *Orchestrator) runJob(ctx context.Context, client domain.Client, date time.Time) (result JobResult) {
	result = JobResult{
		ClientID:   client.ID,
		ClientName: client.Name,
		Date:       date.Format(domain.DateLayout),
	}
	start := time.Now()

	// A panicking connector must cost exactly one job, never the run.
	defer func() {
		if r := recover(); r != nil {
			result.Status = JobFailed
			result.ErrorKind = string(domain.KindUnknown)
			result.Error = fmt.Sprintf("panic: %v", r)
			result.DurationMS = time.Since(start).Milliseconds()
			obs.RollupJobs.WithLabelValues(string(JobFailed)).Inc()
			o.logger.Error().
				Str("client_id", client.ID).
				Str("date", result.Date).
				Interface("panic", r).
				Msg("backfill: job panicked")
		}
	}()

	jobCtx, cancel := context.WithTimeout(ctx, o.opts.JobTimeout)
	defer cancel()

	_, failures, err := o.computer.Compute(jobCtx, client, date)
	result.DurationMS = time.Since(start).Milliseconds()
	result.ProviderErrors = failures

	if err != nil {
		// The deadline can interrupt any stage, including the store write;
		// the job-level kind is still a timeout.
		if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: job exceeded %s: %v", domain.ErrTimeout, o.opts.JobTimeout, err)
		}
		result.Status = JobFailed
		result.ErrorKind = string(domain.Classify(err))
		result.Error = err.Error()
		obs.RollupJobs.WithLabelValues(string(JobFailed)).Inc()
		return result
	}

	result.Status = JobSucceeded
	obs.RollupJobs.WithLabelValues(string(JobSucceeded)).Inc()
	return result
}
