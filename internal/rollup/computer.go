// Package rollup computes per-client per-day metric summaries from the
// upstream connector set and orchestrates historical backfill runs over them.
package rollup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"leadpulse/internal/domain"
	"leadpulse/internal/obs"
	"leadpulse/internal/providers"
)

const (
	upsertAttempts = 3
	upsertBackoff  = 200 * time.Millisecond
)

// SummaryUpserter is the slice of the store the computer needs.
type SummaryUpserter interface {
	Upsert(ctx context.Context, rec domain.DailyMetricsRecord) error
}

// ProviderFailure records one provider that failed within an otherwise
// surviving rollup. NotConfigured never appears here.
type ProviderFailure struct {
	Provider domain.Provider  `json:"provider"`
	Label    string           `json:"label"`
	Kind     domain.ErrorKind `json:"kind"`
	Message  string           `json:"message"`
}

// Computer is the unit of work of the backfill pipeline: one (client, date)
// pair in, one upserted summary row out.
type Computer struct {
	connectors providers.Set
	store      SummaryUpserter
	logger     zerolog.Logger
}

func NewComputer(connectors providers.Set, store SummaryUpserter, logger zerolog.Logger) *Computer {
	return &Computer{connectors: connectors, store: store, logger: logger}
}

// Compute fetches every configured provider for the single-day range
// [date, date] in parallel, merges what came back (zero for anything that
// failed or is not configured), derives cross-provider fields, and upserts
// the record. Provider failures are returned alongside the record, never as
// the job error: only a store failure after retries fails the job.
func (c *Computer) Compute(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
	day := domain.Range{Start: date, End: date}

	type outcome struct {
		metrics domain.ProviderMetrics
		err     error
	}
	outcomes := make([]outcome, len(c.connectors))

	var wg sync.WaitGroup
	for i, conn := range c.connectors {
		if !client.ProviderConfigured(conn.Provider) {
			outcomes[i].err = domain.ErrNotConfigured
			continue
		}
		wg.Add(1)
		go func(i int, conn providers.Connector) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, conn.Timeout)
			defer cancel()
			m, err := conn.Fetcher.Fetch(fetchCtx, client, day)
			outcomes[i] = outcome{metrics: m, err: err}
		}(i, conn)
	}
	wg.Wait()

	rec := domain.DailyMetricsRecord{ClientID: client.ID, Date: date}
	var failures []ProviderFailure
	for i, conn := range c.connectors {
		out := outcomes[i]
		if out.err == nil {
			rec.Merge(conn.Provider, out.metrics)
			continue
		}
		if errors.Is(out.err, domain.ErrNotConfigured) {
			continue
		}
		kind := domain.Classify(out.err)
		obs.ProviderFailures.WithLabelValues(string(conn.Provider), string(kind)).Inc()
		c.logger.Warn().
			Str("client_id", client.ID).
			Str("date", date.Format(domain.DateLayout)).
			Str("provider", string(conn.Provider)).
			Err(out.err).
			Msg("rollup: provider fetch failed")
		failures = append(failures, ProviderFailure{
			Provider: conn.Provider,
			Label:    providers.Label(conn.Provider),
			Kind:     kind,
			Message:  out.err.Error(),
		})
	}
	rec.Derive()

	if err := c.upsertWithRetry(ctx, rec); err != nil {
		return rec, failures, err
	}
	return rec, failures, nil
}

// upsertWithRetry retries transient store failures with doubling backoff.
// Store unavailability is the one error class worth retrying inside a job;
// provider errors are left to a later re-run of the day.
func (c *Computer) upsertWithRetry(ctx context.Context, rec domain.DailyMetricsRecord) error {
	var err error
	backoff := upsertBackoff
	for attempt := 1; attempt <= upsertAttempts; attempt++ {
		if err = c.store.Upsert(ctx, rec); err == nil {
			return nil
		}
		if attempt == upsertAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: upsert interrupted: %v", domain.ErrStore, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
