package providers

import (
	"context"
	"time"

	"leadpulse/internal/domain"
)

// Fetcher pulls one provider's metrics for a client over a date range. A
// connector returns domain.ErrNotConfigured when the client carries no
// configuration for it; other failures wrap domain.ErrAuth, domain.ErrTimeout
// or domain.ErrUpstream.
type Fetcher interface {
	Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error)
}

// FetchFunc adapts a plain function to the Fetcher interface.
type FetchFunc func(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error)

func (f FetchFunc) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	return f(ctx, client, r)
}

// Connector pairs a provider with its fetcher and per-call time budget.
type Connector struct {
	Provider domain.Provider
	Fetcher  Fetcher
	Timeout  time.Duration
}

// Set is the ordered collection of connectors a rollup iterates over. Order
// follows domain.Providers so reports stay stable across runs.
type Set []Connector
