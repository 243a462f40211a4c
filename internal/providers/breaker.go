package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"leadpulse/internal/domain"
)

// WithBreaker wraps a fetcher in a circuit breaker so a provider that keeps
// failing stops eating the per-call time budget of every job in a run. An
// open breaker surfaces as an upstream error without a network call.
//
// NotConfigured is not counted as a failure: it is the expected state for
// clients that never enabled the provider.
func WithBreaker(p domain.Provider, f Fetcher) Fetcher {
	cb := gobreaker.NewCircuitBreaker[domain.ProviderMetrics](gobreaker.Settings{
		Name:        string(p),
		MaxRequests: 1,
		Interval:    2 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotConfigured)
		},
	})

	return FetchFunc(func(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
		m, err := cb.Execute(func() (domain.ProviderMetrics, error) {
			return f.Fetch(ctx, client, r)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: %s circuit open", domain.ErrUpstream, p)
		}
		return m, err
	})
}
