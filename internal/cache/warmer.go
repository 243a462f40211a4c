package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"leadpulse/internal/obs"
)

// ComputeFunc produces a fresh value for a cache key. It reads the summary
// store, never upstream providers, so a warm is cheap relative to a rollup.
type ComputeFunc func(ctx context.Context) (any, error)

// WarmStatus is what a warm request reports back immediately.
type WarmStatus string

const (
	// WarmFresh means the entry is inside its window and nothing happened.
	WarmFresh WarmStatus = "fresh"
	// WarmStarted means a background refresh was kicked off by this request.
	WarmStarted WarmStatus = "warming_started"
	// WarmInProgress means another request already holds the refresh.
	WarmInProgress WarmStatus = "warming"
)

// WarmResult is the immediate, non-blocking answer to a warm request.
type WarmResult struct {
	Status           WarmStatus
	RemainingSeconds int
}

// Warmer triggers deduplicated background refreshes of cache entries. At most
// one compute runs per key at a time; readers keep getting the previous value
// until the refresh lands.
type Warmer struct {
	cache          *Cache
	logger         zerolog.Logger
	computeTimeout time.Duration

	wg sync.WaitGroup
}

// NewWarmer constructs a warmer. computeTimeout bounds each background
// compute; it is detached from the triggering request's context on purpose.
func NewWarmer(c *Cache, logger zerolog.Logger, computeTimeout time.Duration) *Warmer {
	return &Warmer{cache: c, logger: logger, computeTimeout: computeTimeout}
}

// Warm refreshes the key in the background if it needs it (always, when
// force is set) and returns immediately. A request that loses the
// per-key claim is a no-op reporting the in-progress state.
func (w *Warmer) Warm(key string, ttl time.Duration, compute ComputeFunc, force bool) WarmResult {
	if !w.cache.StartWarming(key, force) {
		if st := w.cache.Status(key); st.State == StateWarming {
			obs.CacheWarms.WithLabelValues("skipped").Inc()
			return WarmResult{Status: WarmInProgress}
		} else if st.State == StateFresh {
			obs.CacheWarms.WithLabelValues("skipped").Inc()
			return WarmResult{Status: WarmFresh, RemainingSeconds: st.RemainingSeconds}
		}
		// Lost a race against a concurrent claim between the two lock
		// acquisitions; treat it as warming.
		obs.CacheWarms.WithLabelValues("skipped").Inc()
		return WarmResult{Status: WarmInProgress}
	}

	obs.CacheWarms.WithLabelValues("started").Inc()
	w.wg.Add(1)
	go w.refresh(key, ttl, compute)

	return WarmResult{Status: WarmStarted}
}

func (w *Warmer) refresh(key string, ttl time.Duration, compute ComputeFunc) {
	defer w.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), w.computeTimeout)
	defer cancel()

	start := time.Now()
	value, err := compute(ctx)
	if err != nil {
		// Keep the previous entry so stale-but-valid data still serves
		// reads; only the warming mark is released.
		w.cache.SetWarming(key, false)
		obs.CacheWarms.WithLabelValues("failure").Inc()
		w.logger.Error().Err(err).Str("key", key).Dur("elapsed", time.Since(start)).Msg("cache warm failed")
		return
	}

	w.cache.Set(key, value, ttl)
	obs.CacheWarms.WithLabelValues("success").Inc()
	w.logger.Info().Str("key", key).Dur("elapsed", time.Since(start)).Msg("cache warm complete")
}

// Close waits for in-flight warms to finish. Each is bounded by the compute
// timeout, so shutdown is bounded too.
func (w *Warmer) Close() {
	w.wg.Wait()
}
