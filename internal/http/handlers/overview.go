package handlers

import (
	"context"
	"net/http"

	"leadpulse/internal/cache"
	"leadpulse/internal/domain"
	"leadpulse/internal/insights"
)

// InsightsOverview serves the aggregated dashboard payload for a date range,
// read-through the response cache. A total miss computes inline from the
// store; a present-but-aging entry is served as-is while a background warm
// refreshes it.
func (a *App) InsightsOverview(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	key := insights.CacheKey(rng)

	if value, ok := a.Cache.Get(key); ok {
		if a.Cache.NeedsWarming(key) {
			a.Warmer.Warm(key, a.CacheTTL, a.overviewCompute(rng), false)
		}
		a.json(w, http.StatusOK, map[string]any{
			"data":  value,
			"cache": statusPayload(a.Cache.Status(key)),
		})
		return
	}

	overview, err := a.Insights.Overview(r.Context(), rng)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("overview query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load overview")
		return
	}
	a.Cache.Set(key, overview, a.CacheTTL)
	a.json(w, http.StatusOK, map[string]any{
		"data":  overview,
		"cache": statusPayload(a.Cache.Status(key)),
	})
}

func (a *App) overviewCompute(rng domain.Range) cache.ComputeFunc {
	return func(ctx context.Context) (any, error) {
		return a.Insights.Overview(ctx, rng)
	}
}

func rangeFromQuery(r *http.Request) (domain.Range, error) {
	return domain.ParseRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
}

func statusPayload(st cache.Status) map[string]any {
	payload := map[string]any{"status": string(st.State)}
	switch st.State {
	case cache.StateFresh, cache.StateWarming:
		if !st.ExpiresAt.IsZero() {
			payload["expires_at"] = st.ExpiresAt
			payload["remaining_seconds"] = st.RemainingSeconds
			payload["percent_used"] = st.PercentUsed
		}
	case cache.StateExpired:
		payload["expires_at"] = st.ExpiresAt
		payload["percent_used"] = st.PercentUsed
	}
	return payload
}
