package handlers

import (
	"encoding/json"
	"net/http"

	"leadpulse/internal/cache"
	"leadpulse/internal/domain"
	"leadpulse/internal/insights"
)

type warmRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Force     bool   `json:"force"`
}

// CacheWarm requests a background refresh of one overview cache key. The
// response is immediate; duplicate requests while a warm is running are
// no-ops reporting the in-progress state.
func (a *App) CacheWarm(w http.ResponseWriter, r *http.Request) {
	var req warmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	rng, err := domain.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	key := insights.CacheKey(rng)
	result := a.Warmer.Warm(key, a.CacheTTL, a.overviewCompute(rng), req.Force)

	payload := map[string]any{"key": key, "status": string(result.Status)}
	if result.Status == cache.WarmFresh {
		payload["remaining_seconds"] = result.RemainingSeconds
	}
	a.json(w, http.StatusAccepted, payload)
}

// CacheStatus reports freshness for one overview key without side effects.
func (a *App) CacheStatus(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	key := insights.CacheKey(rng)
	payload := statusPayload(a.Cache.Status(key))
	payload["key"] = key
	a.json(w, http.StatusOK, payload)
}

// CacheClear invalidates one key (when a range is given) or the whole cache.
func (a *App) CacheClear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("start_date") == "" && q.Get("end_date") == "" {
		a.Cache.Clear()
		a.json(w, http.StatusOK, map[string]any{"cleared": "all"})
		return
	}
	rng, err := rangeFromQuery(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	key := insights.CacheKey(rng)
	a.Cache.Clear(key)
	a.json(w, http.StatusOK, map[string]any{"cleared": key})
}

// CacheKeys lists cache keys, optionally filtered by a glob pattern.
func (a *App) CacheKeys(w http.ResponseWriter, r *http.Request) {
	keys := a.Cache.Keys(r.URL.Query().Get("pattern"))
	stats := a.Cache.Stats()
	a.json(w, http.StatusOK, map[string]any{
		"keys": keys,
		"stats": map[string]int{
			"entries": stats.Entries,
			"fresh":   stats.Fresh,
			"expired": stats.Expired,
			"warming": stats.Warming,
		},
	})
}
