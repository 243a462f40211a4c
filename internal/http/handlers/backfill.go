package handlers

import (
	"encoding/json"
	"net/http"

	"leadpulse/internal/domain"
)

type backfillRequest struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	ClientIDs []string `json:"client_ids"`
}

type quickBackfillRequest struct {
	Days int `json:"days"`
}

const defaultQuickDays = 7

// BackfillRun executes a rollup backfill over an explicit date range and
// returns the run report. The response is always 200 once the run starts;
// per-job failures ride inside the report.
func (a *App) BackfillRun(w http.ResponseWriter, r *http.Request) {
	var req backfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	rng, err := domain.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.runBackfill(w, r, rng, req.ClientIDs)
}

// BackfillQuick derives the range from a trailing day count ending yesterday.
func (a *App) BackfillQuick(w http.ResponseWriter, r *http.Request) {
	req := quickBackfillRequest{Days: defaultQuickDays}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
		if req.Days == 0 {
			req.Days = defaultQuickDays
		}
	}
	rng, err := domain.LastNDays(req.Days, a.now())
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.runBackfill(w, r, rng, nil)
}

func (a *App) runBackfill(w http.ResponseWriter, r *http.Request, rng domain.Range, clientIDs []string) {
	report, err := a.Backfill.Run(r.Context(), rng, clientIDs)
	if err != nil {
		a.Logger.Error().Err(err).Str("range", rng.String()).Msg("backfill run failed to start")
		a.error(w, http.StatusInternalServerError, "internal", "backfill failed to start")
		return
	}
	a.json(w, http.StatusOK, report)
}
