package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leadpulse/internal/domain"
)

type clientPayload struct {
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name"`
	Active              bool   `json:"active"`
	AdsCustomerID       string `json:"ads_customer_id,omitempty"`
	AnalyticsPropertyID string `json:"analytics_property_id,omitempty"`
	GBPLocationID       string `json:"gbp_location_id,omitempty"`
	SearchConsoleSite   string `json:"search_console_site,omitempty"`
	CallRailAccountID   string `json:"callrail_account_id,omitempty"`
}

func (a *App) ClientsList(w http.ResponseWriter, r *http.Request) {
	clients, err := a.Clients.List(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load clients")
		return
	}
	items := make([]clientPayload, 0, len(clients))
	for _, c := range clients {
		items = append(items, clientPayload{
			ID:                  c.ID,
			Name:                c.Name,
			Active:              c.Active,
			AdsCustomerID:       c.AdsCustomerID,
			AnalyticsPropertyID: c.AnalyticsPropertyID,
			GBPLocationID:       c.GBPLocationID,
			SearchConsoleSite:   c.SearchConsoleSite,
			CallRailAccountID:   c.CallRailAccountID,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"clients": items})
}

func (a *App) ClientsCreate(w http.ResponseWriter, r *http.Request) {
	var req clientPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	id, err := a.Clients.Create(r.Context(), domain.Client{
		Name:                strings.TrimSpace(req.Name),
		AdsCustomerID:       req.AdsCustomerID,
		AnalyticsPropertyID: req.AnalyticsPropertyID,
		GBPLocationID:       req.GBPLocationID,
		SearchConsoleSite:   req.SearchConsoleSite,
		CallRailAccountID:   req.CallRailAccountID,
	})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create client")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id})
}

func (a *App) ClientDeactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Clients.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "client not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to deactivate client")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "active": false})
}
