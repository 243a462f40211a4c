// Package insights holds the aggregate queries the response cache fronts.
// They read the summary store only; upstream providers are never touched on
// the read path.
package insights

import (
	"context"
	"time"

	"leadpulse/internal/domain"
)

// SummaryReader is the slice of the store the overview needs.
type SummaryReader interface {
	QueryRange(ctx context.Context, r domain.Range, clientID *string) ([]domain.DailyMetricsRecord, error)
}

// Totals sums the lead-relevant fields across whatever records are in scope.
type Totals struct {
	AdSpend           float64 `json:"ad_spend"`
	AdClicks          int     `json:"ad_clicks"`
	AdImpressions     int     `json:"ad_impressions"`
	Sessions          int     `json:"sessions"`
	Users             int     `json:"users"`
	FormFills         int     `json:"form_fills"`
	GBPCalls          int     `json:"gbp_calls"`
	PhoneCalls        int     `json:"phone_calls"`
	SearchClicks      int     `json:"search_clicks"`
	SearchImpressions int     `json:"search_impressions"`
	TotalLeads        int     `json:"total_leads"`
	CostPerLead       float64 `json:"cost_per_lead"`
}

// ClientBreakdown is one client's slice of the overview.
type ClientBreakdown struct {
	ClientID string `json:"client_id"`
	Days     int    `json:"days"`
	Totals   Totals `json:"totals"`
}

// Overview is the cached dashboard payload for a date range.
type Overview struct {
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Records     int               `json:"records"`
	Totals      Totals            `json:"totals"`
	Clients     []ClientBreakdown `json:"clients"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// CacheKey names the overview cache entry for a range, e.g.
// "overview-2025-12-01-2025-12-07".
func CacheKey(r domain.Range) string {
	return "overview-" + r.Start.Format(domain.DateLayout) + "-" + r.End.Format(domain.DateLayout)
}

// Service computes overviews from stored summaries.
type Service struct {
	store SummaryReader
}

func NewService(store SummaryReader) *Service {
	return &Service{store: store}
}

// Overview loads and aggregates the range's summaries.
func (s *Service) Overview(ctx context.Context, r domain.Range) (*Overview, error) {
	records, err := s.store.QueryRange(ctx, r, nil)
	if err != nil {
		return nil, err
	}
	return Aggregate(r, records), nil
}

// Aggregate folds summary records into the overview payload. Records arrive
// ordered by date then client; client breakdowns preserve first-seen order.
func Aggregate(r domain.Range, records []domain.DailyMetricsRecord) *Overview {
	o := &Overview{
		StartDate:   r.Start.Format(domain.DateLayout),
		EndDate:     r.End.Format(domain.DateLayout),
		Records:     len(records),
		GeneratedAt: time.Now(),
	}

	index := make(map[string]int)
	for _, rec := range records {
		addRecord(&o.Totals, rec)
		i, ok := index[rec.ClientID]
		if !ok {
			i = len(o.Clients)
			index[rec.ClientID] = i
			o.Clients = append(o.Clients, ClientBreakdown{ClientID: rec.ClientID})
		}
		o.Clients[i].Days++
		addRecord(&o.Clients[i].Totals, rec)
	}

	finalize(&o.Totals)
	for i := range o.Clients {
		finalize(&o.Clients[i].Totals)
	}
	return o
}

func addRecord(t *Totals, rec domain.DailyMetricsRecord) {
	t.AdSpend += rec.AdSpend
	t.AdClicks += rec.AdClicks
	t.AdImpressions += rec.AdImpressions
	t.Sessions += rec.Sessions
	t.Users += rec.Users
	t.FormFills += rec.FormFills
	t.GBPCalls += rec.GBPCalls
	t.PhoneCalls += rec.PhoneCalls
	t.SearchClicks += rec.SearchClicks
	t.SearchImpressions += rec.SearchImpressions
	t.TotalLeads += rec.TotalLeads
}

func finalize(t *Totals) {
	if t.TotalLeads > 0 {
		t.CostPerLead = t.AdSpend / float64(t.TotalLeads)
	}
}
