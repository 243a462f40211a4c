package store

import (
	"context"
	"fmt"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
	"leadpulse/internal/sqlinline"
)

// SummaryStore persists the per-(client, date) rollup rows. The upsert
// replaces the whole record: a re-run for the same day converges to the
// freshest complete data rather than merging field by field.
type SummaryStore struct {
	sql infra.SQLExecutor
}

func NewSummaryStore(sql infra.SQLExecutor) *SummaryStore {
	return &SummaryStore{sql: sql}
}

// Upsert writes one daily summary row keyed on (client_id, metric_date).
// Idempotent: re-running the same rollup overwrites instead of duplicating.
func (s *SummaryStore) Upsert(ctx context.Context, rec domain.DailyMetricsRecord) error {
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertDailySummary,
		rec.ClientID,
		rec.Date,
		rec.AdSpend,
		rec.AdImpressions,
		rec.AdClicks,
		rec.AdConversions,
		rec.Sessions,
		rec.Users,
		rec.Pageviews,
		rec.FormFills,
		rec.GBPViews,
		rec.GBPSearches,
		rec.GBPCalls,
		rec.GBPDirectionRequests,
		rec.SearchClicks,
		rec.SearchImpressions,
		rec.SearchAvgPosition,
		rec.PhoneCalls,
		rec.AnsweredCalls,
		rec.FirstTimeCallers,
		rec.TotalLeads,
		rec.CostPerLead,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert summary %s %s: %v", domain.ErrStore, rec.ClientID, rec.Date.Format(domain.DateLayout), err)
	}
	return nil
}

// QueryRange loads summaries for the range, optionally filtered to one client.
func (s *SummaryStore) QueryRange(ctx context.Context, r domain.Range, clientID *string) ([]domain.DailyMetricsRecord, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QSelectSummariesByRange, r.Start, r.End, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: query summaries %s: %v", domain.ErrStore, r, err)
	}
	defer rows.Close()

	var records []domain.DailyMetricsRecord
	for rows.Next() {
		var rec domain.DailyMetricsRecord
		var date, createdAt, updatedAt time.Time
		if err := rows.Scan(
			&rec.ClientID,
			&date,
			&rec.AdSpend,
			&rec.AdImpressions,
			&rec.AdClicks,
			&rec.AdConversions,
			&rec.Sessions,
			&rec.Users,
			&rec.Pageviews,
			&rec.FormFills,
			&rec.GBPViews,
			&rec.GBPSearches,
			&rec.GBPCalls,
			&rec.GBPDirectionRequests,
			&rec.SearchClicks,
			&rec.SearchImpressions,
			&rec.SearchAvgPosition,
			&rec.PhoneCalls,
			&rec.AnsweredCalls,
			&rec.FirstTimeCallers,
			&rec.TotalLeads,
			&rec.CostPerLead,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan summary row: %v", domain.ErrStore, err)
		}
		rec.Date = date
		rec.CreatedAt = createdAt
		rec.UpdatedAt = updatedAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate summaries: %v", domain.ErrStore, err)
	}
	return records, nil
}
