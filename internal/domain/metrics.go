package domain

import "time"

// Provider identifies one upstream metrics source.
type Provider string

const (
	ProviderAds           Provider = "ads"
	ProviderAnalytics     Provider = "analytics"
	ProviderGBP           Provider = "gbp"
	ProviderSearchConsole Provider = "search_console"
	ProviderCallRail      Provider = "callrail"
)

// Providers lists every upstream source in rollup order.
var Providers = []Provider{
	ProviderAds,
	ProviderAnalytics,
	ProviderGBP,
	ProviderSearchConsole,
	ProviderCallRail,
}

// ProviderMetrics carries the raw numbers one connector returns for a single
// client-day. Only the fields owned by that connector are populated; the rest
// stay zero and are ignored by Merge.
type ProviderMetrics struct {
	AdSpend       float64
	AdImpressions int
	AdClicks      int
	AdConversions int

	Sessions  int
	Users     int
	Pageviews int
	FormFills int

	GBPViews             int
	GBPSearches          int
	GBPCalls             int
	GBPDirectionRequests int

	SearchClicks      int
	SearchImpressions int
	SearchAvgPosition float64

	PhoneCalls       int
	AnsweredCalls    int
	FirstTimeCallers int
}

// DailyMetricsRecord is the normalized per-client per-day summary row.
// Exactly one record exists per (ClientID, Date); rollups overwrite it whole.
type DailyMetricsRecord struct {
	ClientID string
	Date     time.Time

	AdSpend       float64
	AdImpressions int
	AdClicks      int
	AdConversions int

	Sessions  int
	Users     int
	Pageviews int
	FormFills int

	GBPViews             int
	GBPSearches          int
	GBPCalls             int
	GBPDirectionRequests int

	SearchClicks      int
	SearchImpressions int
	SearchAvgPosition float64

	PhoneCalls       int
	AnsweredCalls    int
	FirstTimeCallers int

	TotalLeads  int
	CostPerLead float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Merge copies one provider's fields into the record. Unconfigured or failed
// providers are simply never merged, leaving their fields at zero.
func (r *DailyMetricsRecord) Merge(p Provider, m ProviderMetrics) {
	switch p {
	case ProviderAds:
		r.AdSpend = m.AdSpend
		r.AdImpressions = m.AdImpressions
		r.AdClicks = m.AdClicks
		r.AdConversions = m.AdConversions
	case ProviderAnalytics:
		r.Sessions = m.Sessions
		r.Users = m.Users
		r.Pageviews = m.Pageviews
		r.FormFills = m.FormFills
	case ProviderGBP:
		r.GBPViews = m.GBPViews
		r.GBPSearches = m.GBPSearches
		r.GBPCalls = m.GBPCalls
		r.GBPDirectionRequests = m.GBPDirectionRequests
	case ProviderSearchConsole:
		r.SearchClicks = m.SearchClicks
		r.SearchImpressions = m.SearchImpressions
		r.SearchAvgPosition = m.SearchAvgPosition
	case ProviderCallRail:
		r.PhoneCalls = m.PhoneCalls
		r.AnsweredCalls = m.AnsweredCalls
		r.FirstTimeCallers = m.FirstTimeCallers
	}
}

// Derive recomputes the cross-provider fields. Lead-like signals are summed
// across channels; cost per lead divides spend by that sum and stays zero
// when no leads were recorded.
func (r *DailyMetricsRecord) Derive() {
	r.TotalLeads = r.FormFills + r.GBPCalls + r.AdConversions + r.PhoneCalls
	if r.TotalLeads > 0 {
		r.CostPerLead = r.AdSpend / float64(r.TotalLeads)
	} else {
		r.CostPerLead = 0
	}
}
