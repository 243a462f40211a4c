package domain

import "time"

// Client is a managed account whose metrics get rolled up daily. A provider
// is considered configured for the client when its identifier field is
// non-empty.
type Client struct {
	ID                  string
	Name                string
	Active              bool
	AdsCustomerID       string
	AnalyticsPropertyID string
	GBPLocationID       string
	SearchConsoleSite   string
	CallRailAccountID   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProviderConfigured reports whether the client carries the identifier the
// given provider needs.
func (c Client) ProviderConfigured(p Provider) bool {
	switch p {
	case ProviderAds:
		return c.AdsCustomerID != ""
	case ProviderAnalytics:
		return c.AnalyticsPropertyID != ""
	case ProviderGBP:
		return c.GBPLocationID != ""
	case ProviderSearchConsole:
		return c.SearchConsoleSite != ""
	case ProviderCallRail:
		return c.CallRailAccountID != ""
	}
	return false
}
