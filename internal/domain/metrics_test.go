package domain

import "testing"

func TestMergeAndDerive(t *testing.T) {
	rec := DailyMetricsRecord{ClientID: "c1"}
	rec.Merge(ProviderAds, ProviderMetrics{AdSpend: 120.50, AdClicks: 80, AdConversions: 4})
	rec.Merge(ProviderAnalytics, ProviderMetrics{Sessions: 300, FormFills: 6})
	rec.Merge(ProviderGBP, ProviderMetrics{GBPViews: 900, GBPCalls: 3})
	rec.Merge(ProviderCallRail, ProviderMetrics{PhoneCalls: 7, AnsweredCalls: 5})
	rec.Derive()

	if rec.TotalLeads != 20 {
		t.Fatalf("TotalLeads = %d, want 20 (6 form fills + 3 gbp calls + 4 conversions + 7 phone calls)", rec.TotalLeads)
	}
	want := 120.50 / 20
	if rec.CostPerLead != want {
		t.Fatalf("CostPerLead = %f, want %f", rec.CostPerLead, want)
	}
}

func TestDeriveZeroLeads(t *testing.T) {
	rec := DailyMetricsRecord{AdSpend: 55}
	rec.Derive()
	if rec.TotalLeads != 0 {
		t.Fatalf("TotalLeads = %d, want 0", rec.TotalLeads)
	}
	if rec.CostPerLead != 0 {
		t.Fatalf("CostPerLead = %f, want 0 when no leads", rec.CostPerLead)
	}
}

func TestProviderConfigured(t *testing.T) {
	c := Client{
		AdsCustomerID:     "123-456-7890",
		CallRailAccountID: "AC123",
	}
	tests := []struct {
		provider Provider
		want     bool
	}{
		{ProviderAds, true},
		{ProviderCallRail, true},
		{ProviderAnalytics, false},
		{ProviderGBP, false},
		{ProviderSearchConsole, false},
		{Provider("bogus"), false},
	}
	for _, tc := range tests {
		if got := c.ProviderConfigured(tc.provider); got != tc.want {
			t.Fatalf("ProviderConfigured(%s) = %v, want %v", tc.provider, got, tc.want)
		}
	}
}
