package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadpulse/internal/domain"
)

func testRange(t *testing.T) domain.Range {
	t.Helper()
	r, err := domain.ParseRange("2025-12-01", "2025-12-07")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	return r
}

func TestFetchParsesReportTotals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/prop-9:runReport" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		var req runReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.DateRanges) != 1 || req.DateRanges[0].StartDate != "2025-12-01" {
			t.Errorf("date ranges = %+v", req.DateRanges)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totals": {"sessions": 540, "totalUsers": 300, "screenPageViews": 1200, "keyEvents": 12}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{Token: "tok", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	m, err := c.Fetch(context.Background(), domain.Client{AnalyticsPropertyID: "prop-9"}, testRange(t))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if m.Sessions != 540 || m.Users != 300 || m.Pageviews != 1200 || m.FormFills != 12 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestFetchRequiresPropertyID(t *testing.T) {
	c, err := NewClient(Options{Token: "tok", BaseURL: "http://unused"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Fetch(context.Background(), domain.Client{}, testRange(t))
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestFetchMapsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuth},
		{"forbidden", http.StatusForbidden, domain.ErrAuth},
		{"server error", http.StatusInternalServerError, domain.ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c, err := NewClient(Options{Token: "tok", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = c.Fetch(context.Background(), domain.Client{AnalyticsPropertyID: "prop-9"}, testRange(t))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
