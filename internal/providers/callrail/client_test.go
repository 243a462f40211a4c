package callrail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestFetchCountsCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/a/acct-1/calls.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != `Token token="key-1"` {
			t.Errorf("auth header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("start_date") != "2025-12-01" || q.Get("end_date") != "2025-12-07" {
			t.Errorf("range params = %s..%s", q.Get("start_date"), q.Get("end_date"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"calls": [
				{"answered": true, "first_call": true},
				{"answered": true, "first_call": false},
				{"answered": false, "first_call": true}
			],
			"total_records": 3
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{APIKey: "key-1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	m, err := c.Fetch(context.Background(), domain.Client{CallRailAccountID: "acct-1"}, testRange(t))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if m.PhoneCalls != 3 {
		t.Fatalf("PhoneCalls = %d, want 3", m.PhoneCalls)
	}
	if m.AnsweredCalls != 2 {
		t.Fatalf("AnsweredCalls = %d, want 2", m.AnsweredCalls)
	}
	if m.FirstTimeCallers != 2 {
		t.Fatalf("FirstTimeCallers = %d, want 2", m.FirstTimeCallers)
	}
}

func TestFetchUnconfiguredClient(t *testing.T) {
	c, err := NewClient(Options{APIKey: "key-1", BaseURL: "http://unused"})
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
		{"rate limited", http.StatusTooManyRequests, domain.ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c, err := NewClient(Options{APIKey: "key-1", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = c.Fetch(context.Background(), domain.Client{CallRailAccountID: "acct-1"}, testRange(t))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := NewClient(Options{APIKey: "key-1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = c.Fetch(ctx, domain.Client{CallRailAccountID: "acct-1"}, testRange(t))
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}
