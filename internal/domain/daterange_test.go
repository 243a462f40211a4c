package domain

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantErr  bool
		wantDays int
	}{
		{"single day", "2025-12-01", "2025-12-01", false, 1},
		{"week", "2025-12-01", "2025-12-07", false, 7},
		{"month boundary", "2025-11-29", "2025-12-02", false, 4},
		{"reversed", "2025-12-07", "2025-12-01", true, 0},
		{"garbage start", "yesterday", "2025-12-01", true, 0},
		{"garbage end", "2025-12-01", "12/07/2025", true, 0},
		{"empty", "", "", true, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRange(tc.start, tc.end)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseRange(%q, %q) expected error", tc.start, tc.end)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange(%q, %q) error: %v", tc.start, tc.end, err)
			}
			if got := r.Len(); got != tc.wantDays {
				t.Fatalf("Len() = %d, want %d", got, tc.wantDays)
			}
			if got := len(r.Days()); got != tc.wantDays {
				t.Fatalf("len(Days()) = %d, want %d", got, tc.wantDays)
			}
		})
	}
}

func TestDaysAreChronological(t *testing.T) {
	r, err := ParseRange("2025-12-01", "2025-12-05")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	days := r.Days()
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1]) {
			t.Fatalf("days out of order at %d: %s then %s", i, days[i-1], days[i])
		}
	}
	if days[0].Format(DateLayout) != "2025-12-01" || days[4].Format(DateLayout) != "2025-12-05" {
		t.Fatalf("unexpected bounds: %s .. %s", days[0], days[4])
	}
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2025, 12, 10, 15, 30, 0, 0, time.UTC)

	r, err := LastNDays(7, now)
	if err != nil {
		t.Fatalf("LastNDays: %v", err)
	}
	if got := r.End.Format(DateLayout); got != "2025-12-09" {
		t.Fatalf("end = %s, want yesterday 2025-12-09", got)
	}
	if got := r.Start.Format(DateLayout); got != "2025-12-03" {
		t.Fatalf("start = %s, want 2025-12-03", got)
	}
	if r.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", r.Len())
	}

	if _, err := LastNDays(0, now); err == nil {
		t.Fatalf("LastNDays(0) expected error")
	}
}
