package rollup

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"leadpulse/internal/domain"
)

type fakeDirectory struct {
	clients []domain.Client
}

func (d *fakeDirectory) Active(ctx context.Context) ([]domain.Client, error) {
	return d.clients, nil
}

func (d *fakeDirectory) ByIDs(ctx context.Context, ids []string) ([]domain.Client, error) {
	var out []domain.Client
	for _, c := range d.clients {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

type computeFn func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error)

type fakeComputer struct {
	fn computeFn
}

func (f *fakeComputer) Compute(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
	return f.fn(ctx, client, date)
}

func fastOptions() Options {
	return Options{Concurrency: 4, JobTimeout: time.Second, DatesPerSecond: 1000}
}

func mustRange(t *testing.T, start, end string) domain.Range {
	t.Helper()
	r, err := domain.ParseRange(start, end)
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	return r
}

func TestRunSurvivesFailingDay(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{{ID: "c1", Name: "Acme"}}}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		if date.Format(domain.DateLayout) == "2025-12-03" {
			panic("connector blew up")
		}
		return domain.DailyMetricsRecord{ClientID: client.ID, Date: date}, nil, nil
	}}

	o := NewOrchestrator(computer, directory, fastOptions(), zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-05"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.TotalJobs != 5 || report.Succeeded != 4 || report.Failed != 1 {
		t.Fatalf("report = %d total / %d ok / %d failed, want 5/4/1", report.TotalJobs, report.Succeeded, report.Failed)
	}
	if len(report.Dates) != 5 {
		t.Fatalf("report covers %d dates, want all 5", len(report.Dates))
	}
	for i, want := range []string{"2025-12-01", "2025-12-02", "2025-12-03", "2025-12-04", "2025-12-05"} {
		if report.Dates[i].Date != want {
			t.Fatalf("dates out of order: position %d is %s, want %s", i, report.Dates[i].Date, want)
		}
	}

	failed := report.Dates[2].Jobs[0]
	if failed.Status != JobFailed || failed.Error == "" {
		t.Fatalf("day 3 job = %+v, want failed with an error message", failed)
	}
}

func TestRunReportsPartialProviderFailures(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{{ID: "c1", Name: "Acme"}}}
	gbpFailure := ProviderFailure{
		Provider: domain.ProviderGBP,
		Label:    "Google Business Profile",
		Kind:     domain.KindUpstream,
		Message:  "upstream error: gbp responded 502",
	}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		return domain.DailyMetricsRecord{ClientID: client.ID, Date: date}, []ProviderFailure{gbpFailure}, nil
	}}

	o := NewOrchestrator(computer, directory, fastOptions(), zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-03"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Succeeded != 3 || report.Failed != 0 {
		t.Fatalf("jobs with provider failures must still succeed: %d ok / %d failed", report.Succeeded, report.Failed)
	}
	for _, dr := range report.Dates {
		job := dr.Jobs[0]
		if job.Status != JobSucceeded {
			t.Fatalf("job %s/%s = %s, want succeeded", job.ClientID, job.Date, job.Status)
		}
		if len(job.ProviderErrors) != 1 || job.ProviderErrors[0].Provider != domain.ProviderGBP {
			t.Fatalf("job %s missing the gbp partial-failure note: %+v", job.Date, job.ProviderErrors)
		}
	}
}

func TestRunBoundsConcurrencyWithinDate(t *testing.T) {
	clients := make([]domain.Client, 12)
	for i := range clients {
		clients[i] = domain.Client{ID: fmt.Sprintf("c%d", i)}
	}
	directory := &fakeDirectory{clients: clients}

	var inFlight, peak int32
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return domain.DailyMetricsRecord{}, nil, nil
	}}

	opts := fastOptions()
	opts.Concurrency = 3
	o := NewOrchestrator(computer, directory, opts, zerolog.Nop())
	if _, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-01"), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := atomic.LoadInt32(&peak); got > 3 {
		t.Fatalf("peak concurrency = %d, want at most 3", got)
	}
}

func TestRunExplicitClientSubset(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{
		{ID: "c1", Name: "Acme"},
		{ID: "c2", Name: "Globex"},
		{ID: "c3", Name: "Initech"},
	}}

	var mu sync.Mutex
	seen := map[string]int{}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		mu.Lock()
		seen[client.ID]++
		mu.Unlock()
		return domain.DailyMetricsRecord{}, nil, nil
	}}

	o := NewOrchestrator(computer, directory, fastOptions(), zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-02"), []string{"c2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Clients != 1 || report.TotalJobs != 2 {
		t.Fatalf("report = %d clients / %d jobs, want 1/2", report.Clients, report.TotalJobs)
	}
	if seen["c1"] != 0 || seen["c2"] != 2 || seen["c3"] != 0 {
		t.Fatalf("computed clients = %v, want only c2 twice", seen)
	}
}

func TestRunJobTimeoutFailsOnlyThatJob(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{{ID: "c1"}}}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		if date.Format(domain.DateLayout) == "2025-12-01" {
			<-ctx.Done()
			return domain.DailyMetricsRecord{}, nil, fmt.Errorf("%w: job deadline", domain.ErrTimeout)
		}
		return domain.DailyMetricsRecord{}, nil, nil
	}}

	opts := fastOptions()
	opts.JobTimeout = 30 * time.Millisecond
	o := NewOrchestrator(computer, directory, opts, zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-02"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 || report.Succeeded != 1 {
		t.Fatalf("report = %d ok / %d failed, want 1/1", report.Succeeded, report.Failed)
	}
	if got := report.Dates[0].Jobs[0].ErrorKind; got != string(domain.KindTimeout) {
		t.Fatalf("error kind = %q, want timeout", got)
	}
}

func TestRunTimedOutStoreWriteClassifiesAsTimeout(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{{ID: "c1"}}}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		<-ctx.Done()
		return domain.DailyMetricsRecord{}, nil, fmt.Errorf("%w: upsert interrupted: %v", domain.ErrStore, ctx.Err())
	}}

	opts := fastOptions()
	opts.JobTimeout = 30 * time.Millisecond
	o := NewOrchestrator(computer, directory, opts, zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-01"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	job := report.Dates[0].Jobs[0]
	if job.Status != JobFailed {
		t.Fatalf("job status = %s, want failed", job.Status)
	}
	if job.ErrorKind != string(domain.KindTimeout) {
		t.Fatalf("error kind = %q, want timeout even when the deadline interrupted the store write", job.ErrorKind)
	}
}

func TestRunAveragesSuccessDurations(t *testing.T) {
	directory := &fakeDirectory{clients: []domain.Client{{ID: "c1"}}}
	computer := &fakeComputer{fn: func(ctx context.Context, client domain.Client, date time.Time) (domain.DailyMetricsRecord, []ProviderFailure, error) {
		time.Sleep(10 * time.Millisecond)
		return domain.DailyMetricsRecord{}, nil, nil
	}}

	o := NewOrchestrator(computer, directory, fastOptions(), zerolog.Nop())
	report, err := o.Run(context.Background(), mustRange(t, "2025-12-01", "2025-12-03"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AvgSuccessMS < 10 {
		t.Fatalf("avg duration = %dms, want at least the 10ms sleep", report.AvgSuccessMS)
	}
	if report.RunID == "" {
		t.Fatalf("run id must be set")
	}
}
