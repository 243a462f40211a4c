package rollup

import "time"

// JobStatus is the terminal state of one backfill job.
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// JobResult is the report line for one (client, date) rollup.
type JobResult struct {
	ClientID       string            `json:"client_id"`
	ClientName     string            `json:"client_name"`
	Date           string            `json:"date"`
	Status         JobStatus         `json:"status"`
	DurationMS     int64             `json:"duration_ms"`
	ErrorKind      string            `json:"error_kind,omitempty"`
	Error          string            `json:"error,omitempty"`
	ProviderErrors []ProviderFailure `json:"provider_errors,omitempty"`
}

// DateReport groups a date's jobs; dates appear in chronological order.
type DateReport struct {
	Date      string      `json:"date"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Jobs      []JobResult `json:"jobs"`
}

// RunReport is the caller-facing summary of a backfill run. It always covers
// every expanded job; individual failures are embedded, never fatal.
type RunReport struct {
	RunID        string       `json:"run_id"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	Clients      int          `json:"clients"`
	TotalJobs    int          `json:"total_jobs"`
	Succeeded    int          `json:"succeeded"`
	Failed       int          `json:"failed"`
	AvgSuccessMS int64        `json:"avg_success_ms"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	Dates        []DateReport `json:"dates"`
}
