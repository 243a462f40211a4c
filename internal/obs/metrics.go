// Package obs holds the service's Prometheus instrumentation.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RollupJobs counts backfill jobs by terminal status (succeeded, failed).
	RollupJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpulse",
		Name:      "rollup_jobs_total",
		Help:      "Backfill rollup jobs by terminal status.",
	}, []string{"status"})

	// ProviderFailures counts non-fatal provider fetch failures by taxonomy kind.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpulse",
		Name:      "provider_failures_total",
		Help:      "Provider fetch failures by provider and error kind.",
	}, []string{"provider", "kind"})

	// CacheRequests counts cache lookups by result (hit, miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpulse",
		Name:      "cache_requests_total",
		Help:      "Response cache lookups by result.",
	}, []string{"result"})

	// CacheWarms counts warm attempts by outcome (started, skipped, success, failure).
	CacheWarms = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadpulse",
		Name:      "cache_warms_total",
		Help:      "Cache warm attempts by outcome.",
	}, []string{"outcome"})
)
