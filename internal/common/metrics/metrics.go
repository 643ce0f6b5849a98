// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// MatchingRequests counts orchestrator runs by outcome ("success" or an error code).
	MatchingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Total number of caregiver matching requests by outcome",
		},
		[]string{"outcome"},
	)

	MatchingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_request_duration_seconds",
			Help:    "End-to-end duration of caregiver matching requests",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	MatchingCandidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidates_evaluated",
			Help:    "Number of candidates scored per matching request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// CandidateCache counts cache lookups by result ("hit", "miss" or "error").
	CandidateCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidate_cache_total",
			Help: "Candidate cache lookups by result",
		},
		[]string{"result"},
	)
)
