package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startTime = time.Now()

	// UptimeSeconds tracks the engine uptime in seconds
	UptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "uptime_seconds",
		Help:      "The uptime of the engine in seconds",
	})

	// Total HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "endpoint", "status"})

	// HTTP request duration metrics
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	// Active HTTP requests
	ActiveRequests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "active_requests",
		Help:      "Currently active HTTP requests",
	}, []string{"endpoint"})

	// Panic recoveries per endpoint
	PanicRecoveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "panic_recoveries_total",
		Help:      "Total panics recovered by the HTTP layer",
	}, []string{"endpoint"})

	// Score submissions by outcome: accepted, duplicate, invalid, error
	ScoreSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "score_submissions_total",
		Help:      "Total score submissions by outcome",
	}, []string{"outcome"})

	// Submissions that carried no replay hash. These participate in scoring
	// but are excluded from any replay-protected statistic.
	UnprotectedSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "unprotected_submissions_total",
		Help:      "Score submissions accepted without a replay hash",
	})

	// New personal bests recorded
	NewBestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "new_bests_total",
		Help:      "Total PlayerBest replacements",
	})

	// Tip submissions by outcome: created, duplicate, invalid, error
	TipSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "tip_submissions_total",
		Help:      "Total tip submissions by outcome",
	}, []string{"outcome"})

	// Tip status transitions by target status
	TipTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "tip_transitions_total",
		Help:      "Total tip status transitions by target status",
	}, []string{"to_status"})

	// Leaderboard cache hits and misses
	LeaderboardCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "leaderboard_cache_total",
		Help:      "Leaderboard cache lookups by result",
	}, []string{"result"})

	// Database operation metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "database_operations_total",
		Help:      "Total database operations by type, table and status",
	}, []string{"operation", "table", "status"})

	DatabaseOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "database_operation_duration_seconds",
		Help:      "Database operation duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "table"})

	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcadegrid",
		Subsystem: "engine",
		Name:      "database_errors_total",
		Help:      "Total database errors by type",
	}, []string{"error_type"})
)

// StartUptimeTicker updates the uptime gauge once a second until the process
// exits.
func StartUptimeTicker() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			UptimeSeconds.Set(time.Since(startTime).Seconds())
		}
	}()
}
