package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workspace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CompletionAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_completion_attempts_total",
			Help: "Gemini generate attempts by outcome (success, retryable, terminal).",
		},
		[]string{"outcome"},
	)

	LiveDataTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_livedata_tasks_total",
			Help: "Live-data context tasks executed, by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	DisclaimerRewritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workspace_disclaimer_rewrites_total",
			Help: "Corrective re-invocations issued after a real-time disclaimer.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CompletionAttemptsTotal,
		LiveDataTasksTotal,
		DisclaimerRewritesTotal,
	)
}
