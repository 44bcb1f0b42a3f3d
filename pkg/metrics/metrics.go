package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты вызова сервера.
const (
	ResultOK        = "ok"
	ResultAuth      = "auth_error"
	ResultTransport = "transport_error"
	ResultRejected  = "rejected"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Total number of backend REST calls broken down by endpoint and result.",
	}, []string{"endpoint", "result"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "console",
		Subsystem: "backend",
		Name:      "latency_seconds",
		Help:      "Latency distribution for backend REST calls.",
		Buckets: []float64{
			0.005, 0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10,
		},
	}, []string{"endpoint", "result"})

	staleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "cache",
		Name:      "stale_responses_total",
		Help:      "Responses discarded because a newer fetch was issued for the same cache.",
	}, []string{"cache"})
)

// ObserveBackendCall учитывает один вызов сервера. endpoint - шаблон пути без идентификаторов.
func ObserveBackendCall(endpoint, result string, started time.Time) {
	backendRequests.WithLabelValues(endpoint, result).Inc()
	backendLatency.WithLabelValues(endpoint, result).Observe(time.Since(started).Seconds())
}

func IncStaleResponse(cache string) {
	staleResponses.WithLabelValues(cache).Inc()
}
