package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nas_console",
		Subsystem: "engine",
		Name:      "requests_total",
		Help:      "Total backend requests by method and result.",
	}, []string{"method", "result"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nas_console",
		Subsystem: "engine",
		Name:      "request_duration_seconds",
		Help:      "Backend request duration in seconds.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

func resultLabel(err error) string {
	switch kindOf(err) {
	case "":
		if err != nil {
			return "error"
		}
		return "success"
	case KindTransport:
		return "transport_failure"
	case KindServer:
		return "server_error"
	default:
		return "malformed_payload"
	}
}
