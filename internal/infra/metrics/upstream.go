package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(upstreamCallsTotal, upstreamCallLatencyMs) }

var (
	upstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Upstream HTTP calls by client and outcome.",
		},
		[]string{"client", "outcome"}, // outcome: ok | not_found | rejected | error
	)

	upstreamCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_call_latency_ms",
			Help:    "Upstream call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"client"},
	)
)

func ObserveUpstreamCall(client, outcome string, elapsed time.Duration) {
	upstreamCallsTotal.WithLabelValues(norm(client), norm(outcome)).Inc()
	upstreamCallLatencyMs.WithLabelValues(norm(client)).Observe(float64(elapsed.Milliseconds()))
}
