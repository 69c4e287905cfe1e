package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(registrationsTotal, registryEntries, registrySkippedLines) }

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_registrations_total",
			Help: "Registry appends, labeled by result.",
		},
		[]string{"result"}, // 'ok', 'error'
	)

	registryEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_entries",
			Help: "Distinct chats currently mapped to an account.",
		},
	)

	registrySkippedLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_skipped_lines_total",
			Help: "Malformed registry records ignored while loading.",
		},
	)
)

func IncRegistration(ok bool) {
	if ok {
		registrationsTotal.WithLabelValues("ok").Inc()
		return
	}
	registrationsTotal.WithLabelValues("error").Inc()
}

func SetRegistryEntries(n int) {
	registryEntries.Set(float64(n))
}

func AddRegistrySkipped(n int) {
	registrySkippedLines.Add(float64(n))
}
