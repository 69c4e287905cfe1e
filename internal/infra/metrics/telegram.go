package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookUpdatesTotal,
		telegramCallFailuresTotal,
		telegramRateLimitTriggeredTotal,
	)
}

var (
	webhookUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Webhook deliveries by result.",
		},
		[]string{"result"}, // accepted | empty | malformed | rejected
	)

	telegramCallFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_call_failures_total",
			Help: "Failed Bot API calls by method.",
		},
		[]string{"method"},
	)

	telegramRateLimitTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_rate_limit_triggered_total",
			Help: "Total number of times chats have been rate-limited.",
		},
	)
)

func IncWebhookUpdate(result string) {
	webhookUpdatesTotal.WithLabelValues(norm(result)).Inc()
}

func IncTelegramCallFailure(method string) {
	telegramCallFailuresTotal.WithLabelValues(method).Inc()
}

func IncRateLimitTriggered() {
	telegramRateLimitTriggeredTotal.Inc()
}
