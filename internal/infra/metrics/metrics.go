// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		eventsTotal,
		stateTransitionsTotal,
		buttonPressesTotal,
		commandsTotal,
	)
}

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Inbound events handled by the dispatcher, by kind.",
		},
		[]string{"kind"}, // text | button | unknown
	)

	stateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_state_transitions_total",
			Help: "Conversation state writes, by previous and next mode.",
		},
		[]string{"from", "to"},
	)

	buttonPressesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_button_presses_total",
			Help: "Button presses by resolved token.",
		},
		[]string{"token"},
	)

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Slash commands and mentions recognised in idle chats.",
		},
		[]string{"command"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Conversation helpers --------

func IncEvent(kind string) {
	eventsTotal.WithLabelValues(norm(kind)).Inc()
}

func IncStateTransition(from, to string) {
	stateTransitionsTotal.WithLabelValues(norm(from), norm(to)).Inc()
}

// IncButtonPress counts a press; unknown tokens are folded into one label
// so arbitrary callback data cannot grow the series set.
func IncButtonPress(token string, known bool) {
	if !known {
		token = "unknown"
	}
	buttonPressesTotal.WithLabelValues(norm(token)).Inc()
}

func IncCommand(command string) {
	commandsTotal.WithLabelValues(norm(command)).Inc()
}
