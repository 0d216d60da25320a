package actor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	mailboxRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyactor",
			Subsystem: "actor",
			Name:      "mailbox_rejected_total",
			Help:      "Envelopes rejected by a full or closed mailbox.",
		}, []string{"actor", "reason"})
	signalExhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyactor",
			Subsystem: "actor",
			Name:      "signal_exhausted_total",
			Help:      "Requests refused because every signal of the actor was in use.",
		}, []string{"actor"})
	mailboxLength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tinyactor",
			Subsystem: "actor",
			Name:      "mailbox_length",
			Help:      "Envelopes waiting in the mailbox after the last poll.",
		}, []string{"actor"})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(mailboxRejected)
	registry.MustRegister(signalExhausted)
	registry.MustRegister(mailboxLength)
}
