package supervisor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pollCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyactor",
			Subsystem: "supervisor",
			Name:      "polls_total",
			Help:      "The number of times an actor was polled.",
		}, []string{"supervisor", "actor"})
	passCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyactor",
			Subsystem: "supervisor",
			Name:      "scan_passes_total",
			Help:      "The number of scan passes over the actor arena.",
		}, []string{"supervisor"})
	readyActors = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tinyactor",
			Subsystem: "supervisor",
			Name:      "ready_actors",
			Help:      "The number of ready actors seen by the last scan pass.",
		}, []string{"supervisor"})
	interruptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyactor",
			Subsystem: "supervisor",
			Name:      "interrupts_total",
			Help:      "Interrupts by outcome: delivered, skipped or masked.",
		}, []string{"supervisor", "irq", "result"})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(pollCounter)
	registry.MustRegister(passCounter)
	registry.MustRegister(readyActors)
	registry.MustRegister(interruptCounter)
}
