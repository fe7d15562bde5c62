package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meet",
		Subsystem: "session",
		Name:      "events_dispatched_total",
		Help:      "Lifecycle and telemetry events fanned out to observers.",
	}, []string{"event"})

	stateDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meet",
		Subsystem: "session",
		Name:      "state_drops_total",
		Help:      "Engine state callbacks discarded before fan-out.",
	}, []string{"reason"})

	telemetryDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meet",
		Subsystem: "session",
		Name:      "telemetry_drops_total",
		Help:      "Telemetry events shed to keep delivery headroom for lifecycle events.",
	}, []string{"event"})

	engineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meet",
		Subsystem: "engine",
		Name:      "call_failures_total",
		Help:      "Engine primitives that returned a non-success code.",
	}, []string{"op"})
)
