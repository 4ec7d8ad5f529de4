// Package metrics exposes the Prometheus counters and histograms shared by
// the Autopilot Engine and the Flight Bridge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GuidanceTickDuration observes how long one guidance-loop tick takes,
// from state refresh through command emission.
var GuidanceTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "autopilot_guidance_tick_duration_seconds",
	Help:    "Duration of one guidance-loop tick.",
	Buckets: prometheus.DefBuckets,
})

// ModeTransitions counts guidance mode transitions, labelled by axis
// (horizontal/vertical) and the mode entered.
var ModeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "autopilot_mode_transitions_total",
	Help: "Count of guidance mode transitions by axis and entered mode.",
}, []string{"axis", "mode"})

// DecodeErrors counts UDP frame decode failures on the Flight Bridge's
// ingest path.
var DecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "flightbridge_decode_errors_total",
	Help: "Count of inbound UDP frames that failed to decode.",
})

// CommandSendFailures counts failed actuator command deliveries, labelled
// by command type.
var CommandSendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flightbridge_command_send_failures_total",
	Help: "Count of actuator commands that failed to send to the simulator.",
}, []string{"command"})
