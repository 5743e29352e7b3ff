// Package metrics exposes Prometheus counters for the overlay and its control channel.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons recorded by CommandDropped.
const (
	ReasonNotReady  = "not_ready"
	ReasonQueueFull = "queue_full"
	ReasonWrite     = "write_failed"
)

// Metrics holds the Prometheus collectors for one overlay process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	commandsSent       *prometheus.CounterVec
	commandsDropped    *prometheus.CounterVec
	sessions           *prometheus.CounterVec
	calibrationCommits *prometheus.CounterVec
	connected          prometheus.Gauge
}

// New creates and registers the overlay metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	commandsSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskpad_commands_sent_total",
		Help: "Control commands written to the control channel",
	}, []string{"type"})
	commandsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskpad_commands_dropped_total",
		Help: "Control commands dropped before reaching the control channel",
	}, []string{"reason"})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskpad_sessions_total",
		Help: "Pointer sessions started, by owning component",
	}, []string{"owner"})
	calibrationCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deskpad_calibration_commits_total",
		Help: "Calibration rectangles committed, by step",
	}, []string{"step"})
	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "deskpad_control_connected",
		Help: "1 while the control channel is ready to send",
	})

	registry.MustRegister(
		commandsSent,
		commandsDropped,
		sessions,
		calibrationCommits,
		connected,
	)

	return &Metrics{
		registry:           registry,
		commandsSent:       commandsSent,
		commandsDropped:    commandsDropped,
		sessions:           sessions,
		calibrationCommits: calibrationCommits,
		connected:          connected,
	}
}

// CommandSent counts a command written to the channel.
func (m *Metrics) CommandSent(typ string) {
	if m == nil {
		return
	}
	m.commandsSent.WithLabelValues(typ).Inc()
}

// CommandDropped counts a command that was discarded.
func (m *Metrics) CommandDropped(reason string) {
	if m == nil {
		return
	}
	m.commandsDropped.WithLabelValues(reason).Inc()
}

// SessionStarted counts a pointer session claimed by owner.
func (m *Metrics) SessionStarted(owner string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(owner).Inc()
}

// CalibrationCommitted counts a committed calibration rectangle.
func (m *Metrics) CalibrationCommitted(step string) {
	if m == nil {
		return
	}
	m.calibrationCommits.WithLabelValues(step).Inc()
}

// SetConnected updates the control channel readiness gauge.
func (m *Metrics) SetConnected(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.connected.Set(1)
		return
	}
	m.connected.Set(0)
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
