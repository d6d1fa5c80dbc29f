// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes the progress of a capture loop as Prometheus
// metrics.
package metrics

import (
	"fmt"

	"github.com/aibor/serialcap/internal/capture"
	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "serialcap"

// Metrics implements [capture.Observer].
type Metrics struct {
	attempts            *prometheus.CounterVec
	connections         prometheus.Counter
	bytesWritten        prometheus.Counter
	state               prometheus.Gauge
	consecutiveFailures prometheus.Gauge
}

var _ capture.Observer = (*Metrics)(nil)

// New creates a new [Metrics] instance and registers all metrics with the
// given registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connection_attempts_total",
			Help:      "Number of endpoint connection attempts by outcome.",
		}, []string{"outcome"}),
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_total",
			Help:      "Number of successful endpoint connections.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_written_total",
			Help:      "Number of bytes written into the output file.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "state",
			Help: "Current state of the capture loop: 0 idle, 1 connecting, " +
				"2 connected, 3 disconnected, 4 terminated.",
		}),
		consecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "consecutive_failed_attempts",
			Help:      "Number of failed attempts since the last successful connection.",
		}),
	}

	collectors := []prometheus.Collector{
		m.attempts,
		m.connections,
		m.bytesWritten,
		m.state,
		m.consecutiveFailures,
	}

	for _, collector := range collectors {
		err := reg.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
	}

	return m, nil
}

// ObserveState implements [capture.Observer].
func (m *Metrics) ObserveState(state capture.State) {
	m.state.Set(float64(state))
}

// ObserveAttempt implements [capture.Observer].
func (m *Metrics) ObserveAttempt(attempt capture.Attempt) {
	m.attempts.WithLabelValues(outcomeLabel(attempt.Outcome)).Inc()

	if attempt.Outcome == capture.Succeeded {
		m.connections.Inc()
		m.consecutiveFailures.Set(0)

		return
	}

	m.consecutiveFailures.Set(float64(attempt.Ordinal))
}

// ObserveSession implements [capture.Observer].
func (m *Metrics) ObserveSession(written int64) {
	m.bytesWritten.Add(float64(written))
}

func outcomeLabel(outcome capture.Outcome) string {
	switch outcome {
	case capture.Succeeded:
		return "succeeded"
	case capture.TimedOut:
		return "timed_out"
	default:
		return "errored"
	}
}
