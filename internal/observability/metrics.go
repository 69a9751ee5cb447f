// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the teamauth Prometheus metrics.
// A nil *Metrics is valid and records nothing, so one-shot CLI commands can
// run the same code paths as the long-lived watcher.
type Metrics struct {
	APIRequestsTotal        *prometheus.CounterVec
	APIRequestDuration      *prometheus.HistogramVec
	SessionTransitionsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the teamauth metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamauth_api_requests_total",
				Help: "Total number of Team API requests by operation and HTTP status (0 = no response)",
			},
			[]string{"operation", "status"},
		),
		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teamauth_api_request_duration_seconds",
				Help:    "Team API request latency by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		SessionTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamauth_session_transitions_total",
				Help: "Total number of session state transitions by target state",
			},
			[]string{"state"},
		),
	}

	reg.MustRegister(m.APIRequestsTotal)
	reg.MustRegister(m.APIRequestDuration)
	reg.MustRegister(m.SessionTransitionsTotal)

	return m
}

// ObserveRequest records one Team API call. status is 0 when no response arrived.
func (m *Metrics) ObserveRequest(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveTransition records a session state transition.
func (m *Metrics) ObserveTransition(state string) {
	if m == nil {
		return
	}
	m.SessionTransitionsTotal.WithLabelValues(state).Inc()
}
