// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics provides Prometheus metrics for the homegrade service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Grade outcomes.
const (
	GradeCreated = "created"
	GradeUpdated = "updated"
)

// Manager owns the service collectors.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registerer       prometheus.Registerer
	gatherer         prometheus.Gatherer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Domain Metrics
	invitationsSent    prometheus.Counter
	invitationFailures *prometheus.CounterVec
	gradesSaved        *prometheus.CounterVec
	logins             *prometheus.CounterVec
	unresolvedRoles    prometheus.Counter
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers collectors on reg and serves them from it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registerer = reg
			m.gatherer = reg
		}
	}
}

// NewManager creates and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "homegrade",
		histogramBuckets: prometheus.DefBuckets,
		registerer:       prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registerer)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.invitationsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "invitations_sent_total",
		Help:      "Pending couples created with both invitations delivered",
	})

	m.invitationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "invitation_failures_total",
		Help:      "Invitation transactions rolled back, by reason",
	}, []string{"reason"})

	m.gradesSaved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "grades_saved_total",
		Help:      "Grade upserts by outcome (created or updated)",
	}, []string{"outcome"})

	m.logins = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result",
	}, []string{"result"})

	m.unresolvedRoles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "unresolved_roles_total",
		Help:      "Authenticated accounts that are neither homebuyer nor realtor",
	})

	return m
}

// RecordHTTPRequest records one completed request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Manager) RecordInvitationSent() {
	if m == nil {
		return
	}
	m.invitationsSent.Inc()
}

func (m *Manager) RecordInvitationFailure(reason string) {
	if m == nil {
		return
	}
	m.invitationFailures.WithLabelValues(reason).Inc()
}

func (m *Manager) RecordGradeSaved(outcome string) {
	if m == nil {
		return
	}
	m.gradesSaved.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Manager) RecordUnresolvedRole() {
	if m == nil {
		return
	}
	m.unresolvedRoles.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
