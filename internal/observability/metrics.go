// Package observability provides Prometheus instrumentation for the relay.
package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"chatrelay/internal/core"
	"chatrelay/internal/pkg/llmclient"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	requests         *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
}

// New creates and registers the relay metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Inbound chat requests by response status code.",
		}, []string{"status"}),
		upstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_upstream_failures_total",
			Help: "Failed upstream calls by failure kind.",
		}, []string{"kind"}),
		upstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_upstream_duration_seconds",
			Help:    "Latency of upstream chat-completion calls.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 11),
		}),
	}
}

// ObserveRequest records one completed inbound request.
func (m *Metrics) ObserveRequest(status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Hooks returns llmclient hooks that feed the upstream collectors.
func (m *Metrics) Hooks() llmclient.Hooks {
	if m == nil {
		return llmclient.Hooks{}
	}
	return llmclient.Hooks{
		OnResult: func(_ string, _ int, duration time.Duration, err error) {
			m.upstreamDuration.Observe(duration.Seconds())
			if err != nil {
				m.upstreamFailures.WithLabelValues(failureKind(err)).Inc()
			}
		},
	}
}

// failureKind maps an upstream error to its metric label.
func failureKind(err error) string {
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		return string(relayErr.Kind)
	}
	return "unknown"
}
