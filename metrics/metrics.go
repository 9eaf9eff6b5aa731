// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPLatency records request latency by method and route template.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeshare_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Mutations counts snapshot mutations by operation and outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshare_mutations_total",
		Help: "Snapshot mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	// StoreReadFailures counts snapshot loads that failed in read-only operations.
	StoreReadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshare_store_read_failures_total",
		Help: "Failed snapshot loads by read-only operation",
	}, []string{"operation"})

	// EventsBroadcast counts realtime events by name and scope (global or room).
	EventsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshare_realtime_events_total",
		Help: "Realtime events broadcast by name and scope",
	}, []string{"event", "scope"})

	// BackpressureDrops counts messages dropped for slow or closed subscribers.
	BackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codeshare_realtime_backpressure_drops_total",
		Help: "Realtime messages dropped due to backpressure",
	}, []string{"reason"})

	// Subscribers is the number of connected realtime subscribers.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codeshare_realtime_subscribers",
		Help: "Connected realtime subscribers",
	})

	// RoomMemberships is the number of (subscriber, post room) memberships.
	RoomMemberships = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codeshare_realtime_room_memberships",
		Help: "Active post room memberships",
	})
)

// Mutation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)
