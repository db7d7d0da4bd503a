// Package metrics defines the Prometheus instruments shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Voting metrics
var (
	// VotesTotal tracks effective vote transitions by kind (cast = first
	// vote, changed = moved to a different option). Idempotent re-votes are
	// not counted.
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_total",
			Help: "Effective vote transitions by kind (cast/changed)",
		},
		[]string{"kind"},
	)
)

// Session metrics
var (
	// ActiveSessions tracks the current size of the session table
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of live sessions",
		},
	)

	// SessionsExpiredTotal tracks evicted sessions by path (validate = lazy
	// eviction, sweep = background sweep)
	SessionsExpiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Expired sessions evicted, by eviction path",
		},
		[]string{"path"},
	)
)

// Live results feed metrics
var (
	// WSConnectedClients tracks connected WebSocket subscribers across all polls
	WSConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connected_clients",
			Help: "Connected live-results WebSocket clients across all polls",
		},
	)
)
