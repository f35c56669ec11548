// Package metrics defines and registers the custom Prometheus metrics of the
// user service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "not_found", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// DeletionsTotal counts accounts removed by administrators.
var DeletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletions_total",
		Help:      "Total number of user accounts deleted.",
	},
)

// ── Auth gate metrics ─────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests stopped by the auth gate.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token" or "insufficient_role"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth gate, by reason.",
	},
	[]string{"reason"},
)

// ── Password hashing metrics ──────────────────────────────────────────────────

// HashQueueDepth tracks the number of bcrypt jobs waiting for a worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)

// HashDuration measures a single bcrypt hash or comparison.
// Label:
//   - op: "hash" or "verify"
var HashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_duration_seconds",
		Help:      "Duration of bcrypt operations, including time queued for a worker.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// ObserveHashQueue adapts HashQueueDepth to the worker pool's depth callback.
func ObserveHashQueue(n int) {
	HashQueueDepth.Set(float64(n))
}
