// Package metrics defines and registers all custom Prometheus metrics for the
// Aisle Scan API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics alongside the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aislescan"

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - operation: "signup" or "login"
//   - outcome: "ok", "rejected" (bad credentials / duplicate), or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// ProfileUpdatesTotal counts profile update requests that reached the service.
// Label:
//   - outcome: "ok" or "error"
var ProfileUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_updates_total",
		Help:      "Total number of profile updates, by outcome.",
	},
	[]string{"outcome"},
)

// ScansSavedTotal counts scans persisted for any user.
var ScansSavedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_saved_total",
		Help:      "Total number of food-label scans saved.",
	},
)

// ScanDedupTotal counts idempotency decisions on scan saves.
// Label:
//   - result: "hit" (duplicate, replayed) or "miss" (new scan, inserted)
var ScanDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_dedup_total",
		Help:      "Total number of scan idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
