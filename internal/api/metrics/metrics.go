// Package metrics defines the custom Prometheus metrics for the marketplace
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics self-register with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthDecisionsTotal counts gate evaluations by terminal outcome.
// Labels:
//   - outcome: "allowed" or "denied"
//   - reason: the deny reason ("unauthenticated", "profile_unavailable",
//     "forbidden"), or "" for allowed decisions
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization gate decisions, by outcome and deny reason.",
	},
	[]string{"outcome", "reason"},
)

// ProfilesProvisionedTotal counts profiles lazily created on first
// authenticated visit.
var ProfilesProvisionedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_provisioned_total",
		Help:      "Total number of default profiles provisioned for new subjects.",
	},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// InventoryItemsCreatedTotal counts newly listed inventory items.
// Label:
//   - waste_type: "yarn_waste", "comber_noil", "flat_strips", or "other"
var InventoryItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_items_created_total",
		Help:      "Total number of inventory items created, by waste type.",
	},
	[]string{"waste_type"},
)

// ── Activity log metrics ──────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of audit entries waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts audit entries dropped because a worker buffer
// was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of audit entries dropped due to queue pressure.",
	},
)
