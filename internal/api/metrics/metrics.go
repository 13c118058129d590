// Package metrics defines and registers all custom Prometheus metrics for the
// places API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "places"

// ── Place metrics ─────────────────────────────────────────────────────────────

// PlacesCreatedTotal counts places created through the atomic create-and-link
// operation.
var PlacesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of places created.",
	},
)

// PlacesDeletedTotal counts places removed through the atomic
// delete-and-unlink operation.
var PlacesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of places deleted.",
	},
)

// PlaceCacheTotal counts place-by-id cache lookups.
// Label:
//   - result: "hit" (served from Redis) or "miss" (fell through to MongoDB)
var PlaceCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of place cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsRejectedTotal counts uploads refused before any database write.
// Label:
//   - reason: "unsupported_media" or "payload_too_large"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of rejected image uploads, by reason.",
	},
	[]string{"reason"},
)

// ImageCleanupFailuresTotal counts best-effort image deletions that failed.
// These never fail the request, so the counter is the only signal.
var ImageCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_failures_total",
		Help:      "Total number of failed best-effort image file deletions.",
	},
)

// OrphanFilesSweptTotal counts files removed by the background sweeper because
// no user or place referenced them anymore.
var OrphanFilesSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_files_swept_total",
		Help:      "Total number of orphaned upload files removed by the sweeper.",
	},
)
