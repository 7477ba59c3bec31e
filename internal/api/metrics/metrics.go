// Package metrics defines the HTTP-layer Prometheus metrics. Domain-level
// counters live in internal/core/metrics so the core never imports from the
// API layer. Registration happens via promauto at package init; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// AccessDeniedTotal counts requests rejected by the access-control check.
var AccessDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by access control.",
	},
)
