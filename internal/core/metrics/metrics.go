// Package metrics defines the domain-level Prometheus counters incremented
// by the core services. Registration happens via promauto at package init;
// the router exposes them on /metrics alongside the HTTP-layer metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ResourcesCreatedTotal counts created resources per entity family.
// Label:
//   - family: "case", "client", "complaint", "subscription", "invoice",
//     "consultation", "registration"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of resources created, by entity family.",
	},
	[]string{"family"},
)

// ActivityRecordsTotal counts timeline records successfully written.
var ActivityRecordsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_records_total",
		Help:      "Total number of activity records written.",
	},
)

// ActivityDropsTotal counts timeline writes that failed and were discarded.
// Activity emission is best-effort; a non-zero rate here means timelines are
// losing entries while parent operations keep succeeding.
var ActivityDropsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_records_dropped_total",
		Help:      "Total number of activity records dropped after a failed write.",
	},
)

// ProvisioningTotal counts account provisioning attempts by outcome.
// Label:
//   - outcome: "provisioned", "compensated" (a later step failed and earlier
//     steps were rolled back), "failed" (step 1 never succeeded)
var ProvisioningTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_provisioning_total",
		Help:      "Total number of account provisioning attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CompensationFailuresTotal counts compensating deletes that themselves
// failed and now require manual operator cleanup.
var CompensationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensation_failures_total",
		Help:      "Total number of failed compensating deletes requiring manual cleanup.",
	},
)
