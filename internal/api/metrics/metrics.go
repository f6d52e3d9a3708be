// Package metrics defines and registers all custom Prometheus metrics for the
// parking system. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parking"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts account registrations.
// Label:
//   - role: "user" or "admin"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts successful logins.
// Label:
//   - role: "user" or "admin"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// OTPIssuedTotal counts one-time codes issued.
// Label:
//   - type: "verification" or "reset"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time codes issued, by type.",
	},
	[]string{"type"},
)

// ── Facility metrics ──────────────────────────────────────────────────────────

// SlotTransitionsTotal counts slot occupancy transitions.
// Label:
//   - transition: "assign" or "release"
var SlotTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_transitions_total",
		Help:      "Total number of slot assign/release transitions.",
	},
	[]string{"transition"},
)

// RequestsResolvedTotal counts slot requests resolved by an admin.
// Label:
//   - outcome: "approved" or "rejected"
var RequestsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_resolved_total",
		Help:      "Total number of slot requests resolved, by outcome.",
	},
	[]string{"outcome"},
)

// TicketTransitionsTotal counts ticket lifecycle transitions.
// Label:
//   - transition: "activate", "complete", or "cancel"
var TicketTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_transitions_total",
		Help:      "Total number of ticket lifecycle transitions.",
	},
	[]string{"transition"},
)

// RevenueTotal accumulates billed parking fees in RWF.
var RevenueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_rwf_total",
		Help:      "Total parking fees billed on completed tickets, in RWF.",
	},
)
