// Package metrics defines and registers all custom Prometheus metrics for the
// Ratify web client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// on package initialisation. Per-request HTTP metrics come from the echo
// prometheus middleware under the same namespace.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service.
const Namespace = "ratify_web"

// ── Remote API metrics ────────────────────────────────────────────────────────

// APIRequestsTotal counts calls to the remote API.
// Labels:
//   - endpoint: route template of the call (e.g. "POST /auth/login")
//   - outcome: "ok", "client_error", "server_error" or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_requests_total",
		Help:      "Total number of remote API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// APIRequestDuration measures remote API latency.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of remote API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenRefreshTotal counts token refresh attempts.
// Label:
//   - result: "ok", "no_tokens" or "failed"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// SessionsActive tracks sessions held in memory.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "sessions_active",
		Help:      "Current number of browser sessions held in memory.",
	},
)

// ── Contract metrics ──────────────────────────────────────────────────────────

// SignerResendTotal counts "send again" submissions.
// Label:
//   - result: "ok", "invalid", "in_flight" or "failed"
var SignerResendTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "signer_resend_total",
		Help:      "Total number of document resend submissions, by result.",
	},
	[]string{"result"},
)

