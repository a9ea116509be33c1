package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "registros", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "registros", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	APIKeyRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "registros", Name: "api_key_rejected_total", Help: "Requests refused by the API key gate."},
	)
	// Operations counts service calls by operation and result kind
	// (ok, invalid_argument, not_found, internal).
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "registros", Name: "operations_total", Help: "Registro operations by result."},
		[]string{"op", "result"},
	)
	AmasadorasRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "registros", Name: "amasadoras_removed_total", Help: "Amasadora removals split by whether the registro was updated or deleted."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(APIKeyRejected)
	reg.MustRegister(Operations)
	reg.MustRegister(AmasadorasRemoved)
}
