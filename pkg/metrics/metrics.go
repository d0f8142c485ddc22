package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "summaryhub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "summaryhub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	TokenValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "summaryhub", Name: "token_validations_total", Help: "Number of bearer token validations by outcome."},
		[]string{"outcome"},
	)
	KeySetFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "summaryhub", Name: "keyset_fetches_total", Help: "Number of JWKS fetches from the identity provider by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(TokenValidations)
	reg.MustRegister(KeySetFetches)
}
