package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EvaluationFetches counts evaluation list fetches by outcome:
	// ok, error, stale (response discarded after an identity change).
	EvaluationFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "getsuited", Name: "evaluation_fetches_total", Help: "Number of evaluation list fetches by result."},
		[]string{"result"},
	)
	// ProfileCommits counts profile mutations (name, picture) by outcome.
	ProfileCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "getsuited", Name: "profile_commits_total", Help: "Number of profile commit operations by op and result."},
		[]string{"op", "result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "getsuited", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "getsuited", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(EvaluationFetches)
	reg.MustRegister(ProfileCommits)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
