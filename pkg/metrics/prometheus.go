package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics for the claim service
type Metrics struct {
	ClaimsSubmitted prometheus.Counter
	Transitions     *prometheus.CounterVec
	Decisions       *prometheus.CounterVec
	ManualReviews   prometheus.Counter
	RejectedOps     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics under the given namespace
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_submitted_total",
			Help:      "The total number of claims submitted",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_transitions_total",
			Help:      "The total number of accepted claim status transitions",
		}, []string{"target"}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensation_decisions_total",
			Help:      "The total number of compensation decisions computed",
		}, []string{"regulation"}),
		ManualReviews: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manual_reviews_total",
			Help:      "The total number of decisions flagged for manual review",
		}),
		RejectedOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_operations_total",
			Help:      "The total number of requests rejected with a domain error",
		}, []string{"reason"}),
	}
}

// Handler returns the HTTP handler exposing the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
