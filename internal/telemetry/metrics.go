package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	RuleDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradematch_rule_denials_total",
		Help: "Requests denied by a marketplace rule",
	}, []string{"rule"})
	VerificationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradematch_verification_decisions_total",
		Help: "Admin ABN verification decisions by resulting status",
	}, []string{"status"})
	JobCancellations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradematch_job_cancellations_total",
		Help: "Cancelled jobs, split by late and on_time",
	}, []string{"timing"})
	ReliabilityReviews = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradematch_reliability_reviews_total",
		Help: "Reliability reviews created",
	})
	EntitlementCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradematch_entitlement_cache_lookups_total",
		Help: "Entitlement cache lookups by result",
	}, []string{"result"})
	JobsAutoClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradematch_jobs_auto_closed_total",
		Help: "Open jobs closed by the worker after their start passed",
	})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RuleDenials,
			VerificationDecisions,
			JobCancellations,
			ReliabilityReviews,
			EntitlementCacheLookups,
			JobsAutoClosed,
		)
	})
	return promhttp.Handler()
}

// CancellationTiming - значение метки timing
func CancellationTiming(late bool) string {
	if late {
		return "late"
	}
	return "on_time"
}
