package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	suggestionRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "etherescape",
		Subsystem: "suggestions",
		Name:      "requests_total",
		Help:      "Suggestion requests by outcome (ok or failure kind).",
	}, []string{"outcome"})
	verificationAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "etherescape",
		Subsystem: "events",
		Name:      "verifications_total",
		Help:      "Attendance verification attempts by outcome.",
	}, []string{"outcome"})
	pointsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "etherescape",
		Subsystem: "events",
		Name:      "points_awarded_total",
		Help:      "Reward points credited by attendance verification.",
	})
	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "etherescape",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of external dependency calls.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"dependency"})
)

func init() {
	prometheus.MustRegister(suggestionRequests, verificationAttempts, pointsAwarded, upstreamDuration)
}

// RecordSuggestion counts a suggestion request outcome.
func RecordSuggestion(outcome string) {
	suggestionRequests.WithLabelValues(outcome).Inc()
}

// RecordVerification counts a verification outcome and the points it credited.
func RecordVerification(outcome string, points int) {
	verificationAttempts.WithLabelValues(outcome).Inc()
	if points > 0 {
		pointsAwarded.Add(float64(points))
	}
}

// ObserveUpstream records the time since start for dependency.
func ObserveUpstream(dependency string, start time.Time) {
	upstreamDuration.WithLabelValues(dependency).Observe(time.Since(start).Seconds())
}
