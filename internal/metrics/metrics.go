package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "assistant"

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Processed dialogue turns by effective intent and resulting phase.",
		},
		[]string{"intent", "phase"},
	)

	leadsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "leads_submitted_total",
			Help:      "Leads acknowledged by the lead sink.",
		},
	)

	leadSinkFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "lead_sink_failures_total",
			Help:      "Lead submissions that failed.",
		},
	)

	degradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "degraded_total",
			Help:      "Turns that fell back after a collaborator failure, by kind.",
		},
		[]string{"kind"},
	)

	classifierLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "latency_seconds",
			Help:      "Intent classification latency by strategy.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
)

// Register adds the assistant collectors to reg. Collectors already present
// are left alone so repeated registration is harmless.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{turnsTotal, leadsSubmittedTotal, leadSinkFailuresTotal, degradedTotal, classifierLatency} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveTurn(intent, phase string) {
	turnsTotal.WithLabelValues(intent, phase).Inc()
}

func LeadSubmitted() {
	leadsSubmittedTotal.Inc()
}

func LeadSinkFailed() {
	leadSinkFailuresTotal.Inc()
}

func Degraded(kind string) {
	degradedTotal.WithLabelValues(kind).Inc()
}

func ObserveClassifier(strategy string, elapsed time.Duration) {
	classifierLatency.WithLabelValues(strategy).Observe(elapsed.Seconds())
}
