package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the scheduling engine.
type EngineMetrics struct {
	verdictsTotal      *prometheus.CounterVec
	transitionsTotal   *prometheus.CounterVec
	suggestionsLatency prometheus.Histogram
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		verdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "slot_verdicts_total",
			Help:      "Slot checks by verdict reason code",
		}, []string{"reason"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "unavailability_workflow_transitions_total",
			Help:      "Unavailability workflow transitions by target state",
		}, []string{"state"}),
		suggestionsLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "suggestions_latency_seconds",
			Help:      "Time spent generating reschedule suggestions",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.verdictsTotal, m.transitionsTotal, m.suggestionsLatency)
	return m
}

func (m *EngineMetrics) ObserveVerdict(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "OK"
	}
	m.verdictsTotal.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) ObserveTransition(state string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(state).Inc()
}

func (m *EngineMetrics) ObserveSuggestions(seconds float64) {
	if m == nil {
		return
	}
	m.suggestionsLatency.Observe(seconds)
}
