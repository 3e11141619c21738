package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	// Operation outcomes by operation name and result ("ok" or the error kind)
	Operations *prometheus.CounterVec

	// Unit-of-work latency per operation
	OperationLatency *prometheus.HistogramVec

	// Outbox relay results: published, failed
	OutboxDispatch *prometheus.CounterVec

	// Neediness scoring fallbacks by reason: timeout, error, partial
	ScoreFallbacks *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorseeker_matching_operations_total",
			Help: "Matching engine operations by name and result",
		}, []string{"operation", "result"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donorseeker_matching_operation_duration_seconds",
			Help:    "Duration of matching engine operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		OutboxDispatch: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorseeker_outbox_dispatch_total",
			Help: "Outbox events handed to the notifier by result",
		}, []string{"result"}),

		ScoreFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorseeker_scoring_fallbacks_total",
			Help: "Neediness scoring calls that fell back to the neutral score",
		}, []string{"reason"}),
	}
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
	m.OperationLatency.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) IncOutboxDispatch(result string) {
	if m != nil {
		m.OutboxDispatch.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncScoreFallback(reason string) {
	if m != nil {
		m.ScoreFallbacks.WithLabelValues(reason).Inc()
	}
}
