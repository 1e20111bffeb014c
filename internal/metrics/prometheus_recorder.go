package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	modeChanges      *prom.CounterVec
	triggers         *prom.CounterVec
	resolverOutcomes *prom.CounterVec
	storeOpDuration  *prom.HistogramVec
	applyDuration    prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.modeChanges = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "themesync",
			Name:      "mode_changes_total",
			Help:      "Committed mode changes by mode and source",
		}, []string{"mode", "source"})
		pr.triggers = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "themesync",
			Name:      "triggers_total",
			Help:      "Synchronization triggers by kind",
		}, []string{"kind"})
		pr.resolverOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "themesync",
			Name:      "resolver_outcomes_total",
			Help:      "Initialization resolver outcomes by winning tier",
		}, []string{"outcome"})
		pr.storeOpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "themesync",
			Name:      "store_op_duration_seconds",
			Help:      "Duration of preference store operations",
			Buckets:   prom.DefBuckets,
		}, []string{"op", "result"})
		pr.applyDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "themesync",
			Name:      "apply_duration_seconds",
			Help:      "Duration of a full surface application pass",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.modeChanges, pr.triggers, pr.resolverOutcomes, pr.storeOpDuration, pr.applyDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncModeChange(mode, source string) {
	if p == nil || p.modeChanges == nil {
		return
	}
	p.modeChanges.WithLabelValues(mode, source).Inc()
}

func (p *PrometheusRecorder) IncTrigger(kind string) {
	if p == nil || p.triggers == nil {
		return
	}
	p.triggers.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncResolverOutcome(outcome string) {
	if p == nil || p.resolverOutcomes == nil {
		return
	}
	p.resolverOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveStoreOp(op string, d time.Duration, success bool) {
	if p == nil || p.storeOpDuration == nil {
		return
	}
	result := "success"
	if !success {
		result = "error"
	}
	p.storeOpDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveApplyDuration(d time.Duration) {
	if p == nil || p.applyDuration == nil {
		return
	}
	p.applyDuration.Observe(d.Seconds())
}
