// Package metrics defines observability hooks for the synchronization
// core. Implementations may forward to Prometheus; the NoopRecorder is
// used when metrics are not configured.
package metrics

import "time"

// Recorder defines observability hooks for mode synchronization.
// All methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	IncModeChange(mode string, source string)
	IncTrigger(kind string)
	IncResolverOutcome(outcome string) // outcome: persisted|default|system|fallback
	ObserveStoreOp(op string, d time.Duration, success bool)
	ObserveApplyDuration(d time.Duration)
}

// Resolver outcome labels.
const (
	ResolverPersisted = "persisted"
	ResolverDefault   = "default"
	ResolverSystem    = "system"
	ResolverFallback  = "fallback"
)

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncModeChange(string, string)                 {}
func (NoopRecorder) IncTrigger(string)                            {}
func (NoopRecorder) IncResolverOutcome(string)                    {}
func (NoopRecorder) ObserveStoreOp(string, time.Duration, bool)   {}
func (NoopRecorder) ObserveApplyDuration(time.Duration)           {}
