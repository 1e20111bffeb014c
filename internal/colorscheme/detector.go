// Package colorscheme detects the system-level color-scheme preference
// and observes it for changes. Multiple detectors can be registered
// with different priorities; the resolver queries them in order.
package colorscheme

import (
	"sort"
	"sync"
)

// Detector detects the system's color scheme preference.
type Detector interface {
	// Name returns a human-readable name for this detector.
	Name() string

	// Priority orders detectors; higher values are checked first.
	Priority() int

	// Available returns true if this detector can be used in the
	// current environment.
	Available() bool

	// Detect returns the detected preference and whether detection
	// succeeded.
	Detect() (prefersDark bool, ok bool)
}

// Resolver resolves the effective system preference by querying
// registered detectors in priority order. It satisfies the
// synchronization core's SchemeDetector contract.
type Resolver struct {
	mu        sync.RWMutex
	detectors []Detector
}

// NewResolver creates a resolver with the given detectors.
func NewResolver(detectors ...Detector) *Resolver {
	r := &Resolver{}
	for _, d := range detectors {
		r.Register(d)
	}
	return r
}

// Register adds a detector. Safe to call at any time; the resolver
// re-evaluates on the next PrefersDark call.
func (r *Resolver) Register(d Detector) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detectors = append(r.detectors, d)
	sort.SliceStable(r.detectors, func(i, j int) bool {
		return r.detectors[i].Priority() > r.detectors[j].Priority()
	})
}

// PrefersDark queries detectors by priority. ok is false when no
// available detector produced a result.
func (r *Resolver) PrefersDark() (bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.detectors {
		if !d.Available() {
			continue
		}
		if dark, ok := d.Detect(); ok {
			return dark, true
		}
	}
	return false, false
}
