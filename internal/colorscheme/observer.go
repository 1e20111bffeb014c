package colorscheme

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/themesync/internal/events"
)

// Observer polls the resolver and publishes SystemSchemeChanged when
// the detected preference flips. It is the Go counterpart of a media
// preference listener: registered at daemon start, removed at shutdown
// via the returned stop function.
type Observer struct {
	resolver *Resolver
	bus      *events.Bus
	interval time.Duration
}

// NewObserver creates an observer polling at the given interval.
// A non-positive interval defaults to 5 seconds.
func NewObserver(resolver *Resolver, bus *events.Bus, interval time.Duration) *Observer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Observer{resolver: resolver, bus: bus, interval: interval}
}

// Start begins observation. The returned stop function terminates the
// polling goroutine and must be called at teardown.
func (o *Observer) Start(ctx context.Context) (stop func()) {
	done := make(chan struct{})
	stopCh := make(chan struct{})

	// Snapshot the baseline before spawning the goroutine so observation
	// provably begins by the time Start returns; a flip landing right
	// after Start must not be swallowed as the baseline.
	last, known := o.resolver.PrefersDark()

	go func() {
		defer close(done)

		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				dark, ok := o.resolver.PrefersDark()
				if !ok {
					continue
				}
				if known && dark == last {
					continue
				}
				last, known = dark, true

				evt := events.SystemSchemeChanged{
					PrefersDark: dark,
					Source:      "observer",
					ChangedAt:   time.Now(),
				}
				if err := o.bus.Publish(ctx, evt); err != nil {
					slog.Error("Failed to publish system scheme change", "error", err)
				}
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			close(stopCh)
			<-done
		})
	}
}
