package syncer

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/logfields"
)

// subscription buffer for trigger channels. Triggers are cheap to
// process; a small buffer absorbs bursts around content reloads.
const triggerBuffer = 8

// Start subscribes the syncer to its trigger events and launches the
// dispatch loop. Content and render signals re-assert the active theme;
// system scheme flips and explicit requests commit a new mode. The
// returned stop function unsubscribes everything and must be called
// when the owning component is torn down.
func (s *Syncer) Start(ctx context.Context) (stop func()) {
	contentCh, unsubContent := events.Subscribe[events.ContentChanged](s.bus, triggerBuffer)
	listCh, unsubList := events.Subscribe[events.ContentListUpdated](s.bus, triggerBuffer)
	renderedCh, unsubRendered := events.Subscribe[events.DocsRendered](s.bus, triggerBuffer)
	schemeCh, unsubScheme := events.Subscribe[events.SystemSchemeChanged](s.bus, triggerBuffer)
	requestCh, unsubRequest := events.Subscribe[events.ModeChangeRequested](s.bus, triggerBuffer)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-contentCh:
				if !ok {
					return
				}
				s.recorder.IncTrigger("content-changed")
				s.rerender(ctx, "content-changed", evt.Path)

			case _, ok := <-listCh:
				if !ok {
					return
				}
				s.recorder.IncTrigger("content-list-updated")
				s.rerender(ctx, "content-list-updated", "")

			case evt, ok := <-renderedCh:
				if !ok {
					return
				}
				s.recorder.IncTrigger("docs-rendered")
				s.rerender(ctx, "docs-rendered", evt.Source)

			case evt, ok := <-schemeCh:
				if !ok {
					return
				}
				s.recorder.IncTrigger("system-scheme")
				mode := evt.Mode()
				if err := s.updateMode(ctx, &mode, "system"); err != nil {
					slog.Error("Failed to apply system scheme change",
						logfields.Mode(mode.String()), logfields.Error(err))
				}

			case evt, ok := <-requestCh:
				if !ok {
					return
				}
				s.recorder.IncTrigger("mode-change-requested")
				mode := evt.Mode
				if err := s.updateMode(ctx, &mode, evt.Source); err != nil {
					slog.Error("Failed to apply requested mode",
						logfields.Mode(mode.String()),
						logfields.Source(evt.Source),
						logfields.Error(err))
				}
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			unsubContent()
			unsubList()
			unsubRendered()
			unsubScheme()
			unsubRequest()
			<-done
		})
	}
}

func (s *Syncer) rerender(ctx context.Context, trigger, detail string) {
	if err := s.RenderTheme(ctx); err != nil {
		slog.Error("Failed to re-assert theme",
			logfields.Trigger(trigger),
			logfields.Path(detail),
			logfields.Error(err))
	}
}
