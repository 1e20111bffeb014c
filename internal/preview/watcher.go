package preview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/logfields"
)

const debounceInterval = 200 * time.Millisecond

// Watcher observes the content directory and publishes content events
// when markdown files change, so the synchronizer can re-assert the
// active theme after the frame is rebuilt.
type Watcher struct {
	dir string
	bus *events.Bus
}

// NewWatcher creates a watcher for the given content directory.
func NewWatcher(dir string, bus *events.Bus) *Watcher {
	return &Watcher{dir: dir, bus: bus}
}

// Start begins watching. It returns a stop function that closes the
// underlying filesystem watcher and waits for the loop to exit.
func (w *Watcher) Start(ctx context.Context) (func(), error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	done := make(chan struct{})
	go w.run(ctx, fsw, done)

	return func() {
		_ = fsw.Close()
		<-done
	}, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending fsnotify.Event
	)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !isMarkdown(event.Name) {
				continue
			}
			// Editors fire bursts of events per save; collapse them.
			pending = event
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				timerC = timer.C
			} else {
				timer.Reset(debounceInterval)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.publish(ctx, pending)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) publish(ctx context.Context, event fsnotify.Event) {
	now := time.Now()

	var evt any
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		_, count, err := LoadContent(w.dir)
		if err != nil {
			count = 0
		}
		evt = events.ContentListUpdated{Count: count, UpdatedAt: now}
	} else {
		evt = events.ContentChanged{Path: event.Name, ChangedAt: now}
	}

	if err := w.bus.Publish(ctx, evt); err != nil {
		slog.Warn("failed to publish content event", logfields.Error(err))
	}
}

func isMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
