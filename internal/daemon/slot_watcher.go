package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/syncer"
)

const slotDebounce = 150 * time.Millisecond

// SlotWatcher observes the preference slot file for writes made by
// other processes (another CLI invocation, a sync agent) and re-asserts
// the persisted mode when it changes.
//
// The store writes via rename, so the watch is placed on the parent
// directory rather than the file itself.
type SlotWatcher struct {
	path string
	sync *syncer.Syncer
}

// NewSlotWatcher creates a watcher for the given slot file path.
func NewSlotWatcher(path string, sync *syncer.Syncer) *SlotWatcher {
	return &SlotWatcher{path: path, sync: sync}
}

// Start begins watching. The returned stop function closes the watcher
// and waits for the loop to exit.
func (w *SlotWatcher) Start(ctx context.Context) (func(), error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
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

func (w *SlotWatcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(slotDebounce)
				timerC = timer.C
			} else {
				timer.Reset(slotDebounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			slog.Debug("slot file changed, re-asserting theme", logfields.Path(w.path))
			if err := w.sync.RenderTheme(ctx); err != nil {
				slog.Warn("failed to re-assert theme after slot change", logfields.Error(err))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("slot watcher error", logfields.Error(err))
		}
	}
}
