package history

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/logfields"
)

// Journal subscribes to mode-change notifications and appends them to a Store.
type Journal struct {
	store Store
	bus   *events.Bus
}

// NewJournal creates a journal wired to the given store and bus.
func NewJournal(store Store, bus *events.Bus) *Journal {
	return &Journal{store: store, bus: bus}
}

// Start begins recording mode changes. It returns a stop function that
// unsubscribes from the bus and waits for the recording loop to drain.
func (j *Journal) Start(ctx context.Context) func() {
	ch, unsubscribe := events.Subscribe[events.ModeChanged](j.bus, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				entry := Entry{
					ID:        uuid.NewString(),
					Mode:      string(evt.Mode),
					Dark:      evt.Dark,
					Timestamp: evt.ChangedAt,
				}
				if err := j.store.Append(ctx, entry); err != nil {
					slog.Warn("failed to journal mode change",
						logfields.Mode(string(evt.Mode)),
						logfields.Error(err))
				}
			}
		}
	}()

	return func() {
		unsubscribe()
		<-done
	}
}
