package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themesync/internal/events"
)

func TestSQLiteStoreAppendAndRecent(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	entries := []Entry{
		{ID: "a", Mode: "dark", Dark: true, Timestamp: base.Add(-2 * time.Minute)},
		{ID: "b", Mode: "light", Dark: false, Timestamp: base.Add(-1 * time.Minute)},
		{ID: "c", Mode: "dark", Dark: true, Timestamp: base},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(ctx, e))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
	assert.True(t, recent[0].Dark)
	assert.False(t, recent[1].Dark)
}

func TestSQLiteStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	require.NoError(t, store.Append(ctx, Entry{ID: "old", Mode: "light", Timestamp: base.Add(-time.Hour)}))
	require.NoError(t, store.Append(ctx, Entry{ID: "mid", Mode: "dark", Dark: true, Timestamp: base.Add(-time.Minute)}))
	require.NoError(t, store.Append(ctx, Entry{ID: "new", Mode: "light", Timestamp: base}))

	got, err := store.GetRange(ctx, base.Add(-5*time.Minute), base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mid", got[0].ID)
	assert.Equal(t, "new", got[1].ID)
}

func TestJournalRecordsModeChanges(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	bus := events.NewBus()
	defer bus.Close()

	journal := NewJournal(store, bus)
	stop := journal.Start(context.Background())
	defer stop()

	changedAt := time.Now().Truncate(time.Second)
	require.NoError(t, bus.Publish(context.Background(), events.ModeChanged{Dark: true, Mode: "dark", ChangedAt: changedAt}))

	require.Eventually(t, func() bool {
		entries, err := store.Recent(context.Background(), 10)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dark", entries[0].Mode)
	assert.True(t, entries[0].Dark)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, changedAt.Unix(), entries[0].Timestamp.Unix())
}
