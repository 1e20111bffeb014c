package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/state"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

func TestResolveCallerDefaultBeatsSystemPreference(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	dark := theme.ModeDark
	s := New(store, bus, Options{Overrides: theme.Overrides{Current: &dark}})

	// System says light; the caller default must win.
	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: false, ok: true}))

	rec, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, rec.Current)
}

func TestResolveSystemDarkWinsWithoutCallerDefault(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	s := New(store, bus, Options{})

	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: true, ok: true}))

	rec, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, rec.Current)
}

func TestResolvePersistedChoiceIsNeverOverridden(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	rec := theme.DefaultRecord() // current: light
	require.NoError(t, store.Persist(ctx, rec))

	dark := theme.ModeDark
	s := New(store, bus, Options{Overrides: theme.Overrides{Current: &dark}})

	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: true, ok: true}))

	got, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeLight, got.Current, "persisted choice wins over default and system")
}

func TestResolveFallbackLeavesLightWithoutCommitting(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	s := New(store, bus, Options{})

	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: false, ok: true}))

	// Nothing was committed; the light default is simply in effect.
	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	rec, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeLight, rec.Current)
}

func TestResolveRunsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	s := New(store, bus, Options{})

	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: false, ok: true}))

	// User toggles to dark; a later re-resolution (e.g. a re-render with
	// a changed system preference) must not fight the choice.
	dark := theme.ModeDark
	require.NoError(t, s.UpdateMode(ctx, &dark))
	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: false, ok: true}))

	rec, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, rec.Current)
}

// End-to-end fresh session: no storage, caller default dark, system
// light. After resolution the shell carries the dark class, the frame
// carries the dark attribute, and the slot holds current=dark.
func TestFreshSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := state.NewStore(state.NewMemorySlot())
	bus := events.NewBus()
	defer bus.Close()

	shell, frame := newTestSurfaces(t)
	dark := theme.ModeDark
	overrides := previewOverrides()
	overrides.Current = &dark

	s := New(store, bus, Options{Overrides: overrides, Shell: shell, Frame: frame})

	require.NoError(t, s.ResolveInitial(ctx, fakeDetector{dark: false, ok: true}))

	assert.True(t, shell.Find("body").HasClass(theme.DefaultDarkClassName))
	assert.Equal(t, "night", frame.Find("#frame").Attribute(theme.AttributeName))

	rec, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, rec.Current)
}
