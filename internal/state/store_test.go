package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

func TestLoadWithoutPersistedRecordReturnsMergedDefaults(t *testing.T) {
	store := NewStore(NewMemorySlot())
	dark := theme.ModeDark

	rec, err := store.Load(context.Background(), theme.Overrides{
		Current: &dark,
		Dark:    theme.Value(`"dracula"`),
	})
	require.NoError(t, err)

	assert.Equal(t, theme.ModeDark, rec.Current)
	assert.Equal(t, theme.Value(`"dracula"`), rec.DarkTheme)
	assert.Equal(t, theme.DefaultLightClassName, rec.LightClassName)

	// Creation alone must not write the slot; only an explicit commit
	// counts as a user choice.
	exists, err := store.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadNeverAltersPersistedCurrent(t *testing.T) {
	store := NewStore(NewMemorySlot())
	ctx := context.Background()

	rec := theme.DefaultRecord()
	rec.Current = theme.ModeLight
	require.NoError(t, store.Persist(ctx, rec))

	dark := theme.ModeDark
	got, err := store.Load(ctx, theme.Overrides{Current: &dark})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeLight, got.Current, "persisted choice wins over override")
}

func TestLoadWritesThroughStructurallyChangedThemes(t *testing.T) {
	store := NewStore(NewMemorySlot())
	ctx := context.Background()

	rec := theme.DefaultRecord()
	rec.DarkTheme = theme.Value(`{"name":"dracula"}`)
	require.NoError(t, store.Persist(ctx, rec))

	// Structurally identical override: no write-through, stored bytes kept.
	got, err := store.Load(ctx, theme.Overrides{Dark: theme.Value(`{ "name": "dracula" }`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"dracula"}`, string(got.DarkTheme))

	// Structurally different override replaces and re-persists.
	got, err = store.Load(ctx, theme.Overrides{Dark: theme.Value(`{"name":"nord"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"nord"}`, string(got.DarkTheme))

	again, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"nord"}`, string(again.DarkTheme), "write-through must have persisted the change")
}

func TestPersistLoadRoundTrip(t *testing.T) {
	store := NewStore(NewMemorySlot())
	ctx := context.Background()

	o := theme.Overrides{
		Dark:    theme.Value(`"dracula"`),
		Light:   theme.Value(`"solarized"`),
		Preview: &theme.PreviewConfig{ClassTargetSelector: "body", DarkAttributeValue: "night", LightAttributeValue: "day"},
	}

	rec, err := store.Load(ctx, o)
	require.NoError(t, err)
	require.NoError(t, store.Persist(ctx, rec))

	got, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUpdateCurrentCommitsMode(t *testing.T) {
	store := NewStore(NewMemorySlot())
	ctx := context.Background()

	rec, err := store.UpdateCurrent(ctx, theme.Overrides{}, theme.ModeDark)
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, rec.Current)

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := store.Load(ctx, theme.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, theme.ModeDark, got.Current)

	_, err = store.UpdateCurrent(ctx, theme.Overrides{}, theme.Mode("sepia"))
	require.Error(t, err)
}

func TestCorruptedSlotFailsFast(t *testing.T) {
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(context.Background(), []byte("{not json")))

	store := NewStore(slot)
	_, err := store.Load(context.Background(), theme.Overrides{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryState))

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
}

func TestUnknownPersistedModeFailsFast(t *testing.T) {
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(context.Background(), []byte(`{"current":"sepia","darkClassName":"dark","lightClassName":"light"}`)))

	store := NewStore(slot)
	_, err := store.Load(context.Background(), theme.Overrides{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryState))
}

func TestFileSlotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(filepath.Join(dir, "data", "preferences.json"))
	require.NoError(t, err)
	defer slot.Close()

	ctx := context.Background()

	_, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slot.Set(ctx, []byte(`{"current":"dark","darkClassName":"dark","lightClassName":"light"}`)))

	data, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(data), `"dark"`)

	// The temporary file must not linger after the rename.
	_, err = os.Stat(slot.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
