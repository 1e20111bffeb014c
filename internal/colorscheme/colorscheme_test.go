package colorscheme

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themesync/internal/events"
)

func TestGTKThemeDetector(t *testing.T) {
	t.Setenv("GTK_THEME", "Adwaita-Dark")
	d := GTKThemeDetector{}
	require.True(t, d.Available())
	dark, ok := d.Detect()
	assert.True(t, ok)
	assert.True(t, dark)

	t.Setenv("GTK_THEME", "Adwaita")
	dark, ok = d.Detect()
	assert.True(t, ok)
	assert.False(t, dark)
}

func TestColorFGBGDetector(t *testing.T) {
	d := ColorFGBGDetector{}

	t.Setenv("COLORFGBG", "15;0")
	dark, ok := d.Detect()
	assert.True(t, ok)
	assert.True(t, dark)

	t.Setenv("COLORFGBG", "0;15")
	dark, ok = d.Detect()
	assert.True(t, ok)
	assert.False(t, dark)

	t.Setenv("COLORFGBG", "garbage")
	_, ok = d.Detect()
	assert.False(t, ok)
}

func TestResolverPriorityOrder(t *testing.T) {
	t.Setenv("GTK_THEME", "Adwaita") // light, priority 20

	// Fixed detector has priority 100 and must win.
	r := NewResolver(GTKThemeDetector{}, FixedDetector{Dark: true})

	dark, ok := r.PrefersDark()
	require.True(t, ok)
	assert.True(t, dark)
}

func TestResolverWithoutDetectors(t *testing.T) {
	r := NewResolver()
	_, ok := r.PrefersDark()
	assert.False(t, ok)
}

// flipDetector lets the test drive the observed preference.
type flipDetector struct {
	mu   sync.Mutex
	dark bool
}

func (f *flipDetector) Name() string    { return "flip" }
func (f *flipDetector) Priority() int   { return 50 }
func (f *flipDetector) Available() bool { return true }

func (f *flipDetector) Detect() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dark, true
}

func (f *flipDetector) set(dark bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dark = dark
}

func TestObserverPublishesOnFlip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	det := &flipDetector{dark: false}
	obs := NewObserver(NewResolver(det), bus, 5*time.Millisecond)

	ch, unsub := events.Subscribe[events.SystemSchemeChanged](bus, 4)
	defer unsub()

	stop := obs.Start(ctx)
	defer stop()

	det.set(true)

	select {
	case evt := <-ch:
		assert.True(t, evt.PrefersDark)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for scheme change event")
	}
}

func TestObserverStopIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	obs := NewObserver(NewResolver(&flipDetector{}), bus, time.Millisecond)
	stop := obs.Start(context.Background())

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop()
		}()
	}
	wg.Wait()
	stop()
}
