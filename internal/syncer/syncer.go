// Package syncer holds the synchronization core: it decides the active
// mode, writes it through the preference store, drives the surface
// applicators, and emits the public mode-changed notification.
//
// The canonical mode lives only inside the persisted preference record;
// the syncer keeps no second source of truth.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/themesync/internal/events"
	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/metrics"
	"git.home.luguber.info/inful/themesync/internal/state"
	"git.home.luguber.info/inful/themesync/internal/surface"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// Syncer coordinates the preference store, the surfaces, and the event
// bus. Its mutex serializes update/render operations so the persist →
// apply → notify ordering holds even when triggers race.
type Syncer struct {
	store     *state.Store
	bus       *events.Bus
	overrides theme.Overrides
	shell     surface.Shell
	frame     surface.Frame
	recorder  metrics.Recorder

	mu          sync.Mutex
	initialized bool
}

// Options configures a Syncer. Shell and Frame are optional; a nil
// surface is simply never touched. A nil Recorder disables metrics.
type Options struct {
	Overrides theme.Overrides
	Shell     surface.Shell
	Frame     surface.Frame
	Recorder  metrics.Recorder
}

// New creates a Syncer over the given store and bus.
func New(store *state.Store, bus *events.Bus, opts Options) *Syncer {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Syncer{
		store:     store,
		bus:       bus,
		overrides: opts.Overrides,
		shell:     opts.Shell,
		frame:     opts.Frame,
		recorder:  rec,
	}
}

// SetMode applies the visuals for a mode and emits the mode-changed
// notification. It deliberately does NOT persist the mode as the new
// preference; committing is UpdateMode's job. The split keeps "apply
// visuals" and "commit the choice" independently callable.
func (s *Syncer) SetMode(ctx context.Context, mode theme.Mode) error {
	if !mode.Valid() {
		return ferrors.ValidationError("invalid mode").
			WithContext("mode", string(mode)).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.apply(ctx, rec, mode)
}

// UpdateMode commits a mode as the new preference and then applies it.
// With a nil explicit mode it toggles: the target is the logical
// complement of the record's current mode. Persistence completes
// synchronously before any visual application or notification.
func (s *Syncer) UpdateMode(ctx context.Context, explicit *theme.Mode) error {
	return s.updateMode(ctx, explicit, "direct")
}

// RenderTheme re-asserts the persisted mode on all surfaces without
// changing it, e.g. after the frame's document was replaced.
func (s *Syncer) RenderTheme(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.apply(ctx, rec, rec.Current)
}

func (s *Syncer) updateMode(ctx context.Context, explicit *theme.Mode, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target theme.Mode
	if explicit != nil {
		if !explicit.Valid() {
			return ferrors.ValidationError("invalid mode").
				WithContext("mode", string(*explicit)).
				Build()
		}
		target = *explicit
	} else {
		rec, err := s.load(ctx)
		if err != nil {
			return err
		}
		target = rec.Current.Opposite()
	}

	start := time.Now()
	rec, err := s.store.UpdateCurrent(ctx, s.overrides, target)
	s.recorder.ObserveStoreOp("update", time.Since(start), err == nil)
	if err != nil {
		return err
	}

	s.recorder.IncModeChange(target.String(), source)
	slog.Debug("Committed mode", logfields.Mode(target.String()), logfields.Source(source))

	return s.apply(ctx, rec, target)
}

// load reads the record with the configured overrides merged in.
func (s *Syncer) load(ctx context.Context) (theme.PreferenceRecord, error) {
	start := time.Now()
	rec, err := s.store.Load(ctx, s.overrides)
	s.recorder.ObserveStoreOp("load", time.Since(start), err == nil)
	return rec, err
}

// apply mutates the surfaces for the given mode and publishes the
// notification. The shell always updates before the frame, and the
// notification goes out only after both applicators have run.
func (s *Syncer) apply(ctx context.Context, rec theme.PreferenceRecord, mode theme.Mode) error {
	rec.Current = mode // local view only; persistence is the caller's concern

	start := time.Now()

	if s.shell != nil {
		surface.ApplyClassToggle(s.shell.Root(), rec)
	}
	if s.frame != nil && rec.Preview != nil {
		surface.ApplyClassToggle(s.frame.ClassTarget(rec.Preview.ClassTargetSelector), rec)
		surface.ApplyAttributeToggle(s.frame.AttributeTarget(rec.Preview.AttributeTargetSelector), rec)
	}

	s.recorder.ObserveApplyDuration(time.Since(start))

	return s.bus.Publish(ctx, events.ModeChanged{
		Dark:      mode.IsDark(),
		Mode:      mode,
		ChangedAt: time.Now(),
	})
}
