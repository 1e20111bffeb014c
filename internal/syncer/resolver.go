package syncer

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/metrics"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// SchemeDetector reports the system-level color-scheme preference.
// ok is false when no detection source is available.
type SchemeDetector interface {
	PrefersDark() (prefersDark bool, ok bool)
}

// ResolveInitial reconciles the three candidate initial states once per
// syncer instance, in priority order:
//
//  1. A persisted mode already exists: the user's prior choice is
//     authoritative; nothing happens here (rendering is triggered via
//     the general RenderTheme path).
//  2. The caller configured a default mode: commit it.
//  3. The system scheme currently indicates dark: commit dark.
//  4. Otherwise the pre-existing light default stays in effect.
//
// The guard is an explicit flag, not re-render diffing: once resolved,
// repeat calls are no-ops so the resolver never fights the user's
// subsequent manual toggles. A failed resolution leaves the flag unset
// so the next mount may retry.
func (s *Syncer) ResolveInitial(ctx context.Context, system SchemeDetector) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	exists, err := s.store.Exists(ctx)
	if err != nil {
		return err
	}

	switch {
	case exists:
		s.recorder.IncResolverOutcome(metrics.ResolverPersisted)
		slog.Debug("Initial mode resolution: persisted choice wins")

	case s.overrides.Current != nil && s.overrides.Current.Valid():
		if err := s.updateMode(ctx, s.overrides.Current, "resolver"); err != nil {
			return err
		}
		s.recorder.IncResolverOutcome(metrics.ResolverDefault)
		slog.Debug("Initial mode resolution: caller default", logfields.Mode(s.overrides.Current.String()))

	default:
		if system != nil {
			if dark, ok := system.PrefersDark(); ok && dark {
				target := theme.ModeDark
				if err := s.updateMode(ctx, &target, "resolver"); err != nil {
					return err
				}
				s.recorder.IncResolverOutcome(metrics.ResolverSystem)
				slog.Debug("Initial mode resolution: system scheme", logfields.Mode(target.String()))
				break
			}
		}
		s.recorder.IncResolverOutcome(metrics.ResolverFallback)
		slog.Debug("Initial mode resolution: light fallback")
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	return nil
}
