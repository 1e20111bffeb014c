package main

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/themesync/internal/config"
	"git.home.luguber.info/inful/themesync/internal/daemon"
	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/history"
	"git.home.luguber.info/inful/themesync/internal/state"
	"git.home.luguber.info/inful/themesync/internal/syncer"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

func runInit(path string, force bool) error {
	if err := config.Init(path, force); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

// session bundles the store and syncer every headless command needs.
type session struct {
	store *state.Store
	bus   *events.Bus
	sync  *syncer.Syncer
	cfg   *config.Config
}

func openSession(cfg *config.Config) (*session, error) {
	overrides, err := cfg.Theme.Overrides()
	if err != nil {
		return nil, err
	}

	var slot state.Slot
	switch config.NormalizeBackend(cfg.Storage.Backend) {
	case config.BackendMemory:
		slot = state.NewMemorySlot()
	case config.BackendNATS:
		if slot, err = state.NewNATSSlot(cfg.NATS.URL, cfg.NATS.Bucket); err != nil {
			return nil, err
		}
	default:
		if slot, err = state.NewFileSlot(cfg.Storage.Path); err != nil {
			return nil, err
		}
	}

	store := state.NewStore(slot)
	bus := events.NewBus()
	sync := syncer.New(store, bus, syncer.Options{Overrides: overrides})
	return &session{store: store, bus: bus, sync: sync, cfg: cfg}, nil
}

func (s *session) close() {
	s.bus.Close()
	if err := s.store.Close(); err != nil {
		slog.Warn("failed to close preference store", "error", err)
	}
}

func runGet(ctx context.Context, cfg *config.Config) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	overrides, err := cfg.Theme.Overrides()
	if err != nil {
		return err
	}
	rec, err := s.store.Load(ctx, overrides)
	if err != nil {
		return err
	}

	fmt.Printf("mode: %s\n", rec.Current)
	if active := rec.ActiveTheme(rec.Current); len(active) > 0 {
		fmt.Printf("theme: %s\n", active)
	}
	return nil
}

func runSet(ctx context.Context, cfg *config.Config, raw string) error {
	mode, err := theme.ParseMode(raw)
	if err != nil {
		return err
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.sync.UpdateMode(ctx, &mode); err != nil {
		return err
	}
	fmt.Printf("mode: %s\n", mode)
	return nil
}

func runToggle(ctx context.Context, cfg *config.Config) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.sync.UpdateMode(ctx, nil); err != nil {
		return err
	}

	overrides, err := cfg.Theme.Overrides()
	if err != nil {
		return err
	}
	rec, err := s.store.Load(ctx, overrides)
	if err != nil {
		return err
	}
	fmt.Printf("mode: %s\n", rec.Current)
	return nil
}

func runRender(ctx context.Context, cfg *config.Config) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	return s.sync.RenderTheme(ctx)
}

func runHistory(ctx context.Context, cfg *config.Config, limit int) error {
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no mode changes recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Mode)
	}
	return nil
}

func runDaemon(ctx context.Context, cfg *config.Config) error {
	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}
