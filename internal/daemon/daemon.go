// Package daemon composes the long-running theme synchronizer service:
// the preference store over the configured backend, the event bus and
// synchronization core, the served shell and frame pages, timed mode
// switches, the slot and content watchers, and optional NATS bridging.
package daemon

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/themesync/internal/colorscheme"
	"git.home.luguber.info/inful/themesync/internal/config"
	"git.home.luguber.info/inful/themesync/internal/events"
	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/history"
	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/metrics"
	"git.home.luguber.info/inful/themesync/internal/preview"
	"git.home.luguber.info/inful/themesync/internal/state"
	"git.home.luguber.info/inful/themesync/internal/syncer"
)

// Daemon is the long-running synchronizer service.
type Daemon struct {
	cfg   *config.Config
	bus   *events.Bus
	store *state.Store
	sync  *syncer.Syncer
	pages *Pages
	http  *HTTPServer
}

// New wires the daemon from configuration. Run starts it.
func New(cfg *config.Config) (*Daemon, error) {
	overrides, err := cfg.Theme.Overrides()
	if err != nil {
		return nil, err
	}

	slot, err := openSlot(cfg)
	if err != nil {
		return nil, err
	}
	store := state.NewStore(slot)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(registry)

	pages, err := NewPages("Theme Preview", cfg.Content.Dir)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	sync := syncer.New(store, bus, syncer.Options{
		Overrides: overrides,
		Shell:     pages,
		Frame:     pages,
		Recorder:  recorder,
	})

	d := &Daemon{
		cfg:   cfg,
		bus:   bus,
		store: store,
		sync:  sync,
		pages: pages,
	}
	d.http = NewHTTPServer(cfg.Server.Addr, store, sync, pages, overrides, registry)
	return d, nil
}

func openSlot(cfg *config.Config) (state.Slot, error) {
	backend := config.NormalizeBackend(cfg.Storage.Backend)
	slog.Info("Opening preference slot", logfields.Backend(string(backend)))

	switch backend {
	case config.BackendMemory:
		return state.NewMemorySlot(), nil
	case config.BackendNATS:
		slot, err := state.NewNATSSlot(cfg.NATS.URL, cfg.NATS.Bucket)
		if err != nil {
			return nil, err
		}
		return slot, nil
	default:
		slot, err := state.NewFileSlot(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return slot, nil
	}
}

// Run starts every component, resolves the initial mode, and blocks
// until the context is cancelled, then shuts down in reverse order.
func (d *Daemon) Run(ctx context.Context) error {
	slog.Info("Starting theme synchronizer daemon")

	var stops []func()
	addStop := func(stop func()) { stops = append(stops, stop) }

	// Trigger dispatch must be live before anything can publish.
	addStop(d.sync.Start(ctx))

	if d.cfg.History.Enabled {
		journalStore, err := history.NewSQLiteStore(d.cfg.History.Path)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryDaemon, "failed to open history journal").Build()
		}
		defer func() { _ = journalStore.Close() }()
		addStop(history.NewJournal(journalStore, d.bus).Start(ctx))
	}

	detector := d.schemeResolver()
	if detector != nil {
		observer := colorscheme.NewObserver(detector, d.bus, d.cfg.ColorScheme.PollInterval)
		addStop(observer.Start(ctx))
	}

	existed, err := d.store.Exists(ctx)
	if err != nil {
		return err
	}
	if err := d.sync.ResolveInitial(ctx, detectorOrNil(detector)); err != nil {
		return err
	}
	if existed {
		// Resolution left the persisted choice untouched; paint it.
		if err := d.sync.RenderTheme(ctx); err != nil {
			return err
		}
	}

	scheduler, err := NewScheduler(d.bus)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryDaemon, "failed to create scheduler").Build()
	}
	if err := scheduler.ScheduleModeSwitches(d.cfg.Schedule); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryDaemon, "failed to schedule mode switches").Build()
	}
	scheduler.Start(ctx)
	addStop(func() {
		if err := scheduler.Stop(context.Background()); err != nil {
			slog.Warn("scheduler shutdown failed", logfields.Error(err))
		}
	})

	if config.NormalizeBackend(d.cfg.Storage.Backend) == config.BackendFile {
		slotWatcher := NewSlotWatcher(d.cfg.Storage.Path, d.sync)
		stop, err := slotWatcher.Start(ctx)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryDaemon, "failed to watch slot file").Build()
		}
		addStop(stop)
	}

	if d.cfg.Content.Dir != "" {
		if err := d.startContentWatcher(ctx, addStop); err != nil {
			return err
		}
	}

	if d.cfg.NATS.URL != "" {
		bridge, err := NewBridge(d.cfg.NATS, d.bus)
		if err != nil {
			return err
		}
		stop, err := bridge.Start(ctx)
		if err != nil {
			_ = bridge.Close()
			return err
		}
		addStop(func() {
			stop()
			if err := bridge.Close(); err != nil {
				slog.Warn("NATS bridge shutdown failed", logfields.Error(err))
			}
		})
	}

	d.http.Start(ctx)

	<-ctx.Done()
	slog.Info("Shutting down theme synchronizer daemon")

	if err := d.http.Stop(context.Background()); err != nil {
		slog.Warn("HTTP server shutdown failed", logfields.Error(err))
	}
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
	d.bus.Close()
	if err := d.store.Close(); err != nil {
		slog.Warn("preference store close failed", logfields.Error(err))
	}

	return nil
}

// startContentWatcher watches the content directory and rebuilds the
// frame when markdown files change. The rebuild publishes a rendered
// event, which makes the synchronizer re-assert the active theme on the
// fresh document.
func (d *Daemon) startContentWatcher(ctx context.Context, addStop func(func())) error {
	watcher := preview.NewWatcher(d.cfg.Content.Dir, d.bus)
	stopWatch, err := watcher.Start(ctx)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryDaemon, "failed to watch content directory").Build()
	}
	addStop(stopWatch)

	changedCh, unsubChanged := events.Subscribe[events.ContentChanged](d.bus, 8)
	listCh, unsubList := events.Subscribe[events.ContentListUpdated](d.bus, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		rebuild := func() {
			if err := d.pages.Rebuild(ctx, d.cfg.Content.Dir, d.bus); err != nil {
				slog.Warn("frame rebuild failed", logfields.Error(err))
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changedCh:
				if !ok {
					return
				}
				rebuild()
			case _, ok := <-listCh:
				if !ok {
					return
				}
				rebuild()
			}
		}
	}()

	addStop(func() {
		unsubChanged()
		unsubList()
		<-done
	})
	return nil
}

// schemeResolver builds the system color-scheme detector chain from
// configuration. Returns nil when detection is disabled entirely.
func (d *Daemon) schemeResolver() *colorscheme.Resolver {
	if d.cfg.ColorScheme.Force != "" {
		return colorscheme.NewResolver(colorscheme.FixedDetector{
			Dark: d.cfg.ColorScheme.Force == "dark",
		})
	}
	if !d.cfg.ColorScheme.Detect {
		return nil
	}
	return colorscheme.NewResolver(
		colorscheme.GTKThemeDetector{},
		colorscheme.ColorFGBGDetector{},
	)
}

func detectorOrNil(r *colorscheme.Resolver) syncer.SchemeDetector {
	if r == nil {
		return nil
	}
	return r
}
