package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/themesync/internal/config"
	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// Scheduler wraps gocron for the timed dark/light switchover. At each
// configured time of day it publishes a mode-change request on the bus,
// so scheduled switches follow the same path as every other trigger.
type Scheduler struct {
	scheduler gocron.Scheduler
	bus       *events.Bus
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(bus *events.Bus) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{scheduler: s, bus: bus}, nil
}

// ScheduleModeSwitches registers the configured switchover times.
// Empty fields are skipped; with both empty the scheduler stays idle.
func (s *Scheduler) ScheduleModeSwitches(cfg config.ScheduleConfig) error {
	if err := s.scheduleAt(cfg.DarkAt, theme.ModeDark); err != nil {
		return err
	}
	return s.scheduleAt(cfg.LightAt, theme.ModeLight)
}

func (s *Scheduler) scheduleAt(at string, mode theme.Mode) error {
	if at == "" {
		return nil
	}

	parsed, err := time.Parse("15:04", at)
	if err != nil {
		return fmt.Errorf("invalid schedule time %q: %w", at, err)
	}

	job, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(parsed.Hour()), uint(parsed.Minute()), 0),
		)),
		gocron.NewTask(s.requestMode, mode),
		gocron.WithName(fmt.Sprintf("switch-%s", mode)),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s switch job: %w", mode, err)
	}

	slog.Info("Scheduled mode switch",
		logfields.JobID(job.ID().String()),
		logfields.Mode(string(mode)),
		slog.String("at", at))
	return nil
}

// requestMode is called by gocron at the scheduled time.
func (s *Scheduler) requestMode(mode theme.Mode) {
	slog.Info("Executing scheduled mode switch", logfields.Mode(string(mode)))
	if err := s.bus.Publish(context.Background(), events.ModeChangeRequested{
		Mode:        mode,
		Source:      "schedule",
		RequestedAt: time.Now(),
	}); err != nil {
		slog.Warn("failed to publish scheduled mode switch", logfields.Error(err))
	}
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
