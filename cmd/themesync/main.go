package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/themesync/internal/config"
	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"themesync.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Get struct{} `cmd:"" help:"Print the current mode and active theme"`

	Set struct {
		Mode string `arg:"" help:"Mode to commit (light or dark)"`
	} `cmd:"" help:"Commit and apply a mode"`

	Toggle struct{} `cmd:"" help:"Flip the committed mode"`

	Render struct{} `cmd:"" help:"Re-assert the persisted mode without changing it"`

	History struct {
		Limit int `short:"n" help:"Number of entries to show" default:"20"`
	} `cmd:"" help:"Show recent mode changes"`

	Daemon struct{} `cmd:"" help:"Run the synchronizer daemon"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg := loadConfig()
	setupLogging(cfg)

	errorAdapter := ferrors.NewCLIErrorAdapter(CLI.Verbose, slog.Default())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch kctx.Command() {
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	case "get":
		err = runGet(ctx, cfg)
	case "set <mode>":
		err = runSet(ctx, cfg, CLI.Set.Mode)
	case "toggle":
		err = runToggle(ctx, cfg)
	case "render":
		err = runRender(ctx, cfg)
	case "history":
		err = runHistory(ctx, cfg, CLI.History.Limit)
	case "daemon":
		err = runDaemon(ctx, cfg)
	default:
		kctx.Fatalf("unknown command: %s", kctx.Command())
	}

	if err != nil {
		errorAdapter.HandleError(err)
		os.Exit(errorAdapter.ExitCodeFor(err))
	}
}

// loadConfig loads the configured file, falling back to defaults when
// it does not exist so read-only commands work without one.
func loadConfig() *config.Config {
	if _, statErr := os.Stat(CLI.Config); statErr != nil {
		return config.Default()
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(ferrors.NewCLIErrorAdapter(CLI.Verbose, slog.Default()).ExitCodeFor(err))
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch config.NormalizeLogLevel(cfg.Logging.Level) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
