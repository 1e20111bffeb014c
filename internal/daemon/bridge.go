package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/themesync/internal/config"
	"git.home.luguber.info/inful/themesync/internal/events"
	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// ModeCommand is the inbound NATS command payload asking for a mode.
type ModeCommand struct {
	Mode string `json:"mode"`
}

// ModeNotification is the outbound payload published on every commit.
type ModeNotification struct {
	Dark      bool      `json:"dark"`
	Mode      string    `json:"mode"`
	ChangedAt time.Time `json:"changedAt"`
}

// Bridge connects the synchronizer to NATS: inbound commands on the
// command subject become mode-change requests on the bus, and every
// mode-changed notification is republished on the publish subject so
// other processes can follow along.
type Bridge struct {
	conn *nats.Conn
	cfg  config.NATSConfig
	bus  *events.Bus
}

// NewBridge connects to NATS. The caller owns the returned bridge and
// must Close it.
func NewBridge(cfg config.NATSConfig, bus *events.Bus) (*Bridge, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			Retryable().
			Build()
	}

	slog.Info("NATS bridge connected",
		slog.String("url", cfg.URL),
		logfields.Subject(cfg.CommandSubject))

	return &Bridge{conn: conn, cfg: cfg, bus: bus}, nil
}

// Start subscribes to the command subject and begins republishing
// notifications. The returned stop function drains both directions.
func (b *Bridge) Start(ctx context.Context) (func(), error) {
	sub, err := b.conn.Subscribe(b.cfg.CommandSubject, b.handleCommand)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to subscribe to command subject").
			Build()
	}

	ch, unsubscribe := events.Subscribe[events.ModeChanged](b.bus, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				b.publishNotification(evt)
			}
		}
	}()

	return func() {
		_ = sub.Unsubscribe()
		unsubscribe()
		<-done
	}, nil
}

func (b *Bridge) handleCommand(msg *nats.Msg) {
	var cmd ModeCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		slog.Warn("invalid mode command payload",
			logfields.Subject(msg.Subject),
			logfields.Error(err))
		return
	}

	mode, err := theme.ParseMode(cmd.Mode)
	if err != nil {
		slog.Warn("mode command with unknown mode",
			logfields.Subject(msg.Subject),
			logfields.Mode(cmd.Mode))
		return
	}

	if err := b.bus.Publish(context.Background(), events.ModeChangeRequested{
		Mode:        mode,
		Source:      "nats",
		RequestedAt: time.Now(),
	}); err != nil {
		slog.Warn("failed to forward mode command", logfields.Error(err))
	}
}

func (b *Bridge) publishNotification(evt events.ModeChanged) {
	payload, err := json.Marshal(ModeNotification{
		Dark:      evt.Dark,
		Mode:      string(evt.Mode),
		ChangedAt: evt.ChangedAt,
	})
	if err != nil {
		slog.Error("failed to marshal mode notification", logfields.Error(err))
		return
	}

	if err := b.conn.Publish(b.cfg.PublishSubject, payload); err != nil {
		slog.Warn("failed to publish mode notification",
			logfields.Subject(b.cfg.PublishSubject),
			logfields.Error(err))
	}
}

// Close drains and closes the NATS connection.
func (b *Bridge) Close() error {
	if err := b.conn.Drain(); err != nil {
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
