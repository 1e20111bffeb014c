package state

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
)

// natsSlotKey is the single key used inside the KV bucket.
const natsSlotKey = "preferences"

// NATSSlot backs the preference slot with a NATS JetStream KV bucket,
// letting multiple processes on the same host share one preference
// record. History is kept at 1; last write wins, matching the slot
// contract.
type NATSSlot struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

// NewNATSSlot connects to NATS and creates or opens the KV bucket.
func NewNATSSlot(url, bucket string) (*NATSSlot, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "connect to NATS").
			WithContext("url", url).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "create JetStream context").Build()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "themesync preference slot",
			History:     1, // Keep only latest value
		})
		if err != nil {
			conn.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "create KV bucket").
				WithContext("bucket", bucket).
				Build()
		}
	}

	slog.Info("NATS preference slot initialized", "url", url, "bucket", bucket)

	return &NATSSlot{conn: conn, kv: kv, bucket: bucket}, nil
}

func (n *NATSSlot) Get(ctx context.Context) ([]byte, bool, error) {
	entry, err := n.kv.Get(ctx, natsSlotKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, ferrors.WrapError(err, ferrors.CategoryNetwork, "read preference slot").
			WithContext("bucket", n.bucket).
			Build()
	}
	return entry.Value(), true, nil
}

func (n *NATSSlot) Set(ctx context.Context, data []byte) error {
	if _, err := n.kv.Put(ctx, natsSlotKey, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "write preference slot").
			WithContext("bucket", n.bucket).
			Build()
	}
	return nil
}

func (n *NATSSlot) Close() error {
	n.conn.Close()
	return nil
}
