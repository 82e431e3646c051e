package bus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channel = "relay:global"

// Message is one globally fanned-out event crossing node boundaries.
// Node identifies the publisher so subscribers can skip their own
// messages.
type Message struct {
	Node  string          `json:"node"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Bus bridges global broadcasts (rooms:list) across relay nodes over
// Redis pub/sub. Room state itself stays node-local; this is delivery
// plumbing only.
type Bus struct {
	rdb  *redis.Client
	node string
	log  *slog.Logger
}

// New connects to redis and verifies connectivity.
func New(ctx context.Context, addr string, log *slog.Logger) (*Bus, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Bus{rdb: rdb, node: uuid.NewString(), log: log}, nil
}

// Publish sends one global event to the shared channel.
func (b *Bus) Publish(ctx context.Context, event string, data []byte) error {
	raw, err := json.Marshal(Message{Node: b.node, Event: event, Data: data})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, raw).Err()
}

// Subscribe invokes fn for every event published by other nodes.
// Blocks until ctx is done.
func (b *Bus) Subscribe(ctx context.Context, fn func(event string, data []byte)) {
	pubsub := b.rdb.Subscribe(ctx, channel)
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				b.log.Warn("bus decode", "err", err)
				continue
			}
			if m.Node == b.node || m.Event == "" {
				continue
			}
			fn(m.Event, m.Data)
		}
	}
}

// Close shuts down the redis connection.
func (b *Bus) Close() { _ = b.rdb.Close() }
