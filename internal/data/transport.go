package data

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/biz/room"
	"github.com/enaribe/startup-ludo-sub001/internal/protocol"
)

// redisTransport fans room envelopes out over redis pub/sub, so
// replicas on any instance see the same stream.
type redisTransport struct {
	rdb *redis.Client
}

func newRedisTransport(rdb *redis.Client) room.Transport {
	return &redisTransport{rdb: rdb}
}

func channel(roomID string) string {
	return "ludo:room:" + roomID
}

func (t *redisTransport) Publish(ctx context.Context, roomID string, e *protocol.Envelope) error {
	raw, err := protocol.Encode(e)
	if err != nil {
		return err
	}
	return t.rdb.Publish(ctx, channel(roomID), raw).Err()
}

// Subscribe opens a pub/sub consumer for one room. The returned stop
// function closes it; decode failures are logged and skipped, never
// fatal to the stream.
func (t *redisTransport) Subscribe(ctx context.Context, roomID string, fn func(*protocol.Envelope)) (func(), error) {
	sub := t.rdb.Subscribe(ctx, channel(roomID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			e, err := protocol.Decode([]byte(msg.Payload))
			if err != nil {
				log.Warnf("transport %s: bad envelope dropped: %v", roomID, err)
				continue
			}
			fn(e)
		}
	}()

	return func() { _ = sub.Close() }, nil
}
