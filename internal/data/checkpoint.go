package data

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/enaribe/startup-ludo-sub001/internal/biz/room"
	"github.com/enaribe/startup-ludo-sub001/internal/conf"
	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// checkpointStore keeps one compact snapshot per room under a TTL, so
// abandoned games age out on their own.
type checkpointStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func newCheckpointStore(rdb *redis.Client, c *conf.Checkpoint) room.CheckpointStore {
	ttl := 24 * time.Hour
	if c != nil && c.TTLSeconds > 0 {
		ttl = time.Duration(c.TTLSeconds) * time.Second
	}
	return &checkpointStore{rdb: rdb, ttl: ttl}
}

func checkpointKey(roomID string) string {
	return "ludo:checkpoint:" + roomID
}

func (s *checkpointStore) Save(ctx context.Context, roomID string, cp *model.Checkpoint) error {
	raw, err := model.EncodeCheckpoint(cp)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, checkpointKey(roomID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", roomID, err)
	}
	return nil
}

func (s *checkpointStore) Load(ctx context.Context, roomID string) (*model.Checkpoint, error) {
	raw, err := s.rdb.Get(ctx, checkpointKey(roomID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", roomID, err)
	}
	return model.DecodeCheckpoint(raw)
}

func (s *checkpointStore) Delete(ctx context.Context, roomID string) error {
	return s.rdb.Del(ctx, checkpointKey(roomID)).Err()
}
