package room

import (
	"context"

	"github.com/yola1107/kratos/v2/library/work"

	"github.com/enaribe/startup-ludo-sub001/internal/conf"
	"github.com/enaribe/startup-ludo-sub001/internal/model"
	"github.com/enaribe/startup-ludo-sub001/internal/protocol"
)

// Transport fans a room's envelope stream out to replicas: connected
// clients, spectators and peer servers.
type Transport interface {
	Publish(ctx context.Context, roomID string, e *protocol.Envelope) error
	Subscribe(ctx context.Context, roomID string, fn func(*protocol.Envelope)) (func(), error)
}

// CheckpointStore persists turn-boundary snapshots for resume.
type CheckpointStore interface {
	Save(ctx context.Context, roomID string, cp *model.Checkpoint) error
	Load(ctx context.Context, roomID string) (*model.Checkpoint, error)
	Delete(ctx context.Context, roomID string) error
}

// Repo is everything a room needs from the outside world.
type Repo interface {
	GetLoop() work.Loop
	GetTimer() work.Scheduler
	GetRoomConfig() *conf.Room
	Transport() Transport
	Checkpoints() CheckpointStore
}
