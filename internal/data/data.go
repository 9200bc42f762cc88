package data

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/biz"
	"github.com/enaribe/startup-ludo-sub001/internal/biz/room"
	"github.com/enaribe/startup-ludo-sub001/internal/conf"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewDataRepo, NewRedis)

// Data holds the shared clients.
type Data struct {
	redis *redis.Client
}

func NewData(c *conf.Data, rdb *redis.Client) (*Data, func(), error) {
	cleanup := func() {
		log.Info("closing the data resources")
		if rdb != nil {
			_ = rdb.Close()
		}
	}
	return &Data{redis: rdb}, cleanup, nil
}

func NewRedis(c *conf.Data) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       int(c.Redis.Db),
	})
}

type dataRepo struct {
	transport   room.Transport
	checkpoints room.CheckpointStore
}

// NewDataRepo assembles the repo the rooms publish through.
func NewDataRepo(data *Data, rc *conf.Room) biz.DataRepo {
	return &dataRepo{
		transport:   newRedisTransport(data.redis),
		checkpoints: newCheckpointStore(data.redis, rc.Checkpoint),
	}
}

func (r *dataRepo) Transport() room.Transport          { return r.transport }
func (r *dataRepo) Checkpoints() room.CheckpointStore  { return r.checkpoints }
