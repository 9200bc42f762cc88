// Package biz wires the room engine to its runtime: worker loop,
// timer scheduler, config and the data layer.
package biz

import (
	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/library/work"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/biz/room"
	"github.com/enaribe/startup-ludo-sub001/internal/conf"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewUsecase, NewRoomManager)

// DataRepo is what the data layer offers the game: envelope fan-out
// and checkpoint persistence.
type DataRepo interface {
	Transport() room.Transport
	Checkpoints() room.CheckpointStore
}

// Usecase owns the shared runtime every room borrows. It is the
// room.Repo implementation.
type Usecase struct {
	rc    *conf.Room
	repo  DataRepo
	loop  work.Loop
	timer work.Scheduler
}

func NewUsecase(rc *conf.Room, repo DataRepo) (*Usecase, func(), error) {
	uc := &Usecase{
		rc:    rc,
		repo:  repo,
		loop:  work.NewLoop(work.WithSize(1024)),
		timer: work.NewHeapScheduler(),
	}
	if err := uc.loop.Start(); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		log.Info("closing the biz resources")
		uc.timer.Stop()
		uc.loop.Stop()
	}
	return uc, cleanup, nil
}

func (uc *Usecase) GetLoop() work.Loop            { return uc.loop }
func (uc *Usecase) GetTimer() work.Scheduler           { return uc.timer }
func (uc *Usecase) GetRoomConfig() *conf.Room          { return uc.rc }
func (uc *Usecase) Transport() room.Transport          { return uc.repo.Transport() }
func (uc *Usecase) Checkpoints() room.CheckpointStore  { return uc.repo.Checkpoints() }

// NewRoomManager hangs the room registry off the shared runtime.
func NewRoomManager(uc *Usecase) *room.Manager {
	return room.NewManager(uc)
}
