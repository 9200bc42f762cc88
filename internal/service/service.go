// Package service is the request-facing facade. It translates HTTP and
// websocket calls into room operations and shapes their replies.
package service

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/biz"
	"github.com/enaribe/startup-ludo-sub001/internal/biz/room"
	"github.com/enaribe/startup-ludo-sub001/internal/model"
	"github.com/enaribe/startup-ludo-sub001/pkg/codes"
	"github.com/enaribe/startup-ludo-sub001/internal/protocol"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewService)

type Service struct {
	uc    *biz.Usecase
	rooms *room.Manager
}

func NewService(uc *biz.Usecase, rooms *room.Manager) (*Service, func(), error) {
	s := &Service{uc: uc, rooms: rooms}
	cleanup := func() {
		log.Info("closing the service resources")
		rooms.Close()
	}
	return s, cleanup, nil
}

// SeatReq is one human seat in a create request.
type SeatReq struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Color    int32  `json:"color"`
}

type CreateRoomReq struct {
	Seats []SeatReq `json:"seats"`
}

type RoomReply struct {
	RoomID string           `json:"roomId"`
	Phase  string           `json:"phase"`
	Seq    int64            `json:"seq"`
	State  *model.GameState `json:"state"`
}

// CreateRoom builds a room from the requested human seats. Colors must
// be explicit so the client lobby and the board agree.
func (s *Service) CreateRoom(req *CreateRoomReq) (*RoomReply, error) {
	roster := make([]model.Seat, 0, len(req.Seats))
	for _, sr := range req.Seats {
		if sr.PlayerID == "" {
			return nil, fmt.Errorf("seat without playerId")
		}
		roster = append(roster, model.Seat{
			ID:    sr.PlayerID,
			Name:  sr.Name,
			Color: model.Color(sr.Color),
		})
	}
	r, err := s.rooms.Create(roster, nil)
	if err != nil {
		return nil, err
	}
	return roomReply(r), nil
}

// ResumeRoom revives a room from its checkpoint when no live instance
// holds it.
func (s *Service) ResumeRoom(ctx context.Context, roomID string) (*RoomReply, error) {
	r, err := s.rooms.Resume(ctx, roomID, nil)
	if err != nil {
		return nil, err
	}
	return roomReply(r), nil
}

// RoomState returns the live snapshot for spectators and reconnects.
func (s *Service) RoomState(roomID string) (*RoomReply, error) {
	r := s.rooms.Get(roomID)
	if r == nil {
		return nil, fmt.Errorf("room %s not found", roomID)
	}
	return roomReply(r), nil
}

func (s *Service) CloseRoom(roomID string) {
	s.rooms.Remove(roomID)
}

func roomReply(r *room.Room) *RoomReply {
	return &RoomReply{
		RoomID: r.ID,
		Phase:  r.Phase().String(),
		Seq:    r.Seq(),
		State:  r.State(),
	}
}

// lookup resolves the room or reports ROOM_NOT_FOUND.
func (s *Service) lookup(roomID string) (*room.Room, int32) {
	r := s.rooms.Get(roomID)
	if r == nil {
		return nil, codes.ROOM_NOT_FOUND
	}
	return r, codes.SUCCESS
}

func (s *Service) Roll(roomID, playerID string) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.Roll(playerID)
}

func (s *Service) Move(roomID, playerID string, pawnIdx int32) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.ApplyMove(playerID, pawnIdx)
}

func (s *Service) AnswerQuiz(roomID, playerID string, answerIdx int32) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.AnswerQuiz(playerID, answerIdx)
}

func (s *Service) SelectDuelOpponent(roomID, playerID, opponentID string) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.SelectDuelOpponent(playerID, opponentID)
}

func (s *Service) SubmitDuelScore(roomID, playerID string, score int32) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.SubmitDuelScore(playerID, score)
}

func (s *Service) Disconnect(roomID, playerID string) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.Disconnect(playerID)
}

func (s *Service) Reconnect(roomID, playerID string) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.Reconnect(playerID)
}

func (s *Service) ClaimForfeit(roomID, playerID string) int32 {
	r, code := s.lookup(roomID)
	if code != codes.SUCCESS {
		return code
	}
	return r.ClaimForfeit(playerID)
}

// WatchRoom subscribes to a room's envelope stream. The stop function
// closes the subscription.
func (s *Service) WatchRoom(ctx context.Context, roomID string, fn func(*protocol.Envelope)) (func(), error) {
	return s.uc.Transport().Subscribe(ctx, roomID, fn)
}
