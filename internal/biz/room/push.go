package room

import (
	"context"

	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
	"github.com/enaribe/startup-ludo-sub001/internal/protocol"
)

// publish frames and fans out one envelope. Callers hold mu; the
// sequence number is allocated here so the stream is gapless.
func (r *Room) publish(kind protocol.Kind, payload any) {
	r.seq++
	e, err := protocol.NewEnvelope(kind, r.ID, r.game.TurnCount, r.stage.Get().String(), r.seq, payload)
	if err != nil {
		log.Errorf("room %s: build %s envelope: %v", r.ID, kind, err)
		return
	}
	if err := r.repo.Transport().Publish(context.Background(), r.ID, e); err != nil {
		log.Errorf("room %s: publish %s: %v", r.ID, kind, err)
	}
}

func (r *Room) pushDiceRoll(p *model.Player, dice int32) {
	r.publish(protocol.KindDiceRoll, protocol.DiceRoll{PlayerID: p.ID, Value: dice})
}

func (r *Room) pushMove(p *model.Player, mv *model.Move) {
	r.publish(protocol.KindMove, protocol.MoveMsg{PlayerID: p.ID, Color: p.Color, Move: mv})
}

func (r *Room) pushEventTrigger(p *model.Player, ev *model.Event) {
	r.publish(protocol.KindEventTrigger, protocol.EventTrigger{PlayerID: p.ID, EventType: ev.Type, Event: ev})
}

func (r *Room) pushEventResult(p *model.Player, ok bool, reward int32) {
	r.publish(protocol.KindEventResult, protocol.EventResult{
		PlayerID: p.ID,
		OK:       ok,
		Reward:   reward,
		Tokens:   p.Tokens,
	})
}

func (r *Room) pushDuelScore(playerID string, score int32, res *model.DuelResult) {
	r.publish(protocol.KindDuelScore, protocol.DuelScore{PlayerID: playerID, Score: score, Result: res})
}

func (r *Room) pushEndTurn(p *model.Player, next int32, extra bool, winner string) {
	r.publish(protocol.KindEndTurn, protocol.EndTurn{
		PlayerID:  p.ID,
		NextIndex: next,
		Extra:     extra,
		WinnerID:  winner,
	})
}

func (r *Room) pushForfeit(playerID, winner string) {
	r.publish(protocol.KindForfeit, protocol.Forfeit{PlayerID: playerID, WinnerID: winner})
}

func (r *Room) pushCheckpoint(cp *model.Checkpoint) {
	r.publish(protocol.KindCheckpoint, cp)
}
