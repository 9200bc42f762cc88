package room

import (
	ext "github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// aiDriver plays every AI seat by scheduling delayed calls back into
// the room's public handlers, so AI traffic takes the exact same path
// as client traffic. All on* hooks run with the room lock held and
// must only read state and arm timers.
type aiDriver struct {
	room *Room
}

func (a *aiDriver) init(r *Room) {
	a.room = r
}

// onTurnStart arms the AI's roll when its turn opens.
func (a *aiDriver) onTurnStart(p *model.Player) {
	if p == nil || !p.AI {
		return
	}
	r := a.room
	id, turn := p.ID, r.epoch
	r.repo.GetTimer().Once(model.ThinkDelay(p.Difficulty), func() {
		if r.staleTurn(turn) {
			return
		}
		r.Roll(id)
	})
}

// onAwaitAction arms the AI's pawn choice after its roll.
func (a *aiDriver) onAwaitAction(p *model.Player, dice int32) {
	if p == nil || !p.AI {
		return
	}
	r := a.room
	d := model.Decide(r.game, p, dice, p.Difficulty)
	if d.Kind == model.KindSkip {
		log.Warnf("room %s: ai %s has no move after guard said otherwise", r.ID, p.ID)
		return
	}
	id, turn := p.ID, r.epoch
	r.repo.GetTimer().Once(model.ThinkDelay(p.Difficulty), func() {
		if r.staleTurn(turn) {
			return
		}
		r.ApplyMove(id, d.PawnIdx)
	})
}

// onQuiz arms the AI's simulated quiz answer.
func (a *aiDriver) onQuiz(p *model.Player, q *model.QuizPayload) {
	if p == nil || !p.AI || q == nil {
		return
	}
	r := a.room
	answer := model.AnswerQuiz(p.Difficulty, int32(len(q.Options)), q.CorrectAnswerIndex)
	id, turn := p.ID, r.epoch
	r.repo.GetTimer().Once(model.ThinkDelay(p.Difficulty), func() {
		if r.staleTurn(turn) {
			return
		}
		r.AnswerQuiz(id, answer)
	})
}

// onDuelOpen arms opponent selection for an AI challenger. The pick
// targets the live enemy with the most tokens, the one worth slowing
// down.
func (a *aiDriver) onDuelOpen(p *model.Player, d *model.DuelState) {
	if p == nil || !p.AI || d == nil {
		return
	}
	r := a.room
	target := ""
	best := int32(-1 << 30)
	for _, o := range r.game.Players {
		if o.ID == p.ID || o.Forfeited {
			continue
		}
		if o.Tokens > best || (o.Tokens == best && ext.IsHitFloat(0.5)) {
			target, best = o.ID, o.Tokens
		}
	}
	if target == "" {
		return
	}
	id, turn := p.ID, r.epoch
	r.repo.GetTimer().Once(model.ThinkDelay(p.Difficulty), func() {
		if r.staleTurn(turn) {
			return
		}
		r.SelectDuelOpponent(id, target)
	})
}

// onDuelReady arms score submission for every AI side of a bound duel.
func (a *aiDriver) onDuelReady(d *model.DuelState) {
	if d == nil {
		return
	}
	r := a.room
	turn := r.epoch
	for _, id := range []string{d.ChallengerID, d.OpponentID} {
		p := r.game.PlayerByID(id)
		if p == nil || !p.AI {
			continue
		}
		score := model.DuelScore(p.Difficulty, model.DuelQuestionCount)
		pid := p.ID
		r.repo.GetTimer().Once(model.ThinkDelay(p.Difficulty), func() {
			if r.staleTurn(turn) {
				return
			}
			r.SubmitDuelScore(pid, score)
		})
	}
}

// staleTurn reports whether the turn a timer was armed in has already
// ended; late AI callbacks become no-ops instead of racing the guards.
// Epoch, not TurnCount: an extra turn keeps the count but is a new turn.
func (r *Room) staleTurn(epoch int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed || r.epoch != epoch
}
