package protocol

import (
	"fmt"
	"sync"

	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// ErrSyncConflict marks an envelope the replica refused: stale turn,
// replayed sequence, or a payload that contradicts local state. The
// caller logs and drops; the authoritative room is never asked to
// rewind.
type ErrSyncConflict struct {
	Reason string
	Env    *Envelope
}

func (e *ErrSyncConflict) Error() string {
	return fmt.Sprintf("sync conflict (%s): kind=%s turn=%d seq=%d", e.Reason, e.Env.Kind, e.Env.Turn, e.Env.Seq)
}

// Replica mirrors one room's state from its envelope stream. Envelopes
// within a turn may arrive out of order; the replica buffers ahead and
// applies strictly by sequence. Anything at or behind the applied
// sequence, or from an earlier turn, is a conflict and is dropped.
type Replica struct {
	mu sync.Mutex

	roomID        string
	state         *model.GameState
	captureReward int32
	lastSeq       int64
	pending       map[int64]*Envelope
}

// NewReplica starts mirroring from a full state snapshot, typically
// obtained from a checkpoint on join.
func NewReplica(roomID string, snapshot *model.GameState, captureReward int32, seq int64) *Replica {
	return &Replica{
		roomID:        roomID,
		state:         snapshot.Clone(),
		captureReward: captureReward,
		lastSeq:       seq,
		pending:       make(map[int64]*Envelope),
	}
}

// State returns a copy safe to render from.
func (r *Replica) State() *model.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Seq returns the last applied sequence number.
func (r *Replica) Seq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSeq
}

// Apply ingests one envelope. Out-of-order envelopes from the current
// turn are buffered until the gap fills; stale ones come back as
// *ErrSyncConflict.
func (r *Replica) Apply(e *Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.RoomID != r.roomID {
		return &ErrSyncConflict{Reason: "wrong room", Env: e}
	}
	if e.Seq <= r.lastSeq {
		return &ErrSyncConflict{Reason: "stale sequence", Env: e}
	}
	if e.Turn < r.state.TurnCount {
		return &ErrSyncConflict{Reason: "stale turn", Env: e}
	}

	if e.Seq > r.lastSeq+1 {
		r.pending[e.Seq] = e
		log.Debugf("replica %s buffering seq %d (applied %d)", r.roomID, e.Seq, r.lastSeq)
		return nil
	}

	if err := r.applyLocked(e); err != nil {
		return err
	}
	for {
		next, ok := r.pending[r.lastSeq+1]
		if !ok {
			return nil
		}
		delete(r.pending, next.Seq)
		if err := r.applyLocked(next); err != nil {
			return err
		}
	}
}

func (r *Replica) applyLocked(e *Envelope) error {
	g := r.state
	switch e.Kind {
	case KindDiceRoll:
		var p DiceRoll
		if err := e.Payload(&p); err != nil {
			return err
		}
		g.Dice = p.Value

	case KindMove:
		var p MoveMsg
		if err := e.Payload(&p); err != nil {
			return err
		}
		if p.Move == nil {
			return &ErrSyncConflict{Reason: "move without payload", Env: e}
		}
		if err := g.ApplyResolved(p.Color, p.Move, r.captureReward); err != nil {
			return &ErrSyncConflict{Reason: err.Error(), Env: e}
		}

	case KindEventTrigger:
		var p EventTrigger
		if err := e.Payload(&p); err != nil {
			return err
		}
		g.Event = p.Event

	case KindEventResult:
		var p EventResult
		if err := e.Payload(&p); err != nil {
			return err
		}
		if pl := g.PlayerByID(p.PlayerID); pl != nil {
			pl.Tokens = p.Tokens
		}
		g.Event = nil

	case KindDuelScore:
		var p DuelScore
		if err := e.Payload(&p); err != nil {
			return err
		}
		if p.Result != nil {
			r.applyDuelResult(&p)
			g.Event = nil
		}

	case KindEndTurn:
		var p EndTurn
		if err := e.Payload(&p); err != nil {
			return err
		}
		g.Dice = 0
		g.Event = nil
		if !p.Extra {
			g.TurnCount++
		}
		g.Current = p.NextIndex
		if p.WinnerID != "" {
			g.WinnerID = p.WinnerID
			g.Status = model.GameFinished
		}

	case KindForfeit:
		var p Forfeit
		if err := e.Payload(&p); err != nil {
			return err
		}
		if _, err := g.ApplyForfeit(p.PlayerID); err != nil {
			return &ErrSyncConflict{Reason: err.Error(), Env: e}
		}

	case KindCheckpoint:
		var cp model.Checkpoint
		if err := e.Payload(&cp); err != nil {
			return err
		}
		restored, err := cp.Restore()
		if err != nil {
			return &ErrSyncConflict{Reason: err.Error(), Env: e}
		}
		r.state = restored

	default:
		return &ErrSyncConflict{Reason: "unknown kind", Env: e}
	}

	r.lastSeq = e.Seq
	return nil
}

// applyDuelResult pays both sides from the embedded resolution. The
// replica never recomputes the winner; the room already did.
func (r *Replica) applyDuelResult(p *DuelScore) {
	g := r.state
	if g.Event == nil || g.Event.Duel == nil {
		log.Warnf("replica %s: duel result with no open duel", r.roomID)
		return
	}
	d := g.Event.Duel
	if ch := g.PlayerByID(d.ChallengerID); ch != nil {
		ch.Tokens += p.Result.ChallengerReward
	}
	if op := g.PlayerByID(d.OpponentID); op != nil {
		op.Tokens += p.Result.OpponentReward
	}
}
