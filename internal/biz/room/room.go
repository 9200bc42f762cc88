package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/conf"
	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// Room owns one game: the authoritative state, the turn machine and
// the timers driving it. All mutation happens under mu; timer and AI
// callbacks re-enter through the exported handlers like any client.
type Room struct {
	ID   string
	repo Repo

	mu     sync.Mutex
	game   *model.GameState
	stage  *Stage
	seq    int64
	epoch  int64 // bumped every beginTurn, extra turns included
	roller model.Roller
	closed bool

	aiLogic       aiDriver
	forfeitTimers map[string]forfeitWatch
}

// forfeitWatch is one armed disconnect countdown. Manual claims are
// rejected until the deadline; the timer itself claims at expiry.
type forfeitWatch struct {
	timerID  int64
	deadline time.Time
}

// NewRoom validates the roster and builds an idle room. Start launches
// the first turn.
func NewRoom(id string, roster []model.Seat, repo Repo, roller model.Roller) (*Room, error) {
	g, err := model.NewGameState(roster, repo.GetRoomConfig().Game.Edition)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}
	r := &Room{
		ID:            id,
		repo:          repo,
		game:          g,
		stage:         &Stage{},
		roller:        roller,
		forfeitTimers: make(map[string]forfeitWatch),
	}
	if r.roller == nil {
		r.roller = model.DefaultRoller
	}
	r.aiLogic.init(r)
	return r, nil
}

// Restore rebuilds a room from a checkpoint, landing on the start of
// the checkpointed player's turn.
func Restore(id string, cp *model.Checkpoint, repo Repo, roller model.Roller) (*Room, error) {
	g, err := cp.Restore()
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}
	r := &Room{
		ID:            id,
		repo:          repo,
		game:          g,
		stage:         &Stage{},
		roller:        roller,
		forfeitTimers: make(map[string]forfeitWatch),
	}
	if r.roller == nil {
		r.roller = model.DefaultRoller
	}
	r.aiLogic.init(r)
	return r, nil
}

// Start opens the first turn.
func (r *Room) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game.Status == model.GameFinished {
		r.enterPhase(PhFinished)
		return
	}
	log.Infof("room %s starting. players=%d edition=%s turn=%d",
		r.ID, len(r.game.Players), r.game.Edition, r.game.TurnCount)
	r.beginTurn()
}

// Close cancels every pending timer. The room is unusable afterwards.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.repo.GetTimer().Cancel(r.stage.GetTimerID())
	for _, w := range r.forfeitTimers {
		r.repo.GetTimer().Cancel(w.timerID)
	}
	r.forfeitTimers = make(map[string]forfeitWatch)
}

// State returns a render-safe copy.
func (r *Room) State() *model.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Clone()
}

// Phase returns the current turn-machine phase.
func (r *Room) Phase() Phase {
	return r.stage.Get()
}

// Remaining reports how long the current actor still has.
func (r *Room) Remaining() time.Duration {
	return r.stage.Remaining()
}

// Seq returns the last published envelope sequence.
func (r *Room) Seq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Room) Desc() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("(R:%s st:%v turn:%d cur:%d seq:%d)",
		r.ID, r.stage.Get(), r.game.TurnCount, r.game.Current, r.seq)
}

func (r *Room) gameConf() *conf.Game {
	return r.repo.GetRoomConfig().Game
}

// phaseTimeout maps a phase to its configured deadline. A duel gets
// the longer duel budget.
func (r *Room) phaseTimeout(p Phase) time.Duration {
	g := r.gameConf()
	var sec int32
	switch p {
	case PhIdle:
		sec = g.RollTimeoutSec
	case PhAwaitAction:
		sec = g.MoveTimeoutSec
	case PhResolvingEvent:
		sec = g.EventTimeoutSec
		if r.game.Event != nil && r.game.Event.Type == model.EventDuel {
			sec = g.DuelTimeoutSec
		}
	default:
		sec = 0
	}
	return time.Duration(sec) * time.Second
}

// enterPhase swaps the stage timer. Callers hold mu.
func (r *Room) enterPhase(p Phase) {
	r.repo.GetTimer().Cancel(r.stage.GetTimerID())
	timeout := r.phaseTimeout(p)
	timerID := int64(0)
	if timeout > 0 && !r.closed {
		timerID = r.repo.GetTimer().Once(timeout, r.onTimeout)
	}
	r.stage.Set(p, timeout, timerID)
	log.Debugf("room %s stage %v", r.ID, r.stage.Desc())
}

// onTimeout plays on behalf of whoever stalled: the roll happens, the
// best move is taken, a quiz lapses, a duel side scores zero. The game
// never waits forever on one seat.
func (r *Room) onTimeout() {
	r.mu.Lock()
	phase := r.stage.Get()
	if r.closed || r.game.Status == model.GameFinished {
		r.mu.Unlock()
		return
	}
	cur := r.game.CurrentPlayer()
	if cur == nil {
		r.mu.Unlock()
		return
	}
	curID := cur.ID
	ev := r.game.Event
	r.mu.Unlock()

	log.Debugf("room %s timeout in %v, acting for %s", r.ID, phase, curID)
	switch phase {
	case PhIdle:
		r.Roll(curID)
	case PhAwaitAction:
		r.autoMove(curID)
	case PhResolvingEvent:
		r.resolveEventTimeout(curID, ev)
	}
}

// autoMove plays the strongest candidate for a stalled player, or
// skips when nothing is legal.
func (r *Room) autoMove(playerID string) {
	r.mu.Lock()
	p := r.game.PlayerByID(playerID)
	if p == nil || r.stage.Get() != PhAwaitAction {
		r.mu.Unlock()
		return
	}
	d := model.Decide(r.game, p, r.game.Dice, model.DifficultyHard)
	r.mu.Unlock()

	if d.Kind == model.KindSkip {
		return
	}
	r.ApplyMove(playerID, d.PawnIdx)
}

// resolveEventTimeout closes an event nobody answered in time.
func (r *Room) resolveEventTimeout(playerID string, ev *model.Event) {
	if ev == nil {
		return
	}
	switch ev.Type {
	case model.EventQuiz:
		// No answer counts as wrong.
		r.AnswerQuiz(playerID, -1)
	case model.EventDuel:
		r.timeoutDuel(ev.Duel)
	}
}

// timeoutDuel fills in zero for every missing piece of a stalled duel
// so resolution always happens.
func (r *Room) timeoutDuel(d *model.DuelState) {
	if d == nil {
		return
	}
	r.mu.Lock()
	if r.game.Event == nil || r.game.Event.Duel != d {
		r.mu.Unlock()
		return
	}
	challenger := d.ChallengerID
	opponent := d.OpponentID
	r.mu.Unlock()

	if opponent == "" {
		// Never picked anyone: pick for them.
		if oid := r.pickDuelOpponent(challenger); oid != "" {
			if code := r.SelectDuelOpponent(challenger, oid); code != 0 {
				return
			}
			opponent = oid
		} else {
			return
		}
	}
	r.SubmitDuelScore(challenger, 0)
	r.SubmitDuelScore(opponent, 0)
}

// pickDuelOpponent chooses a non-forfeited enemy seat.
func (r *Room) pickDuelOpponent(challengerID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.game.Players {
		if p.ID != challengerID && !p.Forfeited {
			return p.ID
		}
	}
	return ""
}

// beginTurn opens the current player's turn. Callers hold mu. A
// forfeited seat at the cursor is skipped first.
func (r *Room) beginTurn() {
	r.epoch++
	if r.game.Status == model.GameFinished {
		r.enterPhase(PhFinished)
		return
	}
	cur := r.game.CurrentPlayer()
	if cur == nil {
		log.Errorf("room %s: no current player at index %d", r.ID, r.game.Current)
		return
	}
	if cur.Forfeited {
		r.game.Current = r.game.NextActiveIndex(r.game.Current)
		cur = r.game.CurrentPlayer()
	}
	r.game.Dice = 0
	r.game.Event = nil
	r.enterPhase(PhIdle)
	r.aiLogic.onTurnStart(cur)
}

// endTurn closes the turn: checkpoint, endTurn push, cursor advance.
// Callers hold mu.
func (r *Room) endTurn(p *model.Player, extra bool) {
	next := r.game.Current
	if !extra {
		next = r.game.NextActiveIndex(r.game.Current)
	}
	winner := ""
	if r.game.Status == model.GameFinished {
		winner = r.game.WinnerID
	}
	r.pushEndTurn(p, next, extra, winner)

	// An extra turn keeps the same player and the same turn count.
	if !extra {
		r.game.TurnCount++
	}
	r.game.Current = next
	r.saveCheckpoint()

	if r.game.Status == model.GameFinished {
		r.enterPhase(PhFinished)
		return
	}
	r.beginTurn()
}

// saveCheckpoint snapshots on the turn boundary, off the lock path.
func (r *Room) saveCheckpoint() {
	cp := model.Snapshot(r.game)
	roomID := r.ID
	store := r.repo.Checkpoints()
	r.repo.GetLoop().Post(func() {
		if err := store.Save(context.Background(), roomID, cp); err != nil {
			log.Errorf("room %s: checkpoint save failed: %v", roomID, err)
		}
	})
	r.pushCheckpoint(cp)
}

// finishGame marks the winner. Callers hold mu.
func (r *Room) finishGame(winnerID string) {
	r.game.Status = model.GameFinished
	r.game.WinnerID = winnerID
	log.Infof("room %s finished. winner=%s turns=%d", r.ID, winnerID, r.game.TurnCount)
}
