package room

import (
	"time"

	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
	"github.com/enaribe/startup-ludo-sub001/pkg/codes"
)

// guardTurn checks the request is from the current player in the
// expected phase. Callers hold mu.
func (r *Room) guardTurn(playerID string, want Phase) (*model.Player, int32) {
	if r.closed || r.game.Status == model.GameFinished {
		return nil, codes.GAME_FINISHED
	}
	p := r.game.PlayerByID(playerID)
	if p == nil {
		return nil, codes.UNKNOWN_PLAYER
	}
	cur := r.game.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return nil, codes.NOT_YOUR_TURN
	}
	if r.stage.Get() != want {
		return nil, codes.INVALID_PHASE
	}
	return p, codes.SUCCESS
}

// Roll handles the current player's dice request. A roll with no legal
// follow-up ends the turn immediately; a 6 always grants another turn.
func (r *Room) Roll(playerID string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, code := r.guardTurn(playerID, PhIdle)
	if code != codes.SUCCESS {
		return code
	}

	dice := r.roller()
	r.game.Dice = dice
	r.pushDiceRoll(p, dice)

	moves := model.ValidMoves(r.game, p, dice)
	log.Debugf("room %s: %s rolled %d, %d moves", r.ID, p.ID, dice, len(moves))

	if len(moves) == 0 {
		r.endTurn(p, dice == 6)
		return codes.SUCCESS
	}
	r.enterPhase(PhAwaitAction)
	r.aiLogic.onAwaitAction(p, dice)
	return codes.SUCCESS
}

// ApplyMove moves one pawn by the rolled dice. The resolver decides
// legality; the turn machine decides what the outcome leads to.
func (r *Room) ApplyMove(playerID string, pawnIdx int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, code := r.guardTurn(playerID, PhAwaitAction)
	if code != codes.SUCCESS {
		return code
	}

	mv, mcode := model.ResolveMove(r.game, p.Color, pawnIdx, r.game.Dice)
	if mcode != model.MoveOK {
		log.Warnf("room %s: move rejected. p=%s pawn=%d dice=%d code=%d",
			r.ID, p.ID, pawnIdx, r.game.Dice, mcode)
		if mcode == model.ErrUnknownPawn {
			return codes.UNKNOWN_PAWN
		}
		return codes.ILLEGAL_MOVE
	}

	captureReward := r.gameConf().CaptureReward
	if err := r.game.ApplyResolved(p.Color, mv, captureReward); err != nil {
		log.Errorf("room %s: apply failed: %v", r.ID, err)
		return codes.ILLEGAL_MOVE
	}
	r.pushMove(p, mv)

	if p.HasFinished() {
		r.finishGame(p.ID)
		r.endTurn(p, false)
		return codes.SUCCESS
	}

	if mv.Event != model.EventNone {
		r.triggerEvent(p, mv.Event)
		return codes.SUCCESS
	}

	// Only a 6 or a finished pawn keeps the turn; a capture does not.
	extra := r.game.Dice == 6 || mv.Finished
	r.endTurn(p, extra)
	return codes.SUCCESS
}

// triggerEvent opens a cell event. Funding and token effects resolve
// instantly; quiz and duel park the turn in PhResolvingEvent. Callers
// hold mu.
func (r *Room) triggerEvent(p *model.Player, t model.EventType) {
	extra := r.game.Dice == 6

	switch t {
	case model.EventFunding:
		ev := model.DrawEvent(t)
		r.game.Event = ev
		r.pushEventTrigger(p, ev)
		p.Tokens += ev.Funding.Amount
		r.pushEventResult(p, true, ev.Funding.Amount)
		r.game.Event = nil
		r.endTurn(p, extra)

	case model.EventOpportunity:
		ev := model.DrawEvent(t)
		r.game.Event = ev
		r.pushEventTrigger(p, ev)
		p.Tokens += ev.Opportunity.Value
		r.pushEventResult(p, true, ev.Opportunity.Value)
		r.game.Event = nil
		r.endTurn(p, extra)

	case model.EventChallenge:
		ev := model.DrawEvent(t)
		r.game.Event = ev
		r.pushEventTrigger(p, ev)
		p.Tokens -= ev.Challenge.Value
		r.pushEventResult(p, false, -ev.Challenge.Value)
		r.game.Event = nil
		r.endTurn(p, extra)

	case model.EventQuiz:
		ev := model.DrawEvent(t)
		r.game.Event = ev
		r.pushEventTrigger(p, ev)
		r.enterPhase(PhResolvingEvent)
		r.aiLogic.onQuiz(p, ev.Quiz)

	case model.EventDuel:
		ev := &model.Event{Type: t, Duel: model.NewDuel(p.ID)}
		r.game.Event = ev
		r.pushEventTrigger(p, ev)
		r.enterPhase(PhResolvingEvent)
		r.aiLogic.onDuelOpen(p, ev.Duel)

	default:
		r.endTurn(p, extra)
	}
}

// AnswerQuiz resolves a pending quiz with the chosen option index. Any
// out-of-range index, including the timeout's -1, counts as wrong.
func (r *Room) AnswerQuiz(playerID string, answerIdx int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, code := r.guardTurn(playerID, PhResolvingEvent)
	if code != codes.SUCCESS {
		return code
	}
	ev := r.game.Event
	if ev == nil || ev.Type != model.EventQuiz || ev.Quiz == nil {
		return codes.EVENT_MISMATCH
	}

	ok := answerIdx == ev.Quiz.CorrectAnswerIndex
	reward := int32(0)
	if ok {
		reward = ev.Quiz.Reward
		p.Tokens += reward
	}
	r.pushEventResult(p, ok, reward)
	log.Debugf("room %s: quiz answered. p=%s answer=%d ok=%v", r.ID, p.ID, answerIdx, ok)

	extra := r.game.Dice == 6
	r.game.Event = nil
	r.endTurn(p, extra)
	return codes.SUCCESS
}

// SelectDuelOpponent binds the challenged seat.
func (r *Room) SelectDuelOpponent(playerID, opponentID string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, code := r.guardTurn(playerID, PhResolvingEvent)
	if code != codes.SUCCESS {
		return code
	}
	ev := r.game.Event
	if ev == nil || ev.Type != model.EventDuel || ev.Duel == nil {
		return codes.EVENT_MISMATCH
	}
	opp := r.game.PlayerByID(opponentID)
	if opp == nil || opp.Forfeited {
		return codes.UNKNOWN_PLAYER
	}
	if err := ev.Duel.SelectOpponent(opponentID); err != nil {
		log.Warnf("room %s: duel select rejected: %v", r.ID, err)
		return codes.DUEL_STATE
	}
	// One frame for the intro screen, one for the challenger's turn.
	r.pushEventTrigger(p, ev)
	if err := ev.Duel.BeginAnswering(); err != nil {
		log.Warnf("room %s: duel intro skipped: %v", r.ID, err)
	}
	r.pushEventTrigger(p, ev)
	r.aiLogic.onDuelReady(ev.Duel)
	return codes.SUCCESS
}

// SubmitDuelScore records one side's quiz score; the completing
// submission also resolves and pays the duel.
func (r *Room) SubmitDuelScore(playerID string, score int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.game.Status == model.GameFinished {
		return codes.GAME_FINISHED
	}
	if r.stage.Get() != PhResolvingEvent {
		return codes.INVALID_PHASE
	}
	ev := r.game.Event
	if ev == nil || ev.Type != model.EventDuel || ev.Duel == nil {
		return codes.EVENT_MISMATCH
	}
	d := ev.Duel
	if score < 0 || score > model.DuelQuestionCount {
		return codes.BAD_REQUEST
	}
	if err := d.SubmitScore(playerID, score); err != nil {
		log.Warnf("room %s: duel score rejected: %v", r.ID, err)
		return codes.DUEL_STATE
	}
	r.pushDuelScore(playerID, score, nil)

	res := d.TryResolve()
	if res == nil {
		return codes.SUCCESS
	}

	if ch := r.game.PlayerByID(d.ChallengerID); ch != nil {
		ch.Tokens += res.ChallengerReward
	}
	if op := r.game.PlayerByID(d.OpponentID); op != nil {
		op.Tokens += res.OpponentReward
	}
	r.pushDuelScore(playerID, score, res)
	log.Infof("room %s: duel resolved. winner=%q %d:%d",
		r.ID, res.WinnerID, res.ChallengerScore, res.OpponentScore)

	cur := r.game.CurrentPlayer()
	extra := r.game.Dice == 6
	r.game.Event = nil
	r.endTurn(cur, extra)
	return codes.SUCCESS
}

// Disconnect flags a seat offline and arms the forfeit countdown. AI
// takes over nothing; the seat's turns run on timeouts until it
// reconnects or forfeits.
func (r *Room) Disconnect(playerID string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.game.PlayerByID(playerID)
	if p == nil {
		return codes.UNKNOWN_PLAYER
	}
	if p.Forfeited || !p.Connected {
		return codes.SUCCESS
	}
	p.Connected = false

	if r.game.Status == model.GameFinished || r.closed {
		return codes.SUCCESS
	}
	timeout := r.phaseForfeitTimeout()
	id := r.repo.GetTimer().Once(timeout, func() {
		r.claimForfeit(playerID, true)
	})
	r.forfeitTimers[playerID] = forfeitWatch{timerID: id, deadline: time.Now().Add(timeout)}
	log.Infof("room %s: %s disconnected, forfeit in %v", r.ID, playerID, timeout)
	return codes.SUCCESS
}

// Reconnect cancels the countdown and marks the seat live again.
func (r *Room) Reconnect(playerID string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.game.PlayerByID(playerID)
	if p == nil {
		return codes.UNKNOWN_PLAYER
	}
	if p.Forfeited {
		return codes.GAME_FINISHED
	}
	if w, ok := r.forfeitTimers[playerID]; ok {
		r.repo.GetTimer().Cancel(w.timerID)
		delete(r.forfeitTimers, playerID)
	}
	p.Connected = true
	log.Infof("room %s: %s reconnected", r.ID, playerID)
	return codes.SUCCESS
}

// ClaimForfeit retires a seat whose countdown expired. The seat's
// pawns leave the board; a lone survivor wins on the spot. A claim
// while the countdown is still running is rejected; only the timer
// itself may complete early.
func (r *Room) ClaimForfeit(playerID string) int32 {
	return r.claimForfeit(playerID, false)
}

func (r *Room) claimForfeit(playerID string, expired bool) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.game.Status == model.GameFinished {
		return codes.GAME_FINISHED
	}
	p := r.game.PlayerByID(playerID)
	if p == nil {
		return codes.UNKNOWN_PLAYER
	}
	if p.Connected {
		return codes.NOT_DISCONNECTED
	}
	if w, ok := r.forfeitTimers[playerID]; ok && !expired && time.Now().Before(w.deadline) {
		return codes.NOT_DISCONNECTED
	}
	delete(r.forfeitTimers, playerID)

	wasCurrent := r.game.CurrentPlayer() != nil && r.game.CurrentPlayer().ID == playerID
	winner, err := r.game.ApplyForfeit(playerID)
	if err != nil {
		return codes.UNKNOWN_PLAYER
	}
	r.pushForfeit(playerID, winner)
	log.Infof("room %s: %s forfeited. winner=%q", r.ID, playerID, winner)

	if winner != "" {
		r.enterPhase(PhFinished)
		r.saveCheckpoint()
		return codes.SUCCESS
	}
	if wasCurrent {
		// Abandon whatever the seat was mid-way through.
		r.game.Event = nil
		r.endTurn(p, false)
	}
	return codes.SUCCESS
}

func (r *Room) phaseForfeitTimeout() (d time.Duration) {
	return time.Duration(r.gameConf().ForfeitTimeoutSec) * time.Second
}
