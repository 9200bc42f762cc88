package model

import (
	"fmt"
	"sync"
)

// DuelPhase drives the client-side presentation of a duel. The engine
// only cares about score submission; the phase exists so every replica
// renders the same stage.
type DuelPhase string

const (
	DuelSelectOpponent DuelPhase = "selectOpponent"
	DuelIntro          DuelPhase = "intro"
	DuelChallengerTurn DuelPhase = "challengerTurn"
	DuelOpponentTurn   DuelPhase = "opponentTurn"
	DuelWaiting        DuelPhase = "waiting"
	DuelResultPhase    DuelPhase = "result"
)

// DuelQuestionCount is fixed: both sides answer the same three questions.
const DuelQuestionCount = 3

// Duel token payouts.
const (
	duelWinReward int32 = 3
	duelTieReward int32 = 1
)

// DuelQuestion ships the answer index with the question; see the quiz
// trust note in event.go.
type DuelQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int32    `json:"correctAnswerIndex"`
}

// DuelResult is produced exactly once per duel.
type DuelResult struct {
	WinnerID         string `json:"winnerId,omitempty"` // empty on a tie
	ChallengerScore  int32  `json:"challengerScore"`
	OpponentScore    int32  `json:"opponentScore"`
	ChallengerReward int32  `json:"challengerReward"`
	OpponentReward   int32  `json:"opponentReward"`
}

// DuelState is the one event payload that outlives a single request:
// it waits for two independent score submissions that may arrive in
// either order, possibly concurrently from the network layer.
type DuelState struct {
	ChallengerID string         `json:"challengerId"`
	OpponentID   string         `json:"opponentId,omitempty"` // empty until selected
	Phase        DuelPhase      `json:"phase"`
	Questions    []DuelQuestion `json:"questions"`

	ChallengerScore *int32 `json:"challengerScore,omitempty"`
	OpponentScore   *int32 `json:"opponentScore,omitempty"`

	mu       sync.Mutex
	resolved bool
}

// NewDuel opens a duel awaiting opponent selection. Questions are drawn
// up front so both sides answer the identical set.
func NewDuel(challengerID string) *DuelState {
	return &DuelState{
		ChallengerID: challengerID,
		Phase:        DuelSelectOpponent,
		Questions:    drawDuelQuestions(DuelQuestionCount),
	}
}

// SelectOpponent binds the opponent and moves the duel to its intro.
func (d *DuelState) SelectOpponent(opponentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Phase != DuelSelectOpponent {
		return fmt.Errorf("duel not awaiting opponent selection (phase %s)", d.Phase)
	}
	if opponentID == d.ChallengerID {
		return fmt.Errorf("challenger cannot duel themselves")
	}
	d.OpponentID = opponentID
	d.Phase = DuelIntro
	return nil
}

// BeginAnswering leaves the intro and hands the first turn to the
// challenger. The room calls this right after announcing the match-up.
func (d *DuelState) BeginAnswering() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Phase != DuelIntro {
		return fmt.Errorf("duel not in intro (phase %s)", d.Phase)
	}
	d.Phase = DuelChallengerTurn
	return nil
}

// SubmitScore records one side's score. The first write per side wins;
// a duplicate submission is ignored rather than rejected, so retried
// network deliveries stay harmless.
func (d *DuelState) SubmitScore(playerID string, score int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OpponentID == "" {
		return fmt.Errorf("duel has no opponent yet")
	}
	switch playerID {
	case d.ChallengerID:
		if d.ChallengerScore == nil {
			s := score
			d.ChallengerScore = &s
		}
	case d.OpponentID:
		if d.OpponentScore == nil {
			s := score
			d.OpponentScore = &s
		}
	default:
		return fmt.Errorf("player %q is not part of this duel", playerID)
	}
	if d.ChallengerScore != nil && d.OpponentScore == nil {
		d.Phase = DuelOpponentTurn
	} else if d.ChallengerScore == nil && d.OpponentScore != nil {
		d.Phase = DuelWaiting
	}
	return nil
}

// TryResolve returns the result once both scores are in, and nil before
// that. It resolves at most once; the second and later calls after
// resolution return nil so rewards are never paid twice. The outcome is
// commutative over submission order.
func (d *DuelState) TryResolve() *DuelResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resolved || d.ChallengerScore == nil || d.OpponentScore == nil {
		return nil
	}
	d.resolved = true
	d.Phase = DuelResultPhase

	cs, os := *d.ChallengerScore, *d.OpponentScore
	res := &DuelResult{ChallengerScore: cs, OpponentScore: os}
	switch {
	case cs > os:
		res.WinnerID = d.ChallengerID
		res.ChallengerReward = duelWinReward
	case os > cs:
		res.WinnerID = d.OpponentID
		res.OpponentReward = duelWinReward
	default:
		res.ChallengerReward = duelTieReward
		res.OpponentReward = duelTieReward
	}
	return res
}

// Resolved reports whether TryResolve already produced the result.
func (d *DuelState) Resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolved
}
