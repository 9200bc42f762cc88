package model

import (
	"fmt"
	"sort"
	"time"

	ext "github.com/yola1107/kratos/v2/library/xgo"
)

// Difficulty tunes both move selection and answer simulation.
type Difficulty int32

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int32(d))
	}
}

// ParseDifficulty maps a config string; anything unknown lands on medium.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Decision is what the AI proposes; the turn machine applies it.
type Decision struct {
	Kind    MoveKind
	PawnIdx int32
}

// Scoring weights. Exit weights reward clearing the yard early and
// punishing an opponent camped on the start cell; move weights chase
// finishing, capturing and event value while pricing in capture danger
// behind the destination.
const (
	scoreExitBase       int32 = 50
	scoreExitCrowdedY   int32 = 20 // >=3 pawns still home
	scoreExitEmptyBoard int32 = 30 // nothing of ours on the board
	scoreExitCapture    int32 = 40 // opponent sitting on our start cell
	scoreFinish         int32 = 100
	scoreEnterFinal     int32 = 60
	scoreCapture        int32 = 80
	scoreProgress       int32 = 10
	dangerRange         int32 = 6
)

var eventScores = map[EventType]int32{
	EventFunding:     30,
	EventOpportunity: 25,
	EventQuiz:        15,
	EventDuel:        10,
	EventChallenge:   -10,
}

// ScoreMove rates one candidate independently of the others.
func ScoreMove(g *GameState, p *Player, v ValidMove) int32 {
	if v.Kind == KindExit {
		score := scoreExitBase
		if p.PawnsHome() >= 3 {
			score += scoreExitCrowdedY
		}
		if p.PawnsOnBoard() == 0 {
			score += scoreExitEmptyBoard
		}
		for _, ref := range g.pawnsAtCircuit(StartIndexOf(p.Color)) {
			if o := g.PlayerByID(ref.PlayerID); o != nil && o.Color != p.Color {
				score += scoreExitCapture
				break
			}
		}
		return score
	}

	mv := v.Move
	score := scoreProgress
	if mv.Finished {
		score += scoreFinish
	} else if mv.NewStatus == StatusFinal {
		score += scoreEnterFinal
	}
	if mv.Captured != nil {
		score += scoreCapture
	}
	score += eventScores[mv.Event]

	// Danger: opposing ring pawns within six steps behind the
	// destination. Closer means more dangerous, capped at range 6.
	if mv.NewStatus == StatusCircuit {
		for _, o := range g.Players {
			if o.Color == p.Color {
				continue
			}
			for _, pw := range o.Pawns {
				if pw.Status != StatusCircuit {
					continue
				}
				dist := (mv.NewPos - pw.Pos + RingLen) % RingLen
				if dist >= 1 && dist <= dangerRange {
					score -= 10 * (7 - dist)
				}
			}
		}
	}
	return score
}

// Decide enumerates legal moves, scores them and picks one according
// to the difficulty's randomness policy. No candidates means skip.
func Decide(g *GameState, p *Player, dice int32, d Difficulty) Decision {
	candidates := ValidMoves(g, p, dice)
	if len(candidates) == 0 {
		return Decision{Kind: KindSkip}
	}

	type scored struct {
		v     ValidMove
		score int32
	}
	ranked := make([]scored, 0, len(candidates))
	for _, v := range candidates {
		ranked = append(ranked, scored{v: v, score: ScoreMove(g, p, v)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	pick := ranked[0]
	switch d {
	case DifficultyHard:
		// always the top candidate
	case DifficultyMedium:
		if len(ranked) > 1 && !ext.IsHitFloat(0.7) {
			pick = ranked[1]
		}
	default: // easy: 50% top, 30% second, 20% uniform
		switch r := ext.RandFloat(0.0, 1.0); {
		case r < 0.5:
		case r < 0.8 && len(ranked) > 1:
			pick = ranked[1]
		default:
			pick = ranked[ext.RandInt(0, int32(len(ranked)))]
		}
	}
	return Decision{Kind: pick.v.Kind, PawnIdx: pick.v.PawnIdx}
}

// Answer-simulation hit rates, quiz/duel respectively.
var (
	quizHitRate = map[Difficulty]float64{
		DifficultyEasy:   0.40,
		DifficultyMedium: 0.60,
		DifficultyHard:   0.85,
	}
	duelHitRate = map[Difficulty]float64{
		DifficultyEasy:   0.35,
		DifficultyMedium: 0.55,
		DifficultyHard:   0.75,
	}
)

// AnswerQuiz simulates one quiz answer: the correct index with the
// difficulty's probability, otherwise a uniformly random wrong index.
func AnswerQuiz(d Difficulty, optionCount, correct int32) int32 {
	return simulateAnswer(quizHitRate[d], optionCount, correct)
}

func simulateAnswer(hitRate float64, optionCount, correct int32) int32 {
	if optionCount <= 1 {
		return correct
	}
	if ext.IsHitFloat(hitRate) {
		return correct
	}
	wrong := ext.RandInt(0, optionCount-1)
	if wrong >= correct {
		wrong++
	}
	return wrong
}

// DuelScore simulates one side of a duel: per-question hits at the
// difficulty's duel rate.
func DuelScore(d Difficulty, questions int) int32 {
	var score int32
	for i := 0; i < questions; i++ {
		if ext.IsHitFloat(duelHitRate[d]) {
			score++
		}
	}
	return score
}

// Thinking-time ranges. Presentation pacing only; the scheduler keeps
// other players responsive while the delay runs.
var thinkRanges = map[Difficulty][2]time.Duration{
	DifficultyEasy:   {1500 * time.Millisecond, 3000 * time.Millisecond},
	DifficultyMedium: {1000 * time.Millisecond, 2000 * time.Millisecond},
	DifficultyHard:   {500 * time.Millisecond, 1500 * time.Millisecond},
}

// ThinkDelay draws the artificial pause before an AI action.
func ThinkDelay(d Difficulty) time.Duration {
	r := thinkRanges[d]
	if r[1] <= r[0] {
		r = thinkRanges[DifficultyMedium]
	}
	return time.Duration(ext.RandInt(int64(r[0]), int64(r[1])+1))
}
