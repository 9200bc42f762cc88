package model

// Resolver rejection codes. A rejected move has no state effect; the
// caller re-derives legal actions via ValidMoves instead of retrying.
const (
	MoveOK             int32 = iota
	ErrInvalidDice           // dice outside [1,6]
	ErrUnknownPlayer         // no player with that color
	ErrUnknownPawn           // pawn index out of range
	ErrNeedSixToExit         // home pawn may only leave on a 6
	ErrAlreadyFinished       // finished pawns never move again
	ErrExceedFinal           // final-stretch overshoot is illegal, not clamped
)

// MoveKind distinguishes a yard exit from a regular advance.
type MoveKind string

const (
	KindExit MoveKind = "exit"
	KindMove MoveKind = "move"
	KindSkip MoveKind = "skip"
)

// CapturedRef points at a pawn without holding the pawn.
type CapturedRef struct {
	PlayerID string `json:"ownerId"`
	PawnIdx  int32  `json:"pawnIndex"`
}

// Move is a resolver output. It is a value, never persisted; applying
// it via GameState.ApplyResolved is what mutates the game.
type Move struct {
	PawnIdx   int32        `json:"pawnIndex"`
	Kind      MoveKind     `json:"kind"`
	NewStatus PawnStatus   `json:"newStatus"`
	NewPos    int32        `json:"newPosition"`
	Path      []Coord      `json:"path"` // animation pacing only, one coord per step
	Captured  *CapturedRef `json:"capturedPawn,omitempty"`
	Event     EventType    `json:"triggeredEventType,omitempty"`
	Finished  bool         `json:"isFinished"`
}

// ResolveMove computes the outcome of moving one pawn by one dice
// value. Pure over the state; the state is not touched.
//
// Rule order: exit gate, ring advance with final-stretch crossover,
// final advance with strict overshoot rejection, capture, cell event.
// A move either captures or triggers an event, never both.
func ResolveMove(g *GameState, c Color, pawnIdx, dice int32) (*Move, int32) {
	if dice < 1 || dice > 6 {
		return nil, ErrInvalidDice
	}
	p := g.PlayerByColor(c)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if pawnIdx < 0 || pawnIdx >= PawnsPerPlayer {
		return nil, ErrUnknownPawn
	}
	pw := p.Pawns[pawnIdx]
	start := StartIndexOf(c)

	switch pw.Status {
	case StatusFinished:
		return nil, ErrAlreadyFinished

	case StatusHome:
		if dice != 6 {
			return nil, ErrNeedSixToExit
		}
		mv := &Move{
			PawnIdx:   pawnIdx,
			Kind:      KindExit,
			NewStatus: StatusCircuit,
			NewPos:    start,
			Path:      []Coord{ringCoords[start]},
		}
		finishCircuitLanding(g, c, mv)
		return mv, MoveOK

	case StatusFinal:
		target := pw.Pos + dice
		if target > FinalLen-1 {
			return nil, ErrExceedFinal
		}
		mv := &Move{
			PawnIdx:   pawnIdx,
			Kind:      KindMove,
			NewStatus: StatusFinal,
			NewPos:    target,
			Finished:  target == FinalLen-1,
		}
		for i := pw.Pos + 1; i <= target; i++ {
			mv.Path = append(mv.Path, finalCoords[c][i])
		}
		return mv, MoveOK

	case StatusCircuit:
		// Progress is tracked relative to the color's own start; the
		// pawn turns into its final stretch when relative progress
		// passes the full ring, overshoot becoming the final index.
		rel := (pw.Pos - start + RingLen) % RingLen
		total := rel + dice
		if total < RingLen {
			dest := (pw.Pos + dice) % RingLen
			mv := &Move{
				PawnIdx:   pawnIdx,
				Kind:      KindMove,
				NewStatus: StatusCircuit,
				NewPos:    dest,
			}
			for i := int32(1); i <= dice; i++ {
				mv.Path = append(mv.Path, ringCoords[(pw.Pos+i)%RingLen])
			}
			finishCircuitLanding(g, c, mv)
			return mv, MoveOK
		}
		finalIdx := total - RingLen
		if finalIdx > FinalLen-1 {
			return nil, ErrExceedFinal
		}
		mv := &Move{
			PawnIdx:   pawnIdx,
			Kind:      KindMove,
			NewStatus: StatusFinal,
			NewPos:    finalIdx,
			Finished:  finalIdx == FinalLen-1,
		}
		for i := int32(1); i <= dice; i++ {
			if rel+i < RingLen {
				mv.Path = append(mv.Path, ringCoords[(pw.Pos+i)%RingLen])
			} else {
				mv.Path = append(mv.Path, finalCoords[c][rel+i-RingLen])
			}
		}
		return mv, MoveOK

	default:
		return nil, ErrUnknownPawn
	}
}

// finishCircuitLanding resolves what happens on the destination ring
// cell: a capture on a non-safe cell holding exactly one opposing
// pawn, otherwise the cell's event. Captured cells trigger no event.
func finishCircuitLanding(g *GameState, c Color, mv *Move) {
	occupants := g.pawnsAtCircuit(mv.NewPos)
	var enemy []CapturedRef
	for _, ref := range occupants {
		if p := g.PlayerByID(ref.PlayerID); p != nil && p.Color != c {
			enemy = append(enemy, ref)
		}
	}
	if len(enemy) == 1 && !IsSafe(mv.NewPos) {
		ref := enemy[0]
		mv.Captured = &ref
		return
	}
	mv.Event = EventTypeAt(mv.NewPos)
}

// ValidMove pairs a pawn with its resolved outcome.
type ValidMove struct {
	PawnIdx int32    `json:"pawnIndex"`
	Kind    MoveKind `json:"kind"`
	Move    *Move    `json:"move"`
}

// ValidMoves enumerates every pawn the resolver does not reject for
// this dice value. Both the human input gate and the AI consume it.
func ValidMoves(g *GameState, p *Player, dice int32) []ValidMove {
	var out []ValidMove
	for i := int32(0); i < PawnsPerPlayer; i++ {
		mv, code := ResolveMove(g, p.Color, i, dice)
		if code != MoveOK {
			continue
		}
		out = append(out, ValidMove{PawnIdx: i, Kind: mv.Kind, Move: mv})
	}
	return out
}
