package model

import (
	"fmt"

	ext "github.com/yola1107/kratos/v2/library/xgo"
)

// PawnStatus tracks where a pawn is along its color's path.
type PawnStatus int32

const (
	StatusHome     PawnStatus = iota // in the yard, position BasePos
	StatusCircuit                    // on the shared ring, position 0..51
	StatusFinal                      // in the private stretch, position 0..5
	StatusFinished                   // terminal
)

func (s PawnStatus) String() string {
	switch s {
	case StatusHome:
		return "home"
	case StatusCircuit:
		return "circuit"
	case StatusFinal:
		return "final"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("PawnStatus(%d)", int32(s))
	}
}

// Pawn is one piece. Pos is BasePos unless the status says otherwise.
type Pawn struct {
	Status PawnStatus `json:"status"`
	Pos    int32      `json:"pos"`
}

// Seat is one roster entry, consumed once at game init.
type Seat struct {
	ID         string     `json:"id"`
	Name       string     `json:"displayName"`
	Color      Color      `json:"color"`
	AI         bool       `json:"isAI"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// Player holds one seat's in-game state. Players are never removed
// mid-game; disconnection is a flag, not a removal.
type Player struct {
	ID         string                `json:"id"`
	Name       string                `json:"displayName"`
	Color      Color                 `json:"color"`
	AI         bool                  `json:"isAI"`
	Difficulty Difficulty            `json:"difficulty,omitempty"`
	Tokens     int32                 `json:"tokens"` // may go negative
	Connected  bool                  `json:"isConnected"`
	Forfeited  bool                  `json:"hasForfeited,omitempty"`
	Pawns      [PawnsPerPlayer]Pawn  `json:"pawns"`
}

// Desc is a compact one-line dump for logs.
func (p *Player) Desc() string {
	return fmt.Sprintf("(%s %s ai:%v tk:%d pawns:%v)", p.ID, p.Color, p.AI, p.Tokens, p.Pawns)
}

// PawnsHome counts pawns still in the yard.
func (p *Player) PawnsHome() int32 {
	var n int32
	for _, pw := range p.Pawns {
		if pw.Status == StatusHome {
			n++
		}
	}
	return n
}

// PawnsOnBoard counts pawns on the ring or in the final stretch.
func (p *Player) PawnsOnBoard() int32 {
	var n int32
	for _, pw := range p.Pawns {
		if pw.Status == StatusCircuit || pw.Status == StatusFinal {
			n++
		}
	}
	return n
}

// HasFinished reports whether all four pawns reached the center.
func (p *Player) HasFinished() bool {
	for _, pw := range p.Pawns {
		if pw.Status != StatusFinished {
			return false
		}
	}
	return true
}

// GameStatus is the coarse lifecycle of a game.
type GameStatus int32

const (
	GamePlaying GameStatus = iota
	GameFinished
)

// GameState is the single authoritative snapshot per room. Only the
// room's turn machine and the protocol replica mutate it; AI and duel
// code read copies and return proposals.
type GameState struct {
	Players   []*Player  `json:"players"` // turn order = slice order
	Current   int32      `json:"currentPlayerIndex"`
	Dice      int32      `json:"diceValue"` // 0 = not rolled this turn
	TurnCount int32      `json:"turnCount"`
	Status    GameStatus `json:"status"`
	WinnerID  string     `json:"winnerId,omitempty"`
	Edition   string     `json:"edition"`
	Event     *Event     `json:"event,omitempty"` // currently triggered event
}

// NewGameState builds the initial state from a roster. The roster is
// validated once here; everything downstream trusts it.
func NewGameState(roster []Seat, edition string) (*GameState, error) {
	if len(roster) < 2 || len(roster) > ColorCount {
		return nil, fmt.Errorf("roster size %d, want 2..%d", len(roster), ColorCount)
	}
	seen := map[Color]struct{}{}
	g := &GameState{Edition: edition, Status: GamePlaying}
	for _, s := range roster {
		if s.Color < 0 || int32(s.Color) >= ColorCount {
			return nil, fmt.Errorf("seat %q: invalid color %d", s.ID, s.Color)
		}
		if _, dup := seen[s.Color]; dup {
			return nil, fmt.Errorf("seat %q: duplicate color %s", s.ID, s.Color)
		}
		seen[s.Color] = struct{}{}
		p := &Player{
			ID:         s.ID,
			Name:       s.Name,
			Color:      s.Color,
			AI:         s.AI,
			Difficulty: s.Difficulty,
			Connected:  true,
		}
		for i := range p.Pawns {
			p.Pawns[i] = Pawn{Status: StatusHome, Pos: BasePos}
		}
		g.Players = append(g.Players, p)
	}
	return g, nil
}

// CurrentPlayer returns the seat whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	if g.Current < 0 || int(g.Current) >= len(g.Players) {
		return nil
	}
	return g.Players[g.Current]
}

// PlayerByID looks a seat up by roster id.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByColor looks a seat up by color.
func (g *GameState) PlayerByColor(c Color) *Player {
	for _, p := range g.Players {
		if p.Color == c {
			return p
		}
	}
	return nil
}

// pawnAtCircuit returns every pawn standing on a ring cell, as
// (player, pawn index) pairs.
func (g *GameState) pawnsAtCircuit(pos int32) (out []CapturedRef) {
	for _, p := range g.Players {
		for i, pw := range p.Pawns {
			if pw.Status == StatusCircuit && pw.Pos == pos {
				out = append(out, CapturedRef{PlayerID: p.ID, PawnIdx: int32(i)})
			}
		}
	}
	return out
}

// Clone deep-copies the state. Replicas and AI lookahead work on
// clones so the authoritative copy is never touched concurrently.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		c.Players[i] = &cp
	}
	if g.Event != nil {
		ev := *g.Event
		c.Event = &ev
	}
	return &c
}

// ApplyResolved mutates the state with a resolver output. Both the
// authoritative room and every network replica run this same function
// on the same Move value, which keeps them bit-identical even if the
// resolver evolves.
func (g *GameState) ApplyResolved(c Color, mv *Move, captureReward int32) error {
	p := g.PlayerByColor(c)
	if p == nil {
		return fmt.Errorf("no player with color %s", c)
	}
	if mv.PawnIdx < 0 || mv.PawnIdx >= PawnsPerPlayer {
		return fmt.Errorf("pawn index %d out of range", mv.PawnIdx)
	}
	p.Pawns[mv.PawnIdx] = Pawn{Status: mv.NewStatus, Pos: mv.NewPos}
	if mv.Finished {
		p.Pawns[mv.PawnIdx] = Pawn{Status: StatusFinished, Pos: BasePos}
	}
	if mv.Captured != nil {
		victim := g.PlayerByID(mv.Captured.PlayerID)
		if victim == nil {
			return fmt.Errorf("captured pawn owner %q unknown", mv.Captured.PlayerID)
		}
		victim.Pawns[mv.Captured.PawnIdx] = Pawn{Status: StatusHome, Pos: BasePos}
		p.Tokens += captureReward
	}
	return nil
}

// ApplyForfeit retires a seat: its pawns leave the board and it is
// skipped for the rest of the game. Returns the winner's id when only
// one live seat remains, empty otherwise.
func (g *GameState) ApplyForfeit(playerID string) (string, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return "", fmt.Errorf("no player %q", playerID)
	}
	p.Forfeited = true
	p.Connected = false
	for i := range p.Pawns {
		p.Pawns[i] = Pawn{Status: StatusHome, Pos: BasePos}
	}

	var live []*Player
	for _, o := range g.Players {
		if !o.Forfeited {
			live = append(live, o)
		}
	}
	if len(live) == 1 {
		g.Status = GameFinished
		g.WinnerID = live[0].ID
		return live[0].ID, nil
	}
	return "", nil
}

// NextActiveIndex walks turn order from the given seat, skipping
// forfeited players. Falls back to the input when every seat is gone.
func (g *GameState) NextActiveIndex(from int32) int32 {
	n := int32(len(g.Players))
	for step := int32(1); step <= n; step++ {
		idx := (from + step) % n
		if !g.Players[idx].Forfeited {
			return idx
		}
	}
	return from
}

// Roller produces one dice value. Both local play and the AI draw from
// the same shape so tests can substitute a deterministic source.
type Roller func() int32

// DefaultRoller is uniform over [1,6].
func DefaultRoller() int32 {
	return ext.RandInt[int32](1, 7)
}
