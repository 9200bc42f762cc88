package model

import (
	"encoding/json"
	"fmt"
)

// Checkpoint is the compact resumable snapshot written after every
// completed turn. Keys are deliberately short; checkpoints are stored
// and shipped far more often than they are read by humans.
type Checkpoint struct {
	Current int32              `json:"c"`
	Dice    int32              `json:"d"`
	Turn    int32              `json:"t"`
	Status  GameStatus         `json:"s"`
	Edition string             `json:"e"`
	Players []CheckpointPlayer `json:"p"`
	Winner  string             `json:"w,omitempty"`
}

// CheckpointPlayer flattens one seat. Pawns serialize as [status,pos]
// pairs in pawn-index order.
type CheckpointPlayer struct {
	ID         string     `json:"i"`
	Name       string     `json:"n"`
	Color      Color      `json:"o"`
	AI         bool       `json:"a"`
	Difficulty Difficulty `json:"f,omitempty"`
	Tokens     int32      `json:"k"`
	Forfeited  bool       `json:"x,omitempty"`
	Pawns      [][2]int32 `json:"w"`
}

// Snapshot captures the resumable parts of the state. In-flight event
// payloads are not checkpointed; a restore lands on a clean turn
// boundary, which is the only place checkpoints are taken.
func Snapshot(g *GameState) *Checkpoint {
	cp := &Checkpoint{
		Current: g.Current,
		Dice:    g.Dice,
		Turn:    g.TurnCount,
		Status:  g.Status,
		Edition: g.Edition,
		Winner:  g.WinnerID,
	}
	for _, p := range g.Players {
		sp := CheckpointPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			AI:         p.AI,
			Difficulty: p.Difficulty,
			Tokens:     p.Tokens,
			Forfeited:  p.Forfeited,
		}
		for _, pw := range p.Pawns {
			sp.Pawns = append(sp.Pawns, [2]int32{int32(pw.Status), pw.Pos})
		}
		cp.Players = append(cp.Players, sp)
	}
	return cp
}

// Restore rebuilds a playable state. Restored seats start connected;
// presence is re-established by the session layer afterwards.
func (cp *Checkpoint) Restore() (*GameState, error) {
	if len(cp.Players) < 2 || len(cp.Players) > ColorCount {
		return nil, fmt.Errorf("checkpoint has %d players, want 2..%d", len(cp.Players), ColorCount)
	}
	if cp.Current < 0 || int(cp.Current) >= len(cp.Players) {
		return nil, fmt.Errorf("checkpoint current index %d out of range", cp.Current)
	}
	g := &GameState{
		Current:   cp.Current,
		Dice:      cp.Dice,
		TurnCount: cp.Turn,
		Status:    cp.Status,
		Edition:   cp.Edition,
		WinnerID:  cp.Winner,
	}
	for _, sp := range cp.Players {
		if len(sp.Pawns) != PawnsPerPlayer {
			return nil, fmt.Errorf("player %q has %d pawns, want %d", sp.ID, len(sp.Pawns), PawnsPerPlayer)
		}
		p := &Player{
			ID:         sp.ID,
			Name:       sp.Name,
			Color:      sp.Color,
			AI:         sp.AI,
			Difficulty: sp.Difficulty,
			Tokens:     sp.Tokens,
			Forfeited:  sp.Forfeited,
			Connected:  !sp.Forfeited,
		}
		for i, pair := range sp.Pawns {
			st := PawnStatus(pair[0])
			if st < StatusHome || st > StatusFinished {
				return nil, fmt.Errorf("player %q pawn %d: bad status %d", sp.ID, i, pair[0])
			}
			p.Pawns[i] = Pawn{Status: st, Pos: pair[1]}
		}
		g.Players = append(g.Players, p)
	}
	return g, nil
}

// EncodeCheckpoint serializes for storage or the wire.
func EncodeCheckpoint(cp *Checkpoint) ([]byte, error) {
	return json.Marshal(cp)
}

// DecodeCheckpoint is the inverse of EncodeCheckpoint.
func DecodeCheckpoint(b []byte) (*Checkpoint, error) {
	cp := &Checkpoint{}
	if err := json.Unmarshal(b, cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}
