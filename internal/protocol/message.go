// Package protocol defines the wire format shared by the authoritative
// room and its remote replicas, and the replica that applies it.
//
// Every message is one Envelope. Envelopes are produced in turn order
// by the room, numbered by a per-room sequence, and applied by replicas
// that tolerate within-turn reordering but never cross-turn staleness.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// Kind discriminates envelope payloads.
type Kind string

const (
	KindDiceRoll     Kind = "diceRoll"
	KindMove         Kind = "move"
	KindEventTrigger Kind = "eventTrigger"
	KindEventResult  Kind = "eventResult"
	KindDuelScore    Kind = "duelScore"
	KindEndTurn      Kind = "endTurn"
	KindForfeit      Kind = "forfeit"
	KindCheckpoint   Kind = "checkpoint"
)

// Envelope frames one state transition. Turn and Seq order it; Phase
// lets a replica sanity-check where in the turn it should land.
type Envelope struct {
	Kind   Kind            `json:"kind"`
	RoomID string          `json:"roomId"`
	Turn   int32           `json:"turn"`
	Phase  string          `json:"phase"`
	Seq    int64           `json:"seq"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// DiceRoll announces the current player's roll.
type DiceRoll struct {
	PlayerID string `json:"playerId"`
	Value    int32  `json:"value"`
}

// MoveMsg carries a fully resolved move. Replicas re-apply the
// resolution rather than re-resolving, so both sides stay identical
// even across engine versions.
type MoveMsg struct {
	PlayerID string      `json:"playerId"`
	Color    model.Color `json:"color"`
	Move     *model.Move `json:"move"`
}

// EventTrigger announces a cell event landing, payload included.
type EventTrigger struct {
	PlayerID  string          `json:"playerId"`
	EventType model.EventType `json:"eventType"`
	Event     *model.Event    `json:"eventData"`
}

// EventResult closes a pending non-duel event.
type EventResult struct {
	PlayerID string    `json:"playerId"`
	OK       bool      `json:"ok"`
	Reward   int32     `json:"reward"`
	Tokens   int32     `json:"tokens"` // owner's balance after the reward
}

// DuelScore carries one side's submission; the final one also carries
// the resolution.
type DuelScore struct {
	PlayerID string            `json:"playerId"`
	Score    int32             `json:"score"`
	Result   *model.DuelResult `json:"result,omitempty"`
}

// EndTurn closes a turn and names the next player.
type EndTurn struct {
	PlayerID  string `json:"playerId"`
	NextIndex int32  `json:"nextIndex"`
	Extra     bool   `json:"grantExtra"` // same player goes again
	WinnerID  string `json:"winnerId,omitempty"`
}

// Forfeit removes a player who never reconnected in time.
type Forfeit struct {
	PlayerID string `json:"playerId"`
	WinnerID string `json:"winnerId,omitempty"` // set when only one seat remains
}

// NewEnvelope marshals a payload into a framed envelope.
func NewEnvelope(kind Kind, roomID string, turn int32, phase string, seq int64, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return &Envelope{Kind: kind, RoomID: roomID, Turn: turn, Phase: phase, Seq: seq, Data: data}, nil
}

// Encode serializes an envelope for the transport.
func Encode(e *Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses one framed envelope.
func Decode(b []byte) (*Envelope, error) {
	e := &Envelope{}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Kind == "" {
		return nil, fmt.Errorf("envelope missing kind")
	}
	return e, nil
}

// Payload unmarshals the data section into the caller's struct.
func (e *Envelope) Payload(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}
