package model

import "fmt"

// Color identifies one of the four seats. Turn order and quadrant
// placement both follow the numeric value.
type Color int32

const (
	ColorYellow Color = iota
	ColorBlue
	ColorGreen
	ColorRed
)

// String returns the color name used on the wire.
func (c Color) String() string {
	switch c {
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	default:
		return fmt.Sprintf("Color(%d)", int32(c))
	}
}

const (
	ColorCount           = 4  // four seats
	PawnsPerPlayer       = 4  // pawns per seat
	RingLen        int32 = 52 // shared circuit length
	QuadLen        int32 = 13 // cells per quadrant
	FinalLen       int32 = 6  // final stretch length, last cell is the center
	GridSize       int32 = 15 // render grid
	BasePos        int32 = -1 // position value for home/finished pawns
)

// SafePositions are the eight circuit cells where a pawn cannot be
// captured: the four start cells plus the four mid-quadrant stars.
var SafePositions = map[int32]struct{}{
	0: {}, 8: {}, 13: {}, 21: {}, 26: {}, 34: {}, 39: {}, 47: {},
}

// cellEvents assigns a mini-game to circuit cells. Safe cells and start
// cells stay plain so capture immunity never stacks with an event.
var cellEvents = map[int32]EventType{
	2: EventQuiz, 5: EventFunding, 7: EventOpportunity, 10: EventChallenge, 12: EventDuel,
	15: EventQuiz, 18: EventFunding, 20: EventOpportunity, 23: EventChallenge, 25: EventDuel,
	28: EventQuiz, 31: EventFunding, 33: EventOpportunity, 36: EventChallenge, 38: EventDuel,
	41: EventQuiz, 44: EventFunding, 46: EventOpportunity, 49: EventChallenge, 51: EventQuiz,
	3: EventQuiz, 16: EventQuiz, 29: EventQuiz, 42: EventChallenge,
	6: EventOpportunity, 19: EventFunding, 32: EventOpportunity, 45: EventFunding,
}

// StartIndexOf returns the circuit cell a pawn lands on when it leaves
// home: one quadrant offset per color.
func StartIndexOf(c Color) int32 {
	return int32(c) * QuadLen
}

// IsSafe reports whether a circuit cell is capture-immune.
func IsSafe(pos int32) bool {
	_, ok := SafePositions[pos]
	return ok
}

// EventTypeAt returns the mini-game assigned to a circuit cell,
// EventNone when the cell carries nothing.
func EventTypeAt(pos int32) EventType {
	if e, ok := cellEvents[pos]; ok {
		return e
	}
	return EventNone
}

// Coord is a render-grid coordinate. The engine never reads it back;
// it exists so move paths can pace client animation.
type Coord struct {
	Row int32 `json:"row"`
	Col int32 `json:"col"`
}

// rotate maps a coordinate one quadrant clockwise on the grid.
func rotate(p Coord) Coord {
	return Coord{Row: p.Col, Col: GridSize - 1 - p.Row}
}

// quadWalk is the first 13 ring cells; the full circuit is this walk
// repeated under quarter turns, so ringCoords[i+13] = rotate(ringCoords[i]).
var quadWalk = [QuadLen]Coord{
	{6, 0}, {6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5},
	{5, 6}, {4, 6}, {3, 6}, {2, 6}, {1, 6}, {0, 6},
	{0, 7},
}

var (
	ringCoords  [RingLen]Coord
	finalCoords [ColorCount][FinalLen]Coord
	homeCoords  [ColorCount][PawnsPerPlayer]Coord
)

func init() {
	for i := int32(0); i < QuadLen; i++ {
		ringCoords[i] = quadWalk[i]
	}
	for i := QuadLen; i < RingLen; i++ {
		ringCoords[i] = rotate(ringCoords[i-QuadLen])
	}

	// Final stretch: five private column cells then the shared center.
	center := Coord{7, 7}
	for i := int32(0); i < FinalLen-1; i++ {
		finalCoords[0][i] = Coord{Row: 7, Col: 1 + i}
	}
	finalCoords[0][FinalLen-1] = center
	for c := 1; c < ColorCount; c++ {
		for i := int32(0); i < FinalLen-1; i++ {
			finalCoords[c][i] = rotate(finalCoords[c-1][i])
		}
		finalCoords[c][FinalLen-1] = center
	}

	// Home yard slots, one per pawn index.
	homeCoords[0] = [PawnsPerPlayer]Coord{{1, 1}, {1, 4}, {4, 1}, {4, 4}}
	for c := 1; c < ColorCount; c++ {
		for i := 0; i < PawnsPerPlayer; i++ {
			homeCoords[c][i] = rotate(homeCoords[c-1][i])
		}
	}
}

// CoordinateOf resolves a pawn placement to a grid coordinate. For
// StatusHome pos is the pawn index (yard slot); StatusFinished maps to
// the shared center.
func CoordinateOf(c Color, st PawnStatus, pos int32) (Coord, error) {
	if c < 0 || int32(c) >= ColorCount {
		return Coord{}, fmt.Errorf("invalid color %d", c)
	}
	switch st {
	case StatusHome:
		if pos < 0 || pos >= PawnsPerPlayer {
			return Coord{}, fmt.Errorf("yard slot %d out of range", pos)
		}
		return homeCoords[c][pos], nil
	case StatusFinished:
		return finalCoords[c][FinalLen-1], nil
	case StatusCircuit:
		if pos < 0 || pos >= RingLen {
			return Coord{}, fmt.Errorf("circuit position %d out of range", pos)
		}
		return ringCoords[pos], nil
	case StatusFinal:
		if pos < 0 || pos >= FinalLen {
			return Coord{}, fmt.Errorf("final position %d out of range", pos)
		}
		return finalCoords[c][pos], nil
	default:
		return Coord{}, fmt.Errorf("unknown pawn status %d", st)
	}
}
