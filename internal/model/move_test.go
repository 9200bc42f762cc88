package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, seats ...Seat) *GameState {
	t.Helper()
	if len(seats) == 0 {
		seats = []Seat{
			{ID: "p1", Name: "Ada", Color: ColorYellow},
			{ID: "p2", Name: "Ben", Color: ColorBlue},
		}
	}
	g, err := NewGameState(seats, "startup")
	require.NoError(t, err)
	return g
}

func placePawn(g *GameState, c Color, idx int32, st PawnStatus, pos int32) {
	p := g.PlayerByColor(c)
	p.Pawns[idx] = Pawn{Status: st, Pos: pos}
}

func TestResolveMove_ExitGate(t *testing.T) {
	g := newTestGame(t)

	for dice := int32(1); dice <= 5; dice++ {
		_, code := ResolveMove(g, ColorYellow, 0, dice)
		assert.Equal(t, ErrNeedSixToExit, code, "dice %d must not exit", dice)
	}

	mv, code := ResolveMove(g, ColorYellow, 0, 6)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, KindExit, mv.Kind)
	assert.Equal(t, StatusCircuit, mv.NewStatus)
	assert.Equal(t, StartIndexOf(ColorYellow), mv.NewPos)
	assert.Len(t, mv.Path, 1)

	mv, code = ResolveMove(g, ColorBlue, 2, 6)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, int32(13), mv.NewPos)
}

func TestResolveMove_Rejections(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 1, StatusFinished, BasePos)

	tests := []struct {
		name    string
		color   Color
		pawnIdx int32
		dice    int32
		want    int32
	}{
		{"dice zero", ColorYellow, 0, 0, ErrInvalidDice},
		{"dice seven", ColorYellow, 0, 7, ErrInvalidDice},
		{"unknown color", ColorGreen, 0, 3, ErrUnknownPlayer},
		{"pawn index negative", ColorYellow, -1, 3, ErrUnknownPawn},
		{"pawn index high", ColorYellow, 4, 3, ErrUnknownPawn},
		{"finished pawn", ColorYellow, 1, 3, ErrAlreadyFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mv, code := ResolveMove(g, tt.color, tt.pawnIdx, tt.dice)
			assert.Nil(t, mv)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestResolveMove_CircuitAdvance(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 4)

	mv, code := ResolveMove(g, ColorYellow, 0, 3)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, StatusCircuit, mv.NewStatus)
	assert.Equal(t, int32(7), mv.NewPos)
	assert.Len(t, mv.Path, 3)
	assert.Equal(t, ringCoords[7], mv.Path[2])
}

func TestResolveMove_RingWraps(t *testing.T) {
	// Blue starts at 13, so cell 2 is far along its circuit but the
	// raw position wrapped past zero.
	g := newTestGame(t)
	placePawn(g, ColorBlue, 0, StatusCircuit, 50)

	mv, code := ResolveMove(g, ColorBlue, 0, 4)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, StatusCircuit, mv.NewStatus)
	assert.Equal(t, int32(2), mv.NewPos)
}

func TestResolveMove_FinalEntry(t *testing.T) {
	// Yellow on cell 50 has relative progress 50; a 4 crosses the ring
	// boundary and lands on final index 2.
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 50)

	mv, code := ResolveMove(g, ColorYellow, 0, 4)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, StatusFinal, mv.NewStatus)
	assert.Equal(t, int32(2), mv.NewPos)
	assert.False(t, mv.Finished)
	require.Len(t, mv.Path, 4)
	assert.Equal(t, ringCoords[51], mv.Path[0])
	assert.Equal(t, finalCoords[ColorYellow][2], mv.Path[3])
}

func TestResolveMove_FinalEntryExact(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 51)

	mv, code := ResolveMove(g, ColorYellow, 0, 6)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, StatusFinal, mv.NewStatus)
	assert.Equal(t, FinalLen-1, mv.NewPos)
	assert.True(t, mv.Finished)
}

func TestResolveMove_FinalOvershootRejected(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusFinal, 3)

	mv, code := ResolveMove(g, ColorYellow, 0, 4)
	assert.Nil(t, mv)
	assert.Equal(t, ErrExceedFinal, code)
}

func TestResolveMove_CrossoverToLastCell(t *testing.T) {
	// Relative progress 51 plus a 6 lands exactly on the last final
	// cell, the furthest a ring pawn can ever reach in one roll.
	g := newTestGame(t)
	placePawn(g, ColorBlue, 0, StatusCircuit, 12) // blue relative 51

	mv, code := ResolveMove(g, ColorBlue, 0, 6)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, StatusFinal, mv.NewStatus)
	assert.Equal(t, FinalLen-1, mv.NewPos)
	assert.True(t, mv.Finished)
}

func TestResolveMove_FinalAdvance(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusFinal, 1)

	mv, code := ResolveMove(g, ColorYellow, 0, 4)
	require.Equal(t, MoveOK, code)
	assert.Equal(t, FinalLen-1, mv.NewPos)
	assert.True(t, mv.Finished)
	assert.Len(t, mv.Path, 4)
}

func TestResolveMove_Capture(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 1)
	placePawn(g, ColorBlue, 2, StatusCircuit, 4) // non-safe, no event either way

	mv, code := ResolveMove(g, ColorYellow, 0, 3)
	require.Equal(t, MoveOK, code)
	require.NotNil(t, mv.Captured)
	assert.Equal(t, "p2", mv.Captured.PlayerID)
	assert.Equal(t, int32(2), mv.Captured.PawnIdx)
	assert.Equal(t, EventNone, mv.Event)
}

func TestResolveMove_NoCaptureOnSafeCell(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 5)
	placePawn(g, ColorBlue, 0, StatusCircuit, 8) // safe star

	mv, code := ResolveMove(g, ColorYellow, 0, 3)
	require.Equal(t, MoveOK, code)
	assert.Nil(t, mv.Captured)
}

func TestResolveMove_NoCaptureOnPair(t *testing.T) {
	// Two enemies stacked on one cell form a blockade against capture.
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 1)
	placePawn(g, ColorBlue, 0, StatusCircuit, 4)
	placePawn(g, ColorBlue, 1, StatusCircuit, 4)

	mv, code := ResolveMove(g, ColorYellow, 0, 3)
	require.Equal(t, MoveOK, code)
	assert.Nil(t, mv.Captured)
}

func TestResolveMove_CaptureSuppressesEvent(t *testing.T) {
	// Cell 2 carries a quiz, but a capture landing there must not
	// trigger it.
	require.Equal(t, EventQuiz, EventTypeAt(2))

	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 1)
	placePawn(g, ColorBlue, 0, StatusCircuit, 2)

	mv, code := ResolveMove(g, ColorYellow, 0, 1)
	require.Equal(t, MoveOK, code)
	require.NotNil(t, mv.Captured)
	assert.Equal(t, EventNone, mv.Event)
}

func TestResolveMove_EventOnPlainLanding(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 1)

	mv, code := ResolveMove(g, ColorYellow, 0, 1)
	require.Equal(t, MoveOK, code)
	assert.Nil(t, mv.Captured)
	assert.Equal(t, EventQuiz, mv.Event)
}

func TestApplyResolved(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 1)
	placePawn(g, ColorBlue, 2, StatusCircuit, 4)

	mv, code := ResolveMove(g, ColorYellow, 0, 3)
	require.Equal(t, MoveOK, code)
	require.NoError(t, g.ApplyResolved(ColorYellow, mv, 2))

	yellow := g.PlayerByColor(ColorYellow)
	blue := g.PlayerByColor(ColorBlue)
	assert.Equal(t, Pawn{Status: StatusCircuit, Pos: 4}, yellow.Pawns[0])
	assert.Equal(t, Pawn{Status: StatusHome, Pos: BasePos}, blue.Pawns[2])
	assert.Equal(t, int32(2), yellow.Tokens)
}

func TestApplyResolved_Finish(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusFinal, 3)

	mv, code := ResolveMove(g, ColorYellow, 0, 2)
	require.Equal(t, MoveOK, code)
	require.True(t, mv.Finished)
	require.NoError(t, g.ApplyResolved(ColorYellow, mv, 2))

	assert.Equal(t, Pawn{Status: StatusFinished, Pos: BasePos}, g.PlayerByColor(ColorYellow).Pawns[0])
}

func TestValidMoves(t *testing.T) {
	g := newTestGame(t)
	placePawn(g, ColorYellow, 0, StatusCircuit, 10)
	placePawn(g, ColorYellow, 1, StatusFinal, 4)

	// On a 3: pawn 0 advances, pawn 1 overshoots, pawns 2/3 need a 6.
	vs := ValidMoves(g, g.PlayerByColor(ColorYellow), 3)
	require.Len(t, vs, 1)
	assert.Equal(t, int32(0), vs[0].PawnIdx)

	// On a 6: pawn 0 advances, pawns 2 and 3 can exit.
	vs = ValidMoves(g, g.PlayerByColor(ColorYellow), 6)
	require.Len(t, vs, 3)

	// No legal moves at all.
	g2 := newTestGame(t)
	vs = ValidMoves(g2, g2.PlayerByColor(ColorYellow), 3)
	assert.Empty(t, vs)
}
