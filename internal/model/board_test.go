package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartIndexOf(t *testing.T) {
	assert.Equal(t, int32(0), StartIndexOf(ColorYellow))
	assert.Equal(t, int32(13), StartIndexOf(ColorBlue))
	assert.Equal(t, int32(26), StartIndexOf(ColorGreen))
	assert.Equal(t, int32(39), StartIndexOf(ColorRed))
}

func TestSafeCells(t *testing.T) {
	for _, pos := range []int32{0, 8, 13, 21, 26, 34, 39, 47} {
		assert.True(t, IsSafe(pos), "cell %d", pos)
	}
	assert.False(t, IsSafe(1))
	assert.False(t, IsSafe(51))
	assert.Len(t, SafePositions, 8)
}

func TestSafeCellsCarryNoEvents(t *testing.T) {
	for pos := range SafePositions {
		assert.Equal(t, EventNone, EventTypeAt(pos), "cell %d", pos)
	}
}

func TestRingCoordsDistinctAndInGrid(t *testing.T) {
	seen := map[Coord]int32{}
	for i := int32(0); i < RingLen; i++ {
		c := ringCoords[i]
		require.True(t, c.Row >= 0 && c.Row < GridSize, "cell %d row %d", i, c.Row)
		require.True(t, c.Col >= 0 && c.Col < GridSize, "cell %d col %d", i, c.Col)
		if prev, dup := seen[c]; dup {
			t.Fatalf("cells %d and %d share coord %v", prev, i, c)
		}
		seen[c] = i
	}
}

func TestRingCoordsContinuous(t *testing.T) {
	// Consecutive ring cells are grid neighbors, diagonally at the
	// corner turns, including the wrap from 51 back to 0.
	for i := int32(0); i < RingLen; i++ {
		a := ringCoords[i]
		b := ringCoords[(i+1)%RingLen]
		dr := a.Row - b.Row
		dc := a.Col - b.Col
		if dr < 0 {
			dr = -dr
		}
		if dc < 0 {
			dc = -dc
		}
		assert.True(t, dr <= 1 && dc <= 1, "cells %d -> %d jump from %v to %v", i, (i+1)%RingLen, a, b)
	}
}

func TestRingQuarterSymmetry(t *testing.T) {
	for i := int32(0); i < RingLen-QuadLen; i++ {
		assert.Equal(t, rotate(ringCoords[i]), ringCoords[i+QuadLen], "cell %d", i)
	}
}

func TestFinalCoordsShareCenter(t *testing.T) {
	center := finalCoords[ColorYellow][FinalLen-1]
	assert.Equal(t, Coord{7, 7}, center)
	for c := Color(0); int32(c) < ColorCount; c++ {
		assert.Equal(t, center, finalCoords[c][FinalLen-1], "color %s", c)
	}
}

func TestCoordinateOf(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		status  PawnStatus
		pos     int32
		wantErr bool
	}{
		{"yard slot", ColorYellow, StatusHome, 2, false},
		{"yard slot out of range", ColorYellow, StatusHome, 4, true},
		{"circuit", ColorBlue, StatusCircuit, 51, false},
		{"circuit out of range", ColorBlue, StatusCircuit, 52, true},
		{"final", ColorGreen, StatusFinal, 5, false},
		{"final out of range", ColorGreen, StatusFinal, 6, true},
		{"finished", ColorRed, StatusFinished, BasePos, false},
		{"invalid color", Color(7), StatusCircuit, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CoordinateOf(tt.color, tt.status, tt.pos)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoordinateOfMatchesRing(t *testing.T) {
	c, err := CoordinateOf(ColorYellow, StatusCircuit, 0)
	require.NoError(t, err)
	assert.Equal(t, ringCoords[0], c)

	c, err = CoordinateOf(ColorRed, StatusFinished, BasePos)
	require.NoError(t, err)
	assert.Equal(t, Coord{7, 7}, c)
}
