package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boardWith(snakes ...*Snake) *Board {
	return &Board{Width: 30, Height: 30, Snakes: snakes}
}

func TestCheckForGameOver(t *testing.T) {
	a := testSnake("a", Right, Point{X: 1, Y: 1})
	b := testSnake("b", Left, Point{X: 5, Y: 5})
	require.False(t, CheckForGameOver(boardWith(a, b)))

	b.Alive = false
	require.True(t, CheckForGameOver(boardWith(a, b)))

	a.Alive = false
	require.True(t, CheckForGameOver(boardWith(a, b)))
}

func TestWinnerHighestLivingScore(t *testing.T) {
	a := testSnake("a", Right, Point{X: 1, Y: 1})
	a.Score = 50
	a.Alive = false
	b := testSnake("b", Left, Point{X: 5, Y: 5})
	b.Score = 10

	// The dead snake's higher score does not count.
	require.Equal(t, b, Winner(boardWith(a, b)))
}

func TestWinnerTieBreaksByJoinOrder(t *testing.T) {
	a := testSnake("a", Right, Point{X: 1, Y: 1})
	a.Score = 10
	b := testSnake("b", Left, Point{X: 5, Y: 5})
	b.Score = 10

	require.Equal(t, a, Winner(boardWith(a, b)))
}

func TestWinnerAllDead(t *testing.T) {
	a := testSnake("a", Right, Point{X: 1, Y: 1})
	a.Score = 10
	a.Alive = false
	b := testSnake("b", Left, Point{X: 5, Y: 5})
	b.Score = 30
	b.Alive = false

	require.Equal(t, b, Winner(boardWith(a, b)))
}

func TestWinnerEmptyBoard(t *testing.T) {
	require.Nil(t, Winner(boardWith()))
}
