package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluatePosition(t *testing.T) {
	t.Run("won position scores 1", func(t *testing.T) {
		var b Board
		b.SetPiece(4, 4, -1)
		b.SetPiece(0, 4, 2)

		require.Equal(t, 1.0, EvaluatePosition(&b, LeftTop))
		require.Equal(t, -1.0, EvaluatePosition(&b, RightBottom))
	})

	t.Run("stays within bounds", func(t *testing.T) {
		boards := []Board{NewBoard(), NewBoardWithSetup(SetupAggressive), {}}
		for _, b := range boards {
			for _, p := range []Player{LeftTop, RightBottom} {
				score := EvaluatePosition(&b, p)
				require.GreaterOrEqual(t, score, -1.0)
				require.LessOrEqual(t, score, 1.0)
			}
		}
	})

	t.Run("advancement toward the corner raises the score", func(t *testing.T) {
		var back, forward Board
		back.SetPiece(0, 0, -1)
		back.SetPiece(0, 4, 1)
		forward.SetPiece(3, 3, -1)
		forward.SetPiece(0, 4, 1)

		require.Greater(t, EvaluatePosition(&forward, LeftTop), EvaluatePosition(&back, LeftTop))
	})

	t.Run("deterministic", func(t *testing.T) {
		b := NewBoard()
		require.Equal(t, EvaluatePosition(&b, LeftTop), EvaluatePosition(&b, LeftTop))
	})
}
