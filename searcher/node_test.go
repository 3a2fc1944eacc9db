package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"einstein/game"
)

func TestWinRate(t *testing.T) {
	t.Run("unvisited node returns 0, not NaN", func(t *testing.T) {
		n := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)

		got := n.WinRate()

		require.Equal(t, 0.0, got, "Unvisited node must report a 0 win rate")
		require.False(t, math.IsNaN(got), "Win rate must never be NaN")
	})

	t.Run("win rate is score over visits at WinScale", func(t *testing.T) {
		n := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		n.visits.Store(4)
		n.score.Store(3 * WinScale)

		require.InDelta(t, 0.75, n.WinRate(), 1e-9)
	})
}

func TestUCBValue(t *testing.T) {
	t.Run("unvisited node is infinitely preferable", func(t *testing.T) {
		parent := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		parent.visits.Store(10)
		n := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)

		require.True(t, math.IsInf(n.UCBValue(1.414), 1),
			"Unvisited node should return the +Inf sentinel")
	})

	t.Run("root returns 0", func(t *testing.T) {
		root := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		root.visits.Store(5)

		require.Equal(t, 0.0, root.UCBValue(1.414),
			"Root has no parent and is never UCB-compared")
	})

	t.Run("unvisited sibling beats any visited sibling", func(t *testing.T) {
		parent := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		parent.visits.Store(100)
		visited := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		visited.visits.Store(1)
		visited.score.Store(WinScale) // perfect record so far
		unvisited := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)

		for _, c := range []float64{0.1, 1.0, 1.414, 10} {
			require.Greater(t, unvisited.UCBValue(c), visited.UCBValue(c),
				"Unvisited child must win for exploration constant %v", c)
		}
	})

	t.Run("standard UCB1 formula", func(t *testing.T) {
		parent := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		parent.visits.Store(8)
		n := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		n.visits.Store(2)
		n.score.Store(WinScale) // 0.5 win rate

		want := 0.5 + 1.414*math.Sqrt(math.Log(8)/2)
		require.InDelta(t, want, n.UCBValue(1.414), 1e-9)
	})
}

func TestSelectBestChild(t *testing.T) {
	t.Run("no children returns nil", func(t *testing.T) {
		n := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)

		require.Nil(t, n.SelectBestChild(1.414))
	})

	t.Run("picks max UCB child", func(t *testing.T) {
		parent := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		parent.visits.Store(10)
		weak := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		weak.visits.Store(5)
		strong := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		strong.visits.Store(5)
		strong.score.Store(5 * WinScale)
		parent.children = []*node{weak, strong}

		require.Same(t, strong, parent.SelectBestChild(1.414))
	})

	t.Run("ties break by insertion order", func(t *testing.T) {
		parent := newNode(game.NewBoard(), game.LeftTop, 1, game.NoMove, nil)
		parent.visits.Store(10)
		first := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		first.visits.Store(5)
		second := newNode(game.NewBoard(), game.RightBottom, 1, game.NoMove, parent)
		second.visits.Store(5)
		parent.children = []*node{first, second}

		require.Same(t, first, parent.SelectBestChild(1.414),
			"Equal UCB values should keep the first-encountered child")
	})
}

func TestBackpropagate(t *testing.T) {
	board := game.NewBoard()
	newChain := func() (*node, *node, *node) {
		root := newNode(board, game.LeftTop, 1, game.NoMove, nil)
		mid := newNode(board, game.RightBottom, 2, game.NoMove, root)
		leaf := newNode(board, game.LeftTop, 3, game.NoMove, mid)
		return root, mid, leaf
	}

	t.Run("every ancestor gets exactly one visit", func(t *testing.T) {
		root, mid, leaf := newChain()

		leaf.Backpropagate(game.LeftTopWins, game.LeftTop)

		require.EqualValues(t, 1, root.visits.Load())
		require.EqualValues(t, 1, mid.visits.Load())
		require.EqualValues(t, 1, leaf.visits.Load())
	})

	t.Run("win credits only the winner's nodes", func(t *testing.T) {
		root, mid, leaf := newChain()

		leaf.Backpropagate(game.LeftTopWins, game.LeftTop)

		require.EqualValues(t, WinScale, root.score.Load(), "LeftTop to move: full credit")
		require.EqualValues(t, 0, mid.score.Load(), "RightBottom to move: no credit")
		require.EqualValues(t, WinScale, leaf.score.Load())
	})

	t.Run("draw credits everyone half", func(t *testing.T) {
		root, mid, leaf := newChain()

		leaf.Backpropagate(game.Draw, game.None)

		for _, n := range []*node{root, mid, leaf} {
			require.EqualValues(t, DrawScore, n.score.Load())
		}
	})

	t.Run("score never exceeds visits at scale", func(t *testing.T) {
		root, _, leaf := newChain()

		for i := 0; i < 10; i++ {
			leaf.Backpropagate(game.LeftTopWins, game.LeftTop)
		}

		require.LessOrEqual(t, root.score.Load(), int64(root.visits.Load())*WinScale)
		require.LessOrEqual(t, leaf.score.Load(), int64(leaf.visits.Load())*WinScale)
	})
}
