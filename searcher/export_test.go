package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"einstein/game"
)

func searchedEngine(t *testing.T) *MCTS {
	t.Helper()
	m := NewMCTS(WithConfig(Config{
		Iterations:   500,
		Exploration:  1.414,
		ThinkingTime: 10 * time.Second,
		Goroutines:   1,
	}), WithSeed(11))
	m.EnableTreePersistence(true)

	board := game.NewBoard()
	// Dice 6: piece 6 starts unblocked, so the root has several children.
	m.FindBestMove(&board, game.LeftTop, 6)
	return m
}

func TestExportSearchTree(t *testing.T) {
	t.Run("persistence off yields an empty node", func(t *testing.T) {
		m := NewMCTS(WithSeed(1))
		board := game.NewBoard()
		m.FindBestMove(&board, game.LeftTop, 1)

		exported := m.ExportSearchTree(2, 3)

		require.Equal(t, ExportedNode{}, exported)
	})

	t.Run("no search run yet yields an empty node", func(t *testing.T) {
		m := NewMCTS(WithSeed(1))
		m.EnableTreePersistence(true)

		require.Equal(t, ExportedNode{}, m.ExportSearchTree(2, 3))
	})

	t.Run("maxDepth 0 exports the root only", func(t *testing.T) {
		m := searchedEngine(t)

		exported := m.ExportSearchTree(0, 5)

		require.Empty(t, exported.Children, "Depth 0 must not include children")
		require.Positive(t, exported.Visits, "Root carries the search's visit count")
	})

	t.Run("negative width keeps no root children", func(t *testing.T) {
		m := searchedEngine(t)

		exported := m.ExportSearchTree(2, -1)

		require.Empty(t, exported.Children, "Negative width must clamp to zero, not fault")
		require.Positive(t, exported.Visits)
	})

	t.Run("root children sorted by visits and truncated", func(t *testing.T) {
		m := searchedEngine(t)

		exported := m.ExportSearchTree(2, 3)

		require.LessOrEqual(t, len(exported.Children), 3)
		for i := 1; i < len(exported.Children); i++ {
			require.GreaterOrEqual(t, exported.Children[i-1].Visits, exported.Children[i].Visits,
				"Root children must be in descending visit order")
		}
	})

	t.Run("levels below the root are not truncated", func(t *testing.T) {
		m := searchedEngine(t)

		wide := m.ExportSearchTree(2, 1)
		require.Len(t, wide.Children, 1)
		// The surviving root child keeps all of its own children.
		deep := m.ExportSearchTree(3, 1)
		require.GreaterOrEqual(t, len(deep.Children[0].Children), len(wide.Children[0].Children))
	})

	t.Run("exported values are detached and finite", func(t *testing.T) {
		m := searchedEngine(t)

		exported := m.ExportSearchTree(3, 10)

		var check func(n ExportedNode)
		check = func(n ExportedNode) {
			require.LessOrEqual(t, n.WinRate, 1.0)
			require.GreaterOrEqual(t, n.WinRate, 0.0)
			require.LessOrEqual(t, n.UCB, float64(maxExportedUCB), "UCB must be JSON-safe")
			for _, child := range n.Children {
				check(child)
			}
		}
		check(exported)
	})
}

func TestImportSearchTree(t *testing.T) {
	t.Run("round trip preserves structure and visits", func(t *testing.T) {
		m := searchedEngine(t)
		exported := m.ExportSearchTree(2, 4)

		fresh := NewMCTS(WithSeed(1))
		fresh.ImportSearchTree(exported)
		again := fresh.ExportSearchTree(2, 4)

		require.Equal(t, exported.Visits, again.Visits)
		require.Len(t, again.Children, len(exported.Children))
		for i := range exported.Children {
			require.Equal(t, exported.Children[i].Move, again.Children[i].Move)
			require.Equal(t, exported.Children[i].Visits, again.Children[i].Visits)
			require.InDelta(t, exported.Children[i].WinRate, again.Children[i].WinRate, 1e-3,
				"Win rate is reconstructed from a rounded score")
		}
	})

	t.Run("reconstructed score respects the scale invariant", func(t *testing.T) {
		m := NewMCTS(WithSeed(1))
		m.ImportSearchTree(ExportedNode{
			Visits:  10,
			WinRate: 1.5, // corrupted input
			Children: []ExportedNode{
				{Move: game.Move{From: game.Position{X: 0, Y: 0}, To: game.Position{X: 1, Y: 1}}, Visits: -3, WinRate: 0.5},
			},
		})

		exported := m.ExportSearchTree(2, 5)

		require.LessOrEqual(t, exported.WinRate, 1.0, "Imported score must be clamped")
		require.GreaterOrEqual(t, exported.Children[0].Visits, 0)
	})
}
