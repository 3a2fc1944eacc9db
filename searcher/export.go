package searcher

import (
	"sort"

	"einstein/game"
)

// referenceExploration is the fixed constant used when recording UCB values
// in exports, so snapshots are comparable across configurations.
const referenceExploration = 1.414

// ExportedNode is a detached value copy of a tree node for inspection or
// best-effort search resumption. It carries no references into the live
// tree and cannot be used to mutate it.
type ExportedNode struct {
	Move     game.Move      `json:"move"`
	Visits   int            `json:"visits"`
	WinRate  float64        `json:"win_rate"`
	UCB      float64        `json:"ucb"`
	Terminal bool           `json:"terminal"`
	Children []ExportedNode `json:"children,omitempty"`
}

// ExportSearchTree copies the persisted tree depth-first down to maxDepth
// (root is depth 0). Only the root's children are sorted by visits
// descending and truncated to maxChildrenAtRoot; deeper levels are included
// in full. Returns a zero ExportedNode when persistence is off or no search
// has run.
func (m *MCTS) ExportSearchTree(maxDepth, maxChildrenAtRoot int) ExportedNode {
	m.mu.Lock()
	root := m.lastRoot
	m.mu.Unlock()

	if root == nil {
		return ExportedNode{}
	}
	if maxChildrenAtRoot < 0 {
		maxChildrenAtRoot = 0
	}
	return exportNode(root, 0, maxDepth, maxChildrenAtRoot)
}

func exportNode(n *node, depth, maxDepth, maxChildrenAtRoot int) ExportedNode {
	out := ExportedNode{
		Move:     n.move,
		Visits:   int(n.visits.Load()),
		WinRate:  n.WinRate(),
		UCB:      n.UCBValue(referenceExploration),
		Terminal: n.isTerminal(),
	}
	if out.UCB > maxExportedUCB { // +Inf does not survive JSON
		out.UCB = maxExportedUCB
	}
	if depth >= maxDepth {
		return out
	}

	children := n.snapshotChildren()
	if depth == 0 {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].visits.Load() > children[j].visits.Load()
		})
		if len(children) > maxChildrenAtRoot {
			children = children[:maxChildrenAtRoot]
		}
	}

	for _, child := range children {
		out.Children = append(out.Children, exportNode(child, depth+1, maxDepth, maxChildrenAtRoot))
	}
	return out
}

const maxExportedUCB = 1e9

// ImportSearchTree rebuilds a live tree from an exported one to warm-start
// a later search. The export does not carry board state below the root's
// context, so the root is a placeholder and each child's board is derived
// by replaying its recorded move; score is reconstructed from the rounded
// win rate. Treat imported counters as hints, not authoritative search
// state.
func (m *MCTS) ImportSearchTree(exported ExportedNode) {
	root := importNode(exported, game.Board{}, game.None, nil)

	m.mu.Lock()
	m.persistTree = true
	m.lastRoot = root
	m.mu.Unlock()
}

func importNode(exported ExportedNode, board game.Board, player game.Player, parent *node) *node {
	n := newNode(board, player, 0, exported.Move, parent)
	visits := int32(exported.Visits)
	if visits < 0 {
		visits = 0
	}
	n.visits.Store(visits)

	score := int64(exported.WinRate * float64(visits) * WinScale)
	if maxScore := int64(visits) * WinScale; score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	n.score.Store(score)

	if exported.Terminal {
		n.markTerminal(gameResult(&board))
	}

	for _, child := range exported.Children {
		childBoard := board
		childBoard.ExecuteMove(child.Move)
		n.children = append(n.children, importNode(child, childBoard, player.Opponent(), n))
	}
	if len(n.children) > 0 {
		n.fullyExpanded.Store(true)
	}
	return n
}
