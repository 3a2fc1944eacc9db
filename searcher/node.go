package searcher

import (
	"math"
	"sync"
	"sync/atomic"

	"einstein/game"
)

// Win credit is accumulated as an integer scaled by WinScale so that
// concurrent backpropagation can use plain atomic adds instead of
// floating-point atomics. A win contributes WinScale, a draw DrawScore,
// a loss nothing.
const (
	WinScale  = 1000
	DrawScore = WinScale / 2
)

// node is one position in the search tree: the board after the incoming
// move, the player to move here, and the dice value that produced the legal
// move set available here.
//
// Concurrency contract: children and the expansion bookkeeping mutate only
// under mu; visits and score are lock-free atomics; board, player, dice and
// move are written once at construction and read-only afterwards. parent is
// a non-owning up-pointer used for backpropagation and the UCB exploration
// term, never for ownership.
type node struct {
	board  game.Board
	player game.Player
	dice   int
	move   game.Move

	parent *node

	mu            sync.Mutex
	children      []*node
	fullyExpanded atomic.Bool

	visits atomic.Int32
	score  atomic.Int64

	terminal atomic.Bool
	result   atomic.Int32 // game.Result, valid once terminal is set
}

func newNode(board game.Board, player game.Player, dice int, move game.Move, parent *node) *node {
	return &node{
		board:  board,
		player: player,
		dice:   dice,
		move:   move,
		parent: parent,
	}
}

// WinRate returns accumulated win credit normalized to [0, 1], 0 for an
// unvisited node.
func (n *node) WinRate() float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return 0
	}
	return float64(n.score.Load()) / (float64(visits) * WinScale)
}

// UCBValue computes the UCB1 value of this node as seen from its parent.
// Unvisited nodes return +Inf so selection always tries them first; the
// root, having no parent to be compared under, returns 0.
func (n *node) UCBValue(exploration float64) float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return math.Inf(1)
	}
	if n.parent == nil {
		return 0
	}

	exploitation := n.WinRate()
	parentVisits := float64(n.parent.visits.Load())
	return exploitation + exploration*math.Sqrt(math.Log(parentVisits)/float64(visits))
}

// snapshotChildren returns a point-in-time copy of the children slice so
// callers never observe a half-appended entry.
func (n *node) snapshotChildren() []*node {
	n.mu.Lock()
	defer n.mu.Unlock()
	children := make([]*node, len(n.children))
	copy(children, n.children)
	return children
}

// SelectBestChild returns the child with the maximum UCB value, ties broken
// by insertion order. Returns nil when the node has no children.
func (n *node) SelectBestChild(exploration float64) *node {
	children := n.snapshotChildren()
	if len(children) == 0 {
		return nil
	}

	best := children[0]
	bestValue := best.UCBValue(exploration)
	for _, child := range children[1:] {
		if v := child.UCBValue(exploration); v > bestValue {
			best = child
			bestValue = v
		}
	}
	return best
}

// markTerminal caches the game outcome at this node. Idempotent.
func (n *node) markTerminal(result game.Result) {
	n.result.Store(int32(result))
	n.terminal.Store(true)
}

func (n *node) isTerminal() bool {
	return n.terminal.Load()
}

// credit converts a simulation outcome into win credit from the point of
// view of the player to move at this node.
func (n *node) credit(result game.Result, winner game.Player) int64 {
	switch {
	case result == game.Draw:
		return DrawScore
	case winner == n.player:
		return WinScale
	default:
		return 0
	}
}

// Backpropagate applies one simulation outcome to this node and every
// ancestor up to the root: exactly one visit and one credit update each.
func (n *node) Backpropagate(result game.Result, winner game.Player) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits.Add(1)
		if c := cur.credit(result, winner); c != 0 {
			cur.score.Add(c)
		}
	}
}
