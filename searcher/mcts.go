package searcher

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"einstein/game"
)

// SimulationMaxPlies caps random playouts; games still undecided at the cap
// are classified with the position heuristic instead.
const SimulationMaxPlies = 200

// evalWinThreshold splits the heuristic's [-1, 1] range into win/draw/loss
// for ply-capped playouts.
const evalWinThreshold = 0.1

// Config is the immutable per-search configuration. Zero or negative
// values are clamped to usable minimums at search time, never rejected.
type Config struct {
	Iterations   int           // iteration cap per FindBestMove call
	Exploration  float64       // UCB1 exploration constant
	ThinkingTime time.Duration // wall-clock budget per FindBestMove call
	Goroutines   int           // worker count for the parallel scheduler
	Multithread  bool          // run the parallel scheduler instead of the sequential loop
}

func DefaultConfig() Config {
	return Config{
		Iterations:   1000,
		Exploration:  1.414, // sqrt(2)
		ThinkingTime: 5 * time.Second,
		Goroutines:   4,
		Multithread:  true,
	}
}

func (c Config) clamped() Config {
	if c.Iterations < 1 {
		c.Iterations = 1
	}
	if c.Exploration < 0 {
		c.Exploration = 0
	}
	if c.ThinkingTime <= 0 {
		c.ThinkingTime = time.Millisecond
	}
	if c.Goroutines < 1 {
		c.Goroutines = 1
	}
	return c
}

type Option func(m *MCTS)

func WithConfig(config Config) Option {
	return func(m *MCTS) {
		m.config = config
	}
}

func WithEvaluate(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewCollector()
	}
}

// WithSeed fixes the base seed for the per-worker RNGs, for reproducible
// single-threaded searches in tests.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// MCTS selects moves by Monte Carlo tree search: repeated
// selection/expansion/simulation/backpropagation passes over a shared tree,
// run by one goroutine or raced by several until the budget runs out.
type MCTS struct {
	config   Config
	evaluate game.Evaluate
	metrics  Collector
	seed     uint64

	cancelled  atomic.Bool
	searching  atomic.Bool
	iterations atomic.Int32

	// searchMu serializes FindBestMove calls: the counters above are
	// per-search, so an overlapping call would reset them under a running
	// search. Cancel stays callable mid-search.
	searchMu sync.Mutex

	mu             sync.Mutex
	lastSearchTime float64
	lastMetrics    SearchMetrics
	persistTree    bool
	lastRoot       *node
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{
		config:   DefaultConfig(),
		evaluate: game.EvaluatePosition,
		metrics:  NewNopCollector(),
		seed:     uint64(time.Now().UnixNano()),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) SetConfig(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

func (m *MCTS) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// GetIterationsPerformed reports the number of completed iterations of the
// current or most recent search. Safe to read while a search is running.
func (m *MCTS) GetIterationsPerformed() int {
	return int(m.iterations.Load())
}

// GetLastSearchTime returns the duration of the last FindBestMove call in
// seconds.
func (m *MCTS) GetLastSearchTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSearchTime
}

// LastSearchMetrics returns the collector summary of the last search. Zero
// value unless the engine was built WithMetrics.
func (m *MCTS) LastSearchMetrics() SearchMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMetrics
}

// Searching reports whether a FindBestMove call is in flight.
func (m *MCTS) Searching() bool {
	return m.searching.Load()
}

// Cancel stops a running search early: workers finish their in-flight
// iteration and stop starting new ones.
func (m *MCTS) Cancel() {
	m.cancelled.Store(true)
}

// EnableTreePersistence keeps the last search root alive for
// ExportSearchTree. Off by default so finished trees are collectable.
func (m *MCTS) EnableTreePersistence(enable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistTree = enable
	if !enable {
		m.lastRoot = nil
	}
}

// FindBestMove runs a budgeted search from (board, player, dice) and
// returns the root child with the most visits. With no legal moves it
// degrades to the first board-reported move, then to game.NoMove.
func (m *MCTS) FindBestMove(board *game.Board, player game.Player, dice int) game.Move {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()

	start := time.Now()
	m.mu.Lock()
	cfg := m.config.clamped()
	m.mu.Unlock()

	m.iterations.Store(0)
	m.cancelled.Store(false)
	m.searching.Store(true)
	defer m.searching.Store(false)
	m.metrics.Start()

	root := newNode(*board, player, dice, game.NoMove, nil)
	deadline := start.Add(cfg.ThinkingTime)

	if cfg.Multithread && cfg.Goroutines > 1 {
		m.runParallel(root, cfg, deadline)
	} else {
		m.runSequential(root, cfg, deadline)
	}

	m.mu.Lock()
	m.lastSearchTime = time.Since(start).Seconds()
	m.lastMetrics = m.metrics.Complete()
	if m.persistTree {
		m.lastRoot = root
	}
	m.mu.Unlock()

	children := root.snapshotChildren()
	if len(children) == 0 {
		moves := board.ValidMoves(player, dice)
		if len(moves) > 0 {
			return moves[0]
		}
		log.Warn().Msgf("no legal moves for %s with dice %d", player, dice)
		return game.NoMove
	}

	best := children[0]
	maxVisits := best.visits.Load()
	for _, child := range children[1:] {
		if v := child.visits.Load(); v > maxVisits {
			best = child
			maxVisits = v
		}
	}

	log.Debug().
		Int("iterations", m.GetIterationsPerformed()).
		Dur("elapsed", time.Since(start)).
		Msgf("best move %s (%d visits, %.3f win rate)", best.move, maxVisits, best.WinRate())
	return best.move
}

// MoveScore pairs a legal move with its heuristic score.
type MoveScore struct {
	Move  game.Move `json:"move"`
	Score float64   `json:"score"`
}

// GetMoveAnalysis scores every legal move by executing it on a cloned board
// and evaluating the resulting position for the moving player, sorted best
// first. It never touches the search tree.
func (m *MCTS) GetMoveAnalysis(board *game.Board, player game.Player, dice int) []MoveScore {
	moves := board.ValidMoves(player, dice)
	analysis := make([]MoveScore, 0, len(moves))
	for _, move := range moves {
		next := *board
		next.ExecuteMove(move)
		analysis = append(analysis, MoveScore{Move: move, Score: m.evaluate(&next, player)})
	}

	sort.SliceStable(analysis, func(i, j int) bool {
		return analysis[i].Score > analysis[j].Score
	})
	return analysis
}

// runIteration performs one full four-phase pass over the shared tree.
func (m *MCTS) runIteration(root *node, cfg Config, rng *rand.Rand) {
	selected := m.selection(root, cfg.Exploration)
	leaf := m.expansion(selected, rng)
	result := m.simulate(leaf.board, leaf.player, rng)
	leaf.Backpropagate(result, result.Winner())
}

// selection walks down from the root while nodes are fully expanded,
// following the maximum UCB child. Atomic reads only; no node creation.
func (m *MCTS) selection(root *node, exploration float64) *node {
	current := root
	for current.fullyExpanded.Load() {
		next := current.SelectBestChild(exploration)
		if next == nil {
			break
		}
		current = next
	}
	return current
}

// expansion materializes at most one new child for the selected node, under
// the node's structural lock. One child per call keeps the lock hold
// bounded and lets racing workers expand siblings in parallel.
func (m *MCTS) expansion(n *node, rng *rand.Rand) *node {
	if n.isTerminal() {
		return n
	}

	// Only moveless positions are flagged terminal here. A position already
	// decided by a corner win can still expand while the loser has moves;
	// simulation's win check classifies it on the first playout.
	moves := n.board.ValidMoves(n.player, n.dice)
	if len(moves) == 0 {
		n.markTerminal(gameResult(&n.board))
		return n
	}

	n.mu.Lock()
	if len(n.children) < len(moves) {
		move := moves[len(n.children)]
		board := n.board
		board.ExecuteMove(move)
		child := newNode(board, n.player.Opponent(), game.RollDice(rng), move, n)
		n.children = append(n.children, child)
		if len(n.children) == len(moves) {
			n.fullyExpanded.Store(true)
		}
		n.mu.Unlock()
		return child
	}
	children := make([]*node, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	// A racing worker finished expanding this node first; prefer an
	// unvisited child so the wasted pass still samples something new.
	for _, child := range children {
		if child.visits.Load() == 0 {
			return child
		}
	}
	return children[0]
}

// simulate plays uniformly random moves (re-rolling the dice each ply) on a
// private board copy until a decisive result or the ply cap. Capped games
// are classified by the heuristic from LeftTop's perspective.
func (m *MCTS) simulate(board game.Board, player game.Player, rng *rand.Rand) game.Result {
	for plies := 0; plies < SimulationMaxPlies; plies++ {
		if board.HasPlayerWon(game.LeftTop) {
			m.metrics.AddFullPlayout()
			return game.LeftTopWins
		}
		if board.HasPlayerWon(game.RightBottom) {
			m.metrics.AddFullPlayout()
			return game.RightBottomWins
		}

		moves := board.ValidMoves(player, game.RollDice(rng))
		if len(moves) == 0 {
			break
		}
		board.ExecuteMove(moves[rng.Intn(len(moves))])
		player = player.Opponent()
	}

	eval := m.evaluate(&board, game.LeftTop)
	switch {
	case eval > evalWinThreshold:
		return game.LeftTopWins
	case eval < -evalWinThreshold:
		return game.RightBottomWins
	default:
		return game.Draw
	}
}

func gameResult(b *game.Board) game.Result {
	if b.HasPlayerWon(game.LeftTop) {
		return game.LeftTopWins
	}
	if b.HasPlayerWon(game.RightBottom) {
		return game.RightBottomWins
	}
	return game.Ongoing
}
