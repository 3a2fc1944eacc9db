package engine

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"einstein/game"
	"einstein/searcher"
)

// MaxTurns caps a game before it is adjudicated by the heuristic, so two
// shuffling agents cannot loop forever.
const MaxTurns = 300

// Agent produces a move for a position. Implementations must return a move
// from the board's legal set, or game.NoMove when there is none.
type Agent interface {
	FindMove(board *game.Board, player game.Player, dice int) game.Move
}

// SearchAgent plays moves chosen by an MCTS engine.
type SearchAgent struct {
	MCTS *searcher.MCTS
}

func (a SearchAgent) FindMove(board *game.Board, player game.Player, dice int) game.Move {
	return a.MCTS.FindBestMove(board, player, dice)
}

// RandomAgent plays uniformly random legal moves; a baseline opponent.
type RandomAgent struct {
	Rng *rand.Rand
}

func (a RandomAgent) FindMove(board *game.Board, player game.Player, dice int) game.Move {
	moves := board.ValidMoves(player, dice)
	if len(moves) == 0 {
		return game.NoMove
	}
	return moves[a.Rng.Intn(len(moves))]
}

type Option func(e *LocalEngine)

// WithSeed fixes the engine's dice RNG.
func WithSeed(seed uint64) Option {
	return func(e *LocalEngine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithStartingPlayer sets which side moves first. LeftTop by default.
func WithStartingPlayer(p game.Player) Option {
	return func(e *LocalEngine) {
		if p != game.None {
			e.current = p
		}
	}
}

// WithBoard starts from a custom position instead of the standard setup.
func WithBoard(board game.Board) Option {
	return func(e *LocalEngine) {
		e.board = board
	}
}

// LocalEngine runs a complete game between two agents on one machine,
// rolling the dice and alternating turns until a result.
type LocalEngine struct {
	board   game.Board
	agents  map[game.Player]Agent
	current game.Player
	rng     *rand.Rand
	turns   int
}

func NewLocalEngine(leftTop, rightBottom Agent, options ...Option) *LocalEngine {
	e := &LocalEngine{
		board: game.NewBoard(),
		agents: map[game.Player]Agent{
			game.LeftTop:     leftTop,
			game.RightBottom: rightBottom,
		},
		current: game.LeftTop,
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Board returns a copy of the current position.
func (e *LocalEngine) Board() game.Board {
	return e.board
}

// Turns returns the number of plies played so far.
func (e *LocalEngine) Turns() int {
	return e.turns
}

// Run plays the game to completion and returns the result. Games that hit
// MaxTurns are adjudicated with the position heuristic, the same way a
// ply-capped simulation is.
func (e *LocalEngine) Run() game.Result {
	for e.turns = 0; e.turns < MaxTurns; e.turns++ {
		if e.board.HasPlayerWon(game.LeftTop) {
			return e.finish(game.LeftTopWins)
		}
		if e.board.HasPlayerWon(game.RightBottom) {
			return e.finish(game.RightBottomWins)
		}

		dice := game.RollDice(e.rng)
		move := e.agents[e.current].FindMove(&e.board, e.current, dice)
		if !move.Valid() {
			// Blocked this turn: the dice piece has no step available.
			log.Debug().Msgf("turn %d: %s blocked with dice %d", e.turns, e.current, dice)
			e.current = e.current.Opponent()
			continue
		}

		if !e.board.IsValidMove(move, e.current) {
			log.Warn().Msgf("turn %d: %s proposed illegal move %s, skipping turn", e.turns, e.current, move)
			e.current = e.current.Opponent()
			continue
		}

		e.board.ExecuteMove(move)
		log.Debug().Msgf("turn %d: %s rolled %d, played %s", e.turns, e.current, dice, move)
		e.current = e.current.Opponent()
	}

	// Adjudicate by evaluation, as the ply-capped simulations do.
	eval := game.EvaluatePosition(&e.board, game.LeftTop)
	switch {
	case eval > 0.1:
		return e.finish(game.LeftTopWins)
	case eval < -0.1:
		return e.finish(game.RightBottomWins)
	default:
		return e.finish(game.Draw)
	}
}

func (e *LocalEngine) finish(result game.Result) game.Result {
	log.Info().Msgf("game over after %d turns: %s", e.turns, result)
	return result
}
