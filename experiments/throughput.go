// Package experiments measures how parallelism affects search throughput
// and playing strength, writing the raw records as CSV for offline
// analysis.
package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"einstein/engine"
	"einstein/experiments/metrics"
	"einstein/game"
	"einstein/searcher"
)

// TimeBudget is the thinking time per move for every measured agent, so
// configurations differ only in goroutine count.
const TimeBudget = 100 * time.Millisecond

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Goroutines: 1, DurationMs: TimeBudget.Milliseconds()},
	{ID: 2, Goroutines: 2, DurationMs: TimeBudget.Milliseconds()},
	{ID: 3, Goroutines: 4, DurationMs: TimeBudget.Milliseconds()},
	{ID: 4, Goroutines: 8, DurationMs: TimeBudget.Milliseconds()},
	{ID: 5, Goroutines: 16, DurationMs: TimeBudget.Milliseconds()},
}

// instrumentedAgent wraps a search agent and records one MoveRecord per
// searched move.
type instrumentedAgent struct {
	mcts    *searcher.MCTS
	game    int
	turn    *int
	records *[]metrics.MoveRecord
}

func (a instrumentedAgent) FindMove(board *game.Board, player game.Player, dice int) game.Move {
	move := a.mcts.FindBestMove(board, player, dice)
	summary := a.mcts.LastSearchMetrics()
	*a.records = append(*a.records, metrics.MoveRecord{
		Game:         a.game,
		Turn:         *a.turn,
		Player:       player.String(),
		Iterations:   summary.Iterations,
		FullPlayouts: summary.FullPlayouts,
		DurationMs:   summary.Duration.Milliseconds(),
	})
	*a.turn++
	return move
}

// RunParallelizationToThroughput plays gamesPerConfig self-play games for
// each goroutine configuration and writes per-game and per-move records
// under baseDir.
func RunParallelizationToThroughput(baseDir string, gamesPerConfig int) error {
	writer, err := metrics.NewWriter(baseDir)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(parallelConfigs); err != nil {
		return err
	}

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	gameID := 0

	for _, cfg := range parallelConfigs {
		log.Info().Msgf("measuring %d goroutines over %d games", cfg.Goroutines, gamesPerConfig)
		for i := 0; i < gamesPerConfig; i++ {
			gameID++
			record := runGame(gameID, cfg, &moveRecords)
			gameRecords = append(gameRecords, record)
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msgf("wrote %d game records to %s", len(gameRecords), writer.Dir())
	return nil
}

// runGame plays one self-play game with the same configuration on both
// sides, for comparable playing strength and game length.
func runGame(id int, cfg metrics.AgentConfig, moveRecords *[]metrics.MoveRecord) metrics.GameRecord {
	newAgent := func(turn *int) instrumentedAgent {
		return instrumentedAgent{
			mcts: searcher.NewMCTS(
				searcher.WithConfig(searcher.Config{
					Iterations:   1 << 30, // effectively time-bounded
					Exploration:  1.414,
					ThinkingTime: TimeBudget,
					Goroutines:   cfg.Goroutines,
					Multithread:  cfg.Goroutines > 1,
				}),
				searcher.WithMetrics(),
			),
			game:    id,
			turn:    turn,
			records: moveRecords,
		}
	}

	turn := 0
	e := engine.NewLocalEngine(
		newAgent(&turn),
		newAgent(&turn),
		engine.WithSeed(uint64(id)),
	)

	start := time.Now()
	result := e.Run()

	return metrics.GameRecord{
		ID:         id,
		Agent1:     cfg.ID,
		Agent2:     cfg.ID,
		Winner:     result.String(),
		Turns:      e.Turns(),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

// RunQuickBaseline plays a single random-vs-random game, a smoke check
// that the experiment plumbing works before committing to a long run.
func RunQuickBaseline() {
	e := engine.NewLocalEngine(
		engine.RandomAgent{Rng: rand.New(rand.NewSource(1))},
		engine.RandomAgent{Rng: rand.New(rand.NewSource(2))},
	)
	fmt.Printf("baseline game: %s in %d turns\n", e.Run(), e.Turns())
}
