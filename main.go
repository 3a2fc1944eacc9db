package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"einstein/config"
	"einstein/engine"
	"einstein/experiments"
	"einstein/game"
	"einstein/searcher"
	"einstein/server"
)

func main() {
	mode := flag.String("mode", "demo", "demo, experiment or serve")
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	games := flag.Int("games", 5, "games per configuration in experiment mode")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	switch *mode {
	case "demo":
		runDemo(cfg)
	case "experiment":
		if err := experiments.RunParallelizationToThroughput("experiments/results", *games); err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
	case "serve":
		mcts := searcher.NewMCTS(searcher.WithConfig(cfg.SearcherConfig()), searcher.WithMetrics())
		if err := server.New(mcts).Listen(cfg.Server.Addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

// runDemo plays one search-vs-random game and renders the board before and after.
func runDemo(cfg config.Config) {
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	mcts := searcher.NewMCTS(
		searcher.WithConfig(cfg.SearcherConfig()),
		searcher.WithMetrics(),
		searcher.WithSeed(seed),
	)

	board := game.NewBoardWithSetup(parseSetup(cfg.Engine.Setup))
	e := engine.NewLocalEngine(
		engine.SearchAgent{MCTS: mcts},
		engine.RandomAgent{Rng: rand.New(rand.NewSource(seed + 1))},
		engine.WithBoard(board),
		engine.WithSeed(seed+2),
	)

	fmt.Println("Starting position:")
	fmt.Print(engine.Render(&board))

	result := e.Run()

	final := e.Board()
	fmt.Println("Final position:")
	fmt.Print(engine.Render(&final))
	fmt.Printf("Result: %s after %d turns\n", result, e.Turns())
}

func parseSetup(name string) game.Setup {
	switch name {
	case "balanced":
		return game.SetupBalanced
	case "aggressive":
		return game.SetupAggressive
	case "defensive":
		return game.SetupDefensive
	default:
		return game.SetupStandard
	}
}
