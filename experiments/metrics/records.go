package metrics

// AgentConfig describes one search configuration under measurement.
type AgentConfig struct {
	ID         int
	Goroutines int
	Iterations int
	DurationMs int64
}

// GameRecord is one finished game between two configured agents.
type GameRecord struct {
	ID         int
	Agent1     int // AgentConfig.ID
	Agent2     int // AgentConfig.ID
	Winner     string
	Turns      int
	DurationMs int64
}

// MoveRecord is one searched move within a game.
type MoveRecord struct {
	Game         int // GameRecord.ID
	Turn         int
	Player       string
	Iterations   int64
	FullPlayouts int64
	DurationMs   int64
}
