package game

import "math"

// Evaluate scores a position from p's perspective, returning a value in
// [-1, 1]. Implementations must be cheap: the search calls this once per
// ply-capped playout and once per move during analysis. A learned model can
// be swapped in without touching the search as long as it honors the range.
type Evaluate func(b *Board, p Player) float64

// EvaluatePosition is the default linear heuristic: won/lost positions are
// scored +-1 immediately, otherwise piece-count advantage plus advancement
// toward the target corner, squashed with tanh.
func EvaluatePosition(b *Board, p Player) float64 {
	if b.HasPlayerWon(p) {
		return 1.0
	}
	if b.HasPlayerWon(p.Opponent()) {
		return -1.0
	}

	pieces := b.PlayerPieces(p)
	opponent := b.PlayerPieces(p.Opponent())

	score := float64(len(pieces)-len(opponent)) * 0.2

	// Reward pieces closer to the target corner. The maximum advancement of
	// a single piece is 2*(BoardSize-1) = 8 steps.
	for _, pos := range pieces {
		if p == LeftTop {
			score += float64(pos.X+pos.Y) * 0.1
		} else {
			score += float64(2*(BoardSize-1)-pos.X-pos.Y) * 0.1
		}
	}

	return math.Tanh(score)
}
