package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Board geometry and piece counts for EinStein würfelt nicht.
const (
	BoardSize = 5
	NumPieces = 6
	MinDice   = 1
	MaxDice   = 6
)

// Player identifies a side. The zero value means "no player" (an empty
// square, or a draw with no winner).
type Player int8

const (
	None        Player = 0
	LeftTop     Player = -1 // starts in the top-left corner, targets bottom-right
	RightBottom Player = 1  // starts in the bottom-right corner, targets top-left
)

func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case LeftTop:
		return "LeftTop"
	case RightBottom:
		return "RightBottom"
	default:
		return "None"
	}
}

// Position is a square on the board. X is the column, Y the row, both 0-based.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move is a single-step displacement of one piece.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// NoMove is the sentinel returned when no legal move exists.
var NoMove = Move{Position{-1, -1}, Position{-1, -1}}

func (m Move) Valid() bool {
	return m != NoMove
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", m.From.X, m.From.Y, m.To.X, m.To.Y)
}

// Result is the outcome of a game or a simulated playout.
type Result int

const (
	Ongoing Result = iota
	LeftTopWins
	RightBottomWins
	Draw
)

// Winner maps a result to the winning player, None for Ongoing and Draw.
func (r Result) Winner() Player {
	switch r {
	case LeftTopWins:
		return LeftTop
	case RightBottomWins:
		return RightBottom
	default:
		return None
	}
}

func (r Result) String() string {
	switch r {
	case LeftTopWins:
		return "LeftTopWins"
	case RightBottomWins:
		return "RightBottomWins"
	case Draw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

// RollDice returns a uniform dice value in [MinDice, MaxDice].
func RollDice(rng *rand.Rand) int {
	return MinDice + rng.Intn(MaxDice-MinDice+1)
}
