package game

import (
	"hash/fnv"
	"strings"
)

// Setup selects the initial piece formation.
type Setup int

const (
	SetupStandard Setup = iota // triangular corner layout
	SetupBalanced
	SetupAggressive
	SetupDefensive
)

// Board holds the 5x5 grid. Squares store 0 for empty, -1..-6 for LeftTop
// pieces and 1..6 for RightBottom pieces, indexed as [x][y].
//
// Board is a plain value type: assignment makes a deep, independent copy,
// which is what the search relies on for cheap cloning.
type Board [BoardSize][BoardSize]int8

// NewBoard returns a board with the standard triangular setup.
func NewBoard() Board {
	return NewBoardWithSetup(SetupStandard)
}

// NewBoardWithSetup places both players' pieces in the given formation,
// mirrored between the two corners.
func NewBoardWithSetup(setup Setup) Board {
	var layout [NumPieces]Position
	switch setup {
	case SetupBalanced:
		layout = [NumPieces]Position{{0, 0}, {1, 0}, {0, 1}, {2, 0}, {1, 1}, {0, 2}}
	case SetupAggressive:
		layout = [NumPieces]Position{{2, 2}, {2, 1}, {1, 2}, {2, 0}, {1, 1}, {0, 2}}
	case SetupDefensive:
		layout = [NumPieces]Position{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 0}, {0, 2}}
	default:
		layout = [NumPieces]Position{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	}

	var b Board
	for i, pos := range layout {
		n := int8(i + 1)
		b[pos.X][pos.Y] = -n
		b[BoardSize-1-pos.X][BoardSize-1-pos.Y] = n
	}
	return b
}

// Copy returns an independent duplicate. Board is an array value, so this
// is a plain assignment.
func (b *Board) Copy() Board {
	return *b
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// Piece returns the raw piece value at (x, y), 0 if out of bounds.
func (b *Board) Piece(x, y int) int8 {
	if !b.InBounds(x, y) {
		return 0
	}
	return b[x][y]
}

func (b *Board) SetPiece(x, y int, piece int8) {
	if b.InBounds(x, y) {
		b[x][y] = piece
	}
}

func (b *Board) IsEmpty(x, y int) bool {
	return b.Piece(x, y) == 0
}

// Owner returns which player a raw piece value belongs to.
func Owner(piece int8) Player {
	switch {
	case piece > 0:
		return RightBottom
	case piece < 0:
		return LeftTop
	default:
		return None
	}
}

// PlayerPieces lists the positions of all pieces owned by p, scanning the
// board in a fixed column-major order.
func (b *Board) PlayerPieces(p Player) []Position {
	var pieces []Position
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if Owner(b[x][y]) == p {
				pieces = append(pieces, Position{x, y})
			}
		}
	}
	return pieces
}

// FindPiece locates piece number n (1..NumPieces) of player p.
func (b *Board) FindPiece(n int, p Player) (Position, bool) {
	target := int8(n)
	if p == LeftTop {
		target = -target
	}
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if b[x][y] == target {
				return Position{x, y}, true
			}
		}
	}
	return Position{}, false
}

// IsValidMove checks that m moves one of p's pieces a single step in any of
// the 8 directions, onto an empty square or an opposing piece.
func (b *Board) IsValidMove(m Move, p Player) bool {
	if !b.InBounds(m.From.X, m.From.Y) || !b.InBounds(m.To.X, m.To.Y) {
		return false
	}

	piece := b[m.From.X][m.From.Y]
	if piece == 0 || Owner(piece) != p {
		return false
	}
	if dest := b[m.To.X][m.To.Y]; dest != 0 && Owner(dest) == p {
		return false
	}

	dx := abs(m.To.X - m.From.X)
	dy := abs(m.To.Y - m.From.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// ExecuteMove applies m, capturing whatever occupies the destination.
// It does not re-validate the move.
func (b *Board) ExecuteMove(m Move) bool {
	if !b.InBounds(m.From.X, m.From.Y) || !b.InBounds(m.To.X, m.To.Y) {
		return false
	}
	piece := b[m.From.X][m.From.Y]
	b[m.From.X][m.From.Y] = 0
	b[m.To.X][m.To.Y] = piece
	return true
}

// HasPlayerWon reports whether p has won: any of p's pieces on the opposing
// corner, or the opponent stripped of all pieces. A player with no pieces
// left cannot have won.
func (b *Board) HasPlayerWon(p Player) bool {
	pieces := b.PlayerPieces(p)
	if len(pieces) == 0 {
		return false
	}

	for _, pos := range pieces {
		if b.isTargetCorner(pos, p) {
			return true
		}
	}

	return len(b.PlayerPieces(p.Opponent())) == 0
}

func (b *Board) isTargetCorner(pos Position, p Player) bool {
	if p == LeftTop {
		return pos.X == BoardSize-1 && pos.Y == BoardSize-1
	}
	return pos.X == 0 && pos.Y == 0
}

// movablePieces resolves the dice value to piece numbers under the
// closest-piece rule: the exact piece if alive, otherwise the nearest
// lower-numbered survivor, otherwise the nearest higher-numbered one.
func (b *Board) movablePieces(p Player, dice int) []int {
	if _, ok := b.FindPiece(dice, p); ok {
		return []int{dice}
	}
	for n := dice - 1; n >= 1; n-- {
		if _, ok := b.FindPiece(n, p); ok {
			return []int{n}
		}
	}
	for n := dice + 1; n <= NumPieces; n++ {
		if _, ok := b.FindPiece(n, p); ok {
			return []int{n}
		}
	}
	return nil
}

// ValidMoves generates every legal move for p with the given dice value, in
// a deterministic order (piece number, then direction).
func (b *Board) ValidMoves(p Player, dice int) []Move {
	var moves []Move
	for _, n := range b.movablePieces(p, dice) {
		pos, ok := b.FindPiece(n, p)
		if !ok {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				m := Move{pos, Position{pos.X + dx, pos.Y + dy}}
				if b.IsValidMove(m, p) {
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}

// CanPlayerMove reports whether p has any legal move with the given dice.
func (b *Board) CanPlayerMove(p Player, dice int) bool {
	return len(b.ValidMoves(p, dice)) > 0
}

// Hash returns a position hash suitable for transposition bookkeeping.
func (b *Board) Hash() uint64 {
	h := fnv.New64a()
	var buf [BoardSize * BoardSize]byte
	i := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			buf[i] = byte(b[x][y])
			i++
		}
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			switch piece := b[x][y]; {
			case piece == 0:
				sb.WriteString(" . ")
			case piece < 0:
				sb.WriteString(" L")
				sb.WriteByte(byte('0' - piece))
			default:
				sb.WriteString(" R")
				sb.WriteByte(byte('0' + piece))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
