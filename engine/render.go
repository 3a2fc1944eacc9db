package engine

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"einstein/game"
)

// Render draws the board for the terminal, LeftTop pieces in red and
// RightBottom pieces in blue when the terminal supports color.
func Render(board *game.Board) string {
	profile := termenv.ColorProfile()
	red := profile.Color("#E88388")
	blue := profile.Color("#71BEF2")
	dim := profile.Color("#4F4F4F")

	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < game.BoardSize; x++ {
		sb.WriteString(fmt.Sprintf(" %d ", x))
	}
	sb.WriteByte('\n')

	for y := 0; y < game.BoardSize; y++ {
		sb.WriteString(fmt.Sprintf(" %d ", y))
		for x := 0; x < game.BoardSize; x++ {
			piece := board.Piece(x, y)
			switch {
			case piece == 0:
				sb.WriteString(termenv.String(" . ").Foreground(dim).String())
			case piece < 0:
				cell := fmt.Sprintf(" %d ", -piece)
				sb.WriteString(termenv.String(cell).Foreground(red).String())
			default:
				cell := fmt.Sprintf(" %d ", piece)
				sb.WriteString(termenv.String(cell).Foreground(blue).String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
