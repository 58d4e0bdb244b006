package bot

import (
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/grid"
)

// Strategy defines how a bot picks a swap
type Strategy interface {
	// ChooseMove selects one of the valid moves; moves is never empty
	ChooseMove(g *model.Grid, moves []model.Move) model.Move
}

// ValidMoves lists every adjacent swap that produces at least one match,
// scanning row-major and trying the right then the lower neighbour
func ValidMoves(engine *grid.Engine, g *model.Grid) []model.Move {
	var moves []model.Move
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			from := model.Position{Row: row, Col: col}
			for _, to := range []model.Position{{Row: row, Col: col + 1}, {Row: row + 1, Col: col}} {
				if !g.InBounds(to) {
					continue
				}
				if len(engine.FindAllMatches(engine.Swap(g, from, to))) > 0 {
					moves = append(moves, model.Move{From: from, To: to})
				}
			}
		}
	}
	return moves
}
