package bot

import (
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/grid"
	"github.com/mcoot/colormatch/internal/services/scoring"
)

// GreedyStrategy picks the move whose first pass scores highest.
// Cascades are ignored since refills are random.
type GreedyStrategy struct {
	engine  *grid.Engine
	scoring *scoring.Service
}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy(engine *grid.Engine, scoring *scoring.Service) *GreedyStrategy {
	return &GreedyStrategy{engine: engine, scoring: scoring}
}

// ChooseMove returns the highest scoring move, earliest on ties
func (s *GreedyStrategy) ChooseMove(g *model.Grid, moves []model.Move) model.Move {
	best := moves[0]
	bestPoints := -1
	for _, move := range moves {
		points := s.scoring.ScorePass(s.engine.FindAllMatches(s.engine.Swap(g, move.From, move.To)))
		if points > bestPoints {
			best = move
			bestPoints = points
		}
	}
	return best
}
