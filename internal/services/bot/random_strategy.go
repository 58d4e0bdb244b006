package bot

import (
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/model"
)

// RandomStrategy picks any valid move
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a uniformly random valid move
func (s *RandomStrategy) ChooseMove(_ *model.Grid, moves []model.Move) model.Move {
	return moves[s.random.Intn(len(moves))]
}
