package model

// Bot strategies. Random picks any matching swap; greedy picks the swap
// whose cascade scores the most.
const (
	BotStrategyRandom = "random"
	BotStrategyGreedy = "greedy"

	DefaultBotStrategy = BotStrategyGreedy
)

// Move is a swap of two orthogonally adjacent cells.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
