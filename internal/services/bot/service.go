package bot

import (
	"context"
	"log/slog"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/grid"
	"github.com/mcoot/colormatch/internal/services/session"
)

// MaxAutoplayMoves is a safety limit for a single Autoplay call
const MaxAutoplayMoves = 1000

// BotAction is one swap played by Autoplay
type BotAction struct {
	Move    model.Move     `json:"move"`
	Outcome *model.Outcome `json:"outcome"`
}

// Service suggests and plays moves on live sessions
type Service struct {
	engine     *grid.Engine
	strategies map[string]Strategy
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(engine *grid.Engine, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		engine:     engine,
		strategies: strategies,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// strategy resolves name, treating "" as the default strategy.
func (s *Service) strategy(name string) (Strategy, error) {
	if name == "" {
		name = model.DefaultBotStrategy
	}
	strategy, ok := s.strategies[name]
	if !ok {
		return nil, model.ErrUnknownStrategy
	}
	return strategy, nil
}

// Hint suggests a swap for the session's current grid
func (s *Service) Hint(sess *session.Session, strategyName string) (model.Move, error) {
	strategy, err := s.strategy(strategyName)
	if err != nil {
		return model.Move{}, err
	}

	g := sess.Grid()
	moves := ValidMoves(s.engine, g)
	if len(moves) == 0 {
		return model.Move{}, model.ErrNoMovesAvailable
	}
	return strategy.ChooseMove(g, moves), nil
}

// Autoplay plays up to maxMoves swaps through the normal activation entry point.
// It stops early when the session leaves the playing state or no swap matches.
func (s *Service) Autoplay(ctx context.Context, sess *session.Session, strategyName string, maxMoves int) ([]BotAction, error) {
	strategy, err := s.strategy(strategyName)
	if err != nil {
		return nil, err
	}
	if maxMoves > MaxAutoplayMoves || maxMoves <= 0 {
		maxMoves = MaxAutoplayMoves
	}

	if err := sess.DisarmBooster(); err != nil {
		return nil, err
	}
	if err := sess.ClearSelection(); err != nil {
		return nil, err
	}

	var actions []BotAction
	for range maxMoves {
		if err := ctx.Err(); err != nil {
			return actions, err
		}
		if sess.Status() != model.StatusPlaying {
			break
		}

		g := sess.Grid()
		moves := ValidMoves(s.engine, g)
		if len(moves) == 0 {
			break
		}
		move := strategy.ChooseMove(g, moves)

		if _, err := sess.ActivateCell(move.From); err != nil {
			return actions, err
		}
		outcome, err := sess.ActivateCell(move.To)
		if err != nil {
			return actions, err
		}
		actions = append(actions, BotAction{Move: move, Outcome: outcome})
	}

	s.logger.Info("autoplay finished",
		slog.String("session_id", string(sess.ID())),
		slog.String("strategy", strategyName),
		slog.Int("moves", len(actions)),
	)
	return actions, nil
}
