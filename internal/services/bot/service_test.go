package bot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/dependencies/mocks"
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/bot"
	"github.com/mcoot/colormatch/internal/services/grid"
	"github.com/mcoot/colormatch/internal/services/scoring"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/testutil"
)

// Swapping (0,2) with (1,2) makes four 0s; three other swaps make three
var fourRunRows = []string{
	"00102",
	"12034",
	"23401",
	"34012",
	"40123",
}

var deadRows = []string{
	"01234",
	"12340",
	"23401",
	"34012",
	"40123",
}

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	rules   config.Rules
	engine  *grid.Engine
	scoring *scoring.Service
	service *bot.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandomWithFallback(random.NewSeeded(21))
	s.rules = config.DefaultRules()
	s.rules.GridSize = 5
	s.engine = grid.New(s.random, grid.ConfigFromRules(s.rules), testutil.NopLogger())
	s.scoring = scoring.New(scoring.ConfigFromRules(s.rules))
	s.service = bot.NewService(s.engine, map[string]bot.Strategy{
		model.BotStrategyRandom: bot.NewRandomStrategy(s.random),
		model.BotStrategyGreedy: bot.NewGreedyStrategy(s.engine, s.scoring),
	}, testutil.NopLogger())
}

func (s *ServiceSuite) newSession(rows ...string) *session.Session {
	if len(rows) > 0 {
		s.random.QueueIntn(testutil.RowColors(rows...)...)
	}
	sess, err := session.New("SESSION1", "player-1", session.Dependencies{
		Engine:  s.engine,
		Scoring: s.scoring,
		Rules:   s.rules,
		Random:  s.random,
		Clock:   mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Logger:  testutil.NopLogger(),
	})
	s.Require().NoError(err)
	s.Require().NoError(sess.StartLevel())
	return sess
}

func (s *ServiceSuite) TestValidMoves() {
	g := testutil.GridFromRows(5, fourRunRows...)

	moves := bot.ValidMoves(s.engine, g)

	s.Equal([]model.Move{
		{From: model.Position{Row: 0, Col: 2}, To: model.Position{Row: 0, Col: 3}},
		{From: model.Position{Row: 0, Col: 2}, To: model.Position{Row: 1, Col: 2}},
		{From: model.Position{Row: 1, Col: 2}, To: model.Position{Row: 1, Col: 3}},
		{From: model.Position{Row: 2, Col: 2}, To: model.Position{Row: 2, Col: 3}},
	}, moves)
}

func (s *ServiceSuite) TestValidMovesNone() {
	s.Empty(bot.ValidMoves(s.engine, testutil.GridFromRows(5, deadRows...)))
}

func (s *ServiceSuite) TestGreedyPrefersLongestRun() {
	sess := s.newSession(fourRunRows...)

	move, err := s.service.Hint(sess, model.BotStrategyGreedy)

	s.Require().NoError(err)
	s.Equal(model.Move{From: model.Position{Row: 0, Col: 2}, To: model.Position{Row: 1, Col: 2}}, move)
}

func (s *ServiceSuite) TestEmptyStrategyMeansGreedy() {
	sess := s.newSession(fourRunRows...)

	move, err := s.service.Hint(sess, "")

	s.Require().NoError(err)
	s.Equal(model.Move{From: model.Position{Row: 0, Col: 2}, To: model.Position{Row: 1, Col: 2}}, move)
}

func (s *ServiceSuite) TestRandomStrategyUsesRandomSource() {
	sess := s.newSession(fourRunRows...)
	s.random.QueueIntn(3)

	move, err := s.service.Hint(sess, model.BotStrategyRandom)

	s.Require().NoError(err)
	s.Equal(model.Position{Row: 2, Col: 2}, move.From)
}

func (s *ServiceSuite) TestHintUnknownStrategy() {
	sess := s.newSession(fourRunRows...)

	_, err := s.service.Hint(sess, "clairvoyant")

	s.ErrorIs(err, model.ErrUnknownStrategy)
}

func (s *ServiceSuite) TestHintNoMoves() {
	sess := s.newSession(deadRows...)

	_, err := s.service.Hint(sess, model.BotStrategyGreedy)

	s.ErrorIs(err, model.ErrNoMovesAvailable)
}

func (s *ServiceSuite) TestAutoplayPlaysThroughSession() {
	s.rules.GridSize = 8
	s.rules.LevelScoreStep = 1_000_000
	s.engine = grid.New(s.random, grid.ConfigFromRules(s.rules), testutil.NopLogger())
	s.rebuildService()
	sess := s.newSession()

	actions, err := s.service.Autoplay(context.Background(), sess, model.BotStrategyGreedy, 5)

	s.Require().NoError(err)
	s.LessOrEqual(len(actions), 5)
	s.Equal(len(actions), sess.Snapshot().MovesMade)
	for _, action := range actions {
		s.Equal(model.ActivationSwapped, action.Outcome.Kind)
		s.Positive(action.Outcome.PointsGained)
	}
}

func (s *ServiceSuite) TestAutoplayStopsWhenNotPlaying() {
	sess := s.newSession(fourRunRows...)
	s.Require().NoError(sess.Pause())

	actions, err := s.service.Autoplay(context.Background(), sess, model.BotStrategyGreedy, 5)

	s.Require().NoError(err)
	s.Empty(actions)
}

func (s *ServiceSuite) TestAutoplayHonoursContext() {
	sess := s.newSession(fourRunRows...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.service.Autoplay(ctx, sess, model.BotStrategyGreedy, 5)

	s.ErrorIs(err, context.Canceled)
}

// rebuildService rebuilds the service after the engine is replaced
func (s *ServiceSuite) rebuildService() {
	s.scoring = scoring.New(scoring.ConfigFromRules(s.rules))
	s.service = bot.NewService(s.engine, map[string]bot.Strategy{
		model.BotStrategyGreedy: bot.NewGreedyStrategy(s.engine, s.scoring),
	}, testutil.NopLogger())
}
