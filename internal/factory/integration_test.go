package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/web/sse"
)

type IntegrationSuite struct {
	suite.Suite
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.ctx = context.Background()
}

// startSession creates a guest and a playing session for them
func (s *IntegrationSuite) startSession(app *TestApp, name string) (model.PlayerID, *session.Session) {
	authSession, err := app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)

	sess, err := app.Sessions.Create(s.ctx, authSession.Player.ID)
	s.Require().NoError(err)
	s.Require().NoError(sess.StartLevel())
	return authSession.Player.ID, sess
}

// playHint plays the greedy bot's suggestion through the activation entry point
func (s *IntegrationSuite) playHint(app *TestApp, sess *session.Session) *model.Outcome {
	move, err := app.BotService.Hint(sess, model.BotStrategyGreedy)
	s.Require().NoError(err)

	_, err = sess.ActivateCell(move.From)
	s.Require().NoError(err)
	outcome, err := sess.ActivateCell(move.To)
	s.Require().NoError(err)
	s.Require().Equal(model.ActivationSwapped, outcome.Kind)
	return outcome
}

func (s *IntegrationSuite) TestLevelCompleteRecordsProgress() {
	rules := config.DefaultRules()
	rules.LevelScoreStep = 10
	app := NewTestAppWithRules(rules)
	playerID, sess := s.startSession(app, "Alice")

	outcome := s.playHint(app, sess)

	s.Positive(outcome.PointsGained)
	s.Equal(model.StatusLevelComplete, sess.Status())

	// The result is recorded when the goal is met; later cascade passes may add more
	results, err := app.Social.Results(s.ctx, playerID)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(model.StatusLevelComplete, results[0].Status)
	s.Equal(sess.ID(), results[0].SessionID)
	s.LessOrEqual(results[0].Score, sess.Score())

	stats, err := app.Social.Stats(s.ctx, playerID)
	s.Require().NoError(err)
	s.Equal(1, stats.LevelsCompleted)
	s.Equal(0, stats.GamesPlayed)
	s.Equal(results[0].Score, stats.HighScore)
	s.Equal(1, stats.MaxLevel)

	board, err := app.Social.GlobalLeaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(playerID, board[0].PlayerID)
	s.Equal("Alice", board[0].DisplayName)
	s.Equal(results[0].Score, board[0].Score)

	achievements, err := app.Social.Achievements(s.ctx, playerID)
	s.Require().NoError(err)
	s.True(unlocked(achievements, model.AchievementFirstMatch))

	s.Require().NoError(sess.NextLevel())
	s.Equal(2, sess.Level())
	s.Equal(rules.MoveLimit, sess.MovesLeft())
}

func (s *IntegrationSuite) TestGameOverThenContinue() {
	rules := config.DefaultRules()
	rules.MoveLimit = 1
	rules.LevelScoreStep = 1000000
	app := NewTestAppWithRules(rules)
	playerID, sess := s.startSession(app, "Bob")

	s.playHint(app, sess)

	s.Equal(model.StatusGameOver, sess.Status())
	stats, err := app.Social.Stats(s.ctx, playerID)
	s.Require().NoError(err)
	s.Equal(1, stats.GamesPlayed)

	s.Require().NoError(sess.Continue(model.ContinueAd))
	s.Equal(model.StatusPlaying, sess.Status())
	s.Equal(rules.ContinueMoves[model.ContinueAd], sess.MovesLeft())
}

func (s *IntegrationSuite) TestSessionEventsReachWatchingStream() {
	app := NewTestApp()
	authSession, err := app.AuthService.CreateGuestPlayer(s.ctx, "Carol")
	s.Require().NoError(err)
	sess, err := app.Sessions.Create(s.ctx, authSession.Player.ID)
	s.Require().NoError(err)

	hub := app.HubManager.GetOrCreateHub(sess.ID())
	client := sse.NewClient(hub, authSession.Player.ID)
	hub.Register(client)
	defer hub.Unregister(client)

	s.Require().NoError(sess.StartLevel())

	var names []string
	for len(names) < 2 {
		select {
		case msg := <-client.Messages():
			names = append(names, msg.Event)
		case <-time.After(2 * time.Second):
			s.FailNow("timed out waiting for stream messages", "got %v", names)
		}
	}
	s.Equal([]string{string(model.EventSessionUpdated), sse.GameEvent}, names)
}

func (s *IntegrationSuite) TestUnwatchedSessionsDoNotCreateHubs() {
	app := NewTestApp()
	_, sess := s.startSession(app, "Dave")

	s.Require().NoError(sess.Pause())

	s.Equal(0, app.HubManager.HubCount())
}

func (s *IntegrationSuite) TestNewAppDefaults() {
	app, err := New(Config{})
	s.Require().NoError(err)

	s.Equal(config.DefaultRules().GridSize, app.Rules.GridSize)
	s.NotNil(app.Sessions)
	s.NotNil(app.Social)
}

func (s *IntegrationSuite) TestNewAppRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "sqlite"})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewAppRequiresRedisConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func unlocked(achievements []model.Achievement, id model.AchievementID) bool {
	for _, a := range achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}
