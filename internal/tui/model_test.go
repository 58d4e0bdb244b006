package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/factory"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
)

type ModelSuite struct {
	suite.Suite
	app     *factory.TestApp
	session *session.Session
	model   Model
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) SetupTest() {
	// Keep level 1 running however well the swaps cascade
	rules := config.DefaultRules()
	rules.LevelScoreStep = 1_000_000
	s.app = factory.NewTestAppWithRules(rules)
	sess, err := s.app.Sessions.Create(context.Background(), "player-1")
	s.Require().NoError(err)
	s.session = sess
	s.model = New(sess, s.app.Rules)
}

func (s *ModelSuite) press(msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = s.model.Update(msg)
		s.model = next.(Model)
	}
	return cmd
}

func runes(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func (s *ModelSuite) start() {
	s.press(enter)
	s.Require().Equal(model.StatusPlaying, s.model.Snapshot().Status)
}

func (s *ModelSuite) TestEnterStartsReadySession() {
	s.Equal(model.StatusReady, s.model.Snapshot().Status)
	s.Contains(s.model.View(), "Press space to start")

	s.start()

	s.Equal(model.StatusPlaying, s.session.Status())
}

func (s *ModelSuite) TestCursorStaysOnGrid() {
	s.start()

	s.press(tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft})
	s.Equal(model.Position{Row: 0, Col: 0}, s.model.Cursor())

	s.press(tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	s.Equal(model.Position{Row: 1, Col: 2}, s.model.Cursor())

	size := s.app.Rules.GridSize
	for i := 0; i < size+2; i++ {
		s.press(tea.KeyMsg{Type: tea.KeyDown})
	}
	s.Equal(size-1, s.model.Cursor().Row)
}

func (s *ModelSuite) TestSwapThroughKeyboard() {
	s.start()
	move, err := s.app.BotService.Hint(s.session, model.BotStrategyGreedy)
	s.Require().NoError(err)

	s.model.cursor = move.From
	s.press(enter)
	s.Require().NotNil(s.model.Snapshot().Selection)
	s.Equal(move.From, *s.model.Snapshot().Selection)

	s.model.cursor = move.To
	s.press(enter)

	snap := s.model.Snapshot()
	s.Nil(snap.Selection)
	s.Equal(1, snap.MovesMade)
	s.Positive(snap.Score)
	s.Contains(s.model.View(), "points")
}

func (s *ModelSuite) TestEscapeClearsSelection() {
	s.start()

	s.press(enter)
	s.Require().NotNil(s.model.Snapshot().Selection)

	s.press(tea.KeyMsg{Type: tea.KeyEsc})
	s.Nil(s.model.Snapshot().Selection)
}

func (s *ModelSuite) TestNumberKeysArmBoosters() {
	s.start()

	s.press(runes("2"))
	s.Equal(model.BoosterHammer, s.model.Snapshot().ActiveBooster)
	s.Contains(s.model.View(), "hammer armed")

	s.press(runes("2"))
	s.Empty(s.model.Snapshot().ActiveBooster)

	s.press(runes("4"))
	s.Empty(s.model.Snapshot().ActiveBooster)
	s.ErrorIs(s.model.err, model.ErrInsufficientBoosterCharges)
	s.Contains(s.model.View(), "No charges left")
}

func (s *ModelSuite) TestPauseToggles() {
	s.start()

	s.press(runes("p"))
	s.Equal(model.StatusPaused, s.session.Status())
	s.Contains(s.model.View(), "PAUSED")

	s.press(runes("p"))
	s.Equal(model.StatusPlaying, s.session.Status())
}

func (s *ModelSuite) TestInvalidActionShowsError() {
	s.start()

	s.press(runes("n"))

	s.ErrorIs(s.model.err, model.ErrInvalidStateForAction)
	s.Contains(s.model.View(), "Not now")
	s.Equal(1, s.model.Snapshot().Level)

	// The next key press clears the error
	s.press(tea.KeyMsg{Type: tea.KeyRight})
	s.NoError(s.model.err)
}

func (s *ModelSuite) TestRestartResetsMoves() {
	s.start()
	move, err := s.app.BotService.Hint(s.session, model.BotStrategyGreedy)
	s.Require().NoError(err)
	_, err = s.session.ActivateCell(move.From)
	s.Require().NoError(err)
	_, err = s.session.ActivateCell(move.To)
	s.Require().NoError(err)

	s.press(runes("r"))

	s.Equal(s.app.Rules.MoveLimit, s.model.Snapshot().MovesLeft)
	s.Equal(0, s.model.Snapshot().MovesMade)
}

func (s *ModelSuite) TestQuit() {
	cmd := s.press(runes("q"))

	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())
}

func (s *ModelSuite) TestViewShowsHUD() {
	s.start()

	view := s.model.View()

	s.Contains(view, "Color Match Frenzy")
	s.Contains(view, "Level")
	s.Contains(view, "Moves")
	s.Contains(view, "1:lightning x2")
}
