// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/storage"
)

// Suite runs the common storage tests against the backend built by NewStorage
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage
	Storage    storage.Storage
	Ctx        context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", CreatedAt: testTime}

	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", DisplayName: "Alice"}))

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestRegisteredPlayerLookup() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash", CreatedAt: testTime}

	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	byID, err := s.Storage.GetRegisteredPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Stats tests

func (s *Suite) TestGetStatsDefaultsToZero() {
	stats, err := s.Storage.GetStats(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), stats.PlayerID)
	s.Equal(0, stats.HighScore)
	s.Empty(stats.BoostersUsed)
}

func (s *Suite) TestSaveAndGetStats() {
	stats := &model.PlayerStats{
		PlayerID:     "player-1",
		HighScore:    1200,
		MaxLevel:     3,
		BoostersUsed: []model.BoosterKind{model.BoosterBomb},
	}
	s.Require().NoError(s.Storage.SaveStats(s.Ctx, stats))

	retrieved, err := s.Storage.GetStats(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(1200, retrieved.HighScore)
	s.Equal(3, retrieved.MaxLevel)
	s.Equal([]model.BoosterKind{model.BoosterBomb}, retrieved.BoostersUsed)
}

// Leaderboard tests

func (s *Suite) TestSubmitScoreKeepsBest() {
	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-1", 500))
	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-1", 300))

	score, found, err := s.Storage.GetScore(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(500, score)

	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-1", 900))
	score, _, err = s.Storage.GetScore(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(900, score)
}

func (s *Suite) TestGetScoreMissing() {
	_, found, err := s.Storage.GetScore(s.Ctx, "player-9")
	s.Require().NoError(err)
	s.False(found)
}

func (s *Suite) TestTopScoresOrderedAndLimited() {
	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-1", 100))
	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-2", 300))
	s.Require().NoError(s.Storage.SubmitScore(s.Ctx, "player-3", 200))

	top, err := s.Storage.TopScores(s.Ctx, 2)
	s.Require().NoError(err)

	s.Equal([]model.ScoreEntry{
		{PlayerID: "player-2", Score: 300},
		{PlayerID: "player-3", Score: 200},
	}, top)
}

// Achievement tests

func (s *Suite) TestUnlockAchievementOnce() {
	newly, err := s.Storage.UnlockAchievement(s.Ctx, "player-1", model.AchievementFirstMatch)
	s.Require().NoError(err)
	s.True(newly)

	newly, err = s.Storage.UnlockAchievement(s.Ctx, "player-1", model.AchievementFirstMatch)
	s.Require().NoError(err)
	s.False(newly)

	_, err = s.Storage.UnlockAchievement(s.Ctx, "player-1", model.AchievementLevel10)
	s.Require().NoError(err)

	ids, err := s.Storage.GetAchievements(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal([]model.AchievementID{model.AchievementFirstMatch, model.AchievementLevel10}, ids)
}

// Friend tests

func (s *Suite) TestAddFriendIsSymmetric() {
	s.Require().NoError(s.Storage.AddFriend(s.Ctx, "player-1", "player-2"))
	s.Require().NoError(s.Storage.AddFriend(s.Ctx, "player-1", "player-3"))

	friends, err := s.Storage.GetFriends(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"player-2", "player-3"}, friends)

	friends, err = s.Storage.GetFriends(s.Ctx, "player-2")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"player-1"}, friends)
}

func (s *Suite) TestGetFriendsEmpty() {
	friends, err := s.Storage.GetFriends(s.Ctx, "loner")
	s.Require().NoError(err)
	s.Empty(friends)
}

// Challenge tests

func (s *Suite) TestChallengesNewestFirst() {
	s.Require().NoError(s.Storage.SaveChallenge(s.Ctx, &model.Challenge{From: "player-1", To: "player-2", Score: 100, CreatedAt: testTime}))
	s.Require().NoError(s.Storage.SaveChallenge(s.Ctx, &model.Challenge{From: "player-3", To: "player-2", Score: 200, CreatedAt: testTime.Add(time.Minute)}))

	challenges, err := s.Storage.GetChallenges(s.Ctx, "player-2")
	s.Require().NoError(err)
	s.Require().Len(challenges, 2)
	s.Equal(model.PlayerID("player-3"), challenges[0].From)
	s.Equal(100, challenges[1].Score)

	none, err := s.Storage.GetChallenges(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(none)
}

// Result tests

func (s *Suite) TestResultsNewestFirstWithLimit() {
	for level := 1; level <= 3; level++ {
		s.Require().NoError(s.Storage.SaveResult(s.Ctx, &model.GameResult{
			SessionID:   "SESSION1",
			PlayerID:    "player-1",
			Level:       level,
			Score:       level * 100,
			Status:      model.StatusLevelComplete,
			CompletedAt: testTime,
		}))
	}

	results, err := s.Storage.GetResults(s.Ctx, "player-1", 2)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(3, results[0].Level)
	s.Equal(2, results[1].Level)
}
