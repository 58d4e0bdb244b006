package social

import (
	"sync"

	"github.com/mcoot/colormatch/internal/model"
)

func (s *ServiceSuite) updateEvent(payload model.SessionUpdatedPayload) model.Event {
	return model.Event{
		Type:      model.EventSessionUpdated,
		Timestamp: s.clock.Now(),
		SessionID: "SESSION1",
		PlayerID:  "alice",
		Payload:   payload,
	}
}

func groups(n int, forced bool) []model.MatchGroup {
	out := make([]model.MatchGroup, n)
	for i := range out {
		out[i] = model.MatchGroup{Forced: forced}
	}
	return out
}

func (s *ServiceSuite) unlocked() []model.AchievementID {
	ids, err := s.storage.GetAchievements(s.ctx, "alice")
	s.Require().NoError(err)
	return ids
}

func (s *ServiceSuite) TestObserveSwapUnlocksFirstMatch() {
	err := s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
		Cause:  model.CauseSwap,
		Passes: []model.CascadePass{{Matches: groups(1, false)}},
	}))
	s.Require().NoError(err)

	s.Equal([]model.AchievementID{model.AchievementFirstMatch}, s.unlocked())
}

func (s *ServiceSuite) TestObserveComboAcrossPasses() {
	err := s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
		Cause: model.CauseSwap,
		Passes: []model.CascadePass{
			{Matches: groups(2, false)},
			{Matches: groups(2, false)},
			{Matches: groups(1, false)},
		},
	}))
	s.Require().NoError(err)

	s.ElementsMatch([]model.AchievementID{model.AchievementFirstMatch, model.AchievementComboMaster}, s.unlocked())
}

func (s *ServiceSuite) TestObserveForcedGroupsAreNotMatches() {
	err := s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
		Cause:   model.CauseBooster,
		Booster: model.BoosterHammer,
		Passes:  []model.CascadePass{{Matches: groups(1, true)}},
	}))
	s.Require().NoError(err)

	s.Empty(s.unlocked())
	stats, err := s.service.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.BoosterKind{model.BoosterHammer}, stats.BoostersUsed)
}

func (s *ServiceSuite) TestObserveIgnoresNonMoveUpdates() {
	err := s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
		Cause:    model.CausePaused,
		Snapshot: model.SessionSnapshot{Level: 12, Score: 20000},
	}))
	s.Require().NoError(err)

	s.Empty(s.unlocked())
}

func (s *ServiceSuite) TestObserveAllBoosters() {
	for _, kind := range model.AllBoosterKinds() {
		s.Require().NoError(s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
			Cause:   model.CauseBooster,
			Booster: kind,
		})))
		// Repeats must not duplicate
		s.Require().NoError(s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
			Cause:   model.CauseBooster,
			Booster: kind,
		})))
	}

	stats, err := s.service.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(stats.BoostersUsed, len(model.AllBoosterKinds()))
	s.Contains(s.unlocked(), model.AchievementAllBoosters)
}

func (s *ServiceSuite) TestObserveSnapshotMilestones() {
	err := s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
		Cause:    model.CauseSwap,
		Snapshot: model.SessionSnapshot{Level: 10, Score: 9999},
	}))
	s.Require().NoError(err)

	s.Equal([]model.AchievementID{model.AchievementLevel10}, s.unlocked())
}

func (s *ServiceSuite) TestObserveLevelCompleteRecordsResult() {
	event := model.Event{
		Type:      model.EventLevelComplete,
		Timestamp: s.clock.Now(),
		SessionID: "SESSION1",
		PlayerID:  "alice",
		Payload:   model.LevelCompletePayload{Level: 2, Score: 1500, GoalProgress: 100},
	}
	s.Require().NoError(s.service.Observe(s.ctx, event))

	results, err := s.service.Results(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(model.StatusLevelComplete, results[0].Status)
	s.Equal(1500, results[0].Score)

	stats, err := s.service.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.LevelsCompleted)
	s.Equal(0, stats.GamesPlayed)
	s.Equal(2, stats.MaxLevel)
	s.Equal(1500, stats.HighScore)

	board, err := s.service.GlobalLeaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(1500, board[0].Score)
}

func (s *ServiceSuite) TestObserveGameOverCountsGame() {
	listener := s.service.Listener(s.ctx)
	listener(model.Event{
		Type:      model.EventGameOver,
		Timestamp: s.clock.Now(),
		SessionID: "SESSION1",
		PlayerID:  "alice",
		Payload:   model.GameOverPayload{Level: 3, Score: 2100, GoalProgress: 70},
	})

	stats, err := s.service.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.GamesPlayed)
	s.Equal(3, stats.MaxLevel)
	s.Equal(2100, stats.HighScore)
}

func (s *ServiceSuite) TestConcurrentObserveKeepsEveryStatUpdate() {
	const rounds = 20
	kinds := model.AllBoosterKinds()

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		for _, kind := range kinds {
			wg.Add(1)
			go func(kind model.BoosterKind) {
				defer wg.Done()
				s.NoError(s.service.Observe(s.ctx, s.updateEvent(model.SessionUpdatedPayload{
					Cause:   model.CauseBooster,
					Booster: kind,
				})))
			}(kind)
		}
		wg.Add(1)
		go func(level int) {
			defer wg.Done()
			s.NoError(s.service.Observe(s.ctx, model.Event{
				Type:      model.EventLevelComplete,
				Timestamp: s.clock.Now(),
				SessionID: "SESSION1",
				PlayerID:  "alice",
				Payload:   model.LevelCompletePayload{Level: level, Score: level * 100},
			}))
		}(i + 1)
	}
	wg.Wait()

	stats, err := s.service.Stats(s.ctx, "alice")
	s.Require().NoError(err)
	s.ElementsMatch(kinds, stats.BoostersUsed)
	s.Equal(rounds, stats.LevelsCompleted)
	s.Equal(rounds, stats.MaxLevel)
	s.Equal(rounds*100, stats.HighScore)
	s.Contains(s.unlocked(), model.AchievementAllBoosters)
}
