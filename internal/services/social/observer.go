package social

import (
	"context"
	"log/slog"

	"github.com/mcoot/colormatch/internal/model"
)

// Observe updates stats, results, the leaderboard and achievements from a session event
func (s *Service) Observe(ctx context.Context, event model.Event) error {
	switch payload := event.Payload.(type) {
	case model.SessionUpdatedPayload:
		return s.observeUpdate(ctx, event.PlayerID, payload)
	case model.LevelCompletePayload:
		return s.observeResult(ctx, event, model.StatusLevelComplete, payload.Level, payload.Score)
	case model.GameOverPayload:
		return s.observeResult(ctx, event, model.StatusGameOver, payload.Level, payload.Score)
	}
	return nil
}

// Listener adapts Observe to a session event listener, logging failures
func (s *Service) Listener(ctx context.Context) func(model.Event) {
	return func(event model.Event) {
		if err := s.Observe(ctx, event); err != nil {
			s.logger.Error("failed to record session event",
				slog.String("session_id", string(event.SessionID)),
				slog.String("event", string(event.Type)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) observeUpdate(ctx context.Context, playerID model.PlayerID, payload model.SessionUpdatedPayload) error {
	if payload.Cause != model.CauseSwap && payload.Cause != model.CauseBooster {
		return nil
	}

	groups := 0
	for _, pass := range payload.Passes {
		for _, group := range pass.Matches {
			if !group.Forced {
				groups++
			}
		}
	}
	if groups > 0 {
		if _, err := s.UnlockAchievement(ctx, playerID, model.AchievementFirstMatch); err != nil {
			return err
		}
	}
	if groups >= ComboMasterGroups {
		if _, err := s.UnlockAchievement(ctx, playerID, model.AchievementComboMaster); err != nil {
			return err
		}
	}

	if payload.Cause == model.CauseBooster && payload.Booster != "" {
		if err := s.recordBooster(ctx, playerID, payload.Booster); err != nil {
			return err
		}
	}

	_, err := s.unlockForProgress(ctx, playerID, payload.Snapshot.Score, payload.Snapshot.Level)
	return err
}

func (s *Service) recordBooster(ctx context.Context, playerID model.PlayerID, kind model.BoosterKind) error {
	stats, err := s.updateStats(ctx, playerID, func(stats *model.PlayerStats) bool {
		if stats.UsedBooster(kind) {
			return false
		}
		stats.BoostersUsed = append(stats.BoostersUsed, kind)
		return true
	})
	if err != nil {
		return err
	}

	for _, k := range model.AllBoosterKinds() {
		if !stats.UsedBooster(k) {
			return nil
		}
	}
	_, err = s.UnlockAchievement(ctx, playerID, model.AchievementAllBoosters)
	return err
}

func (s *Service) observeResult(ctx context.Context, event model.Event, status model.SessionStatus, level, score int) error {
	result := &model.GameResult{
		SessionID:   event.SessionID,
		PlayerID:    event.PlayerID,
		Level:       level,
		Score:       score,
		Status:      status,
		CompletedAt: event.Timestamp,
	}
	if err := s.storage.SaveResult(ctx, result); err != nil {
		return err
	}

	_, err := s.updateStats(ctx, event.PlayerID, func(stats *model.PlayerStats) bool {
		if status == model.StatusLevelComplete {
			stats.LevelsCompleted++
		} else {
			stats.GamesPlayed++
		}
		stats.MaxLevel = max(stats.MaxLevel, level)
		stats.HighScore = max(stats.HighScore, score)
		return true
	})
	if err != nil {
		return err
	}

	return s.storage.SubmitScore(ctx, event.PlayerID, score)
}

// unlockForProgress unlocks the level and score milestones, returning how many were new
func (s *Service) unlockForProgress(ctx context.Context, playerID model.PlayerID, score, level int) (int, error) {
	unlocked := 0
	check := func(reached bool, id model.AchievementID) error {
		if !reached {
			return nil
		}
		newly, err := s.UnlockAchievement(ctx, playerID, id)
		if newly {
			unlocked++
		}
		return err
	}

	if err := check(level >= Level10, model.AchievementLevel10); err != nil {
		return unlocked, err
	}
	if err := check(score >= Score10000, model.AchievementScore10000); err != nil {
		return unlocked, err
	}
	return unlocked, nil
}
