// Package social is the platform layer around the game: friends, leaderboards,
// sharing, challenges and achievements.
package social

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/colormatch/internal/dependencies/clock"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/storage"
)

const (
	// ComboMasterGroups is the number of match groups one activation needs for combo_master
	ComboMasterGroups = 5
	// Level10 is the level that unlocks level_10
	Level10 = 10
	// Score10000 is the score that unlocks score_10000
	Score10000 = 10000
	// DefaultLeaderboardLimit applies when a caller asks for a non-positive limit
	DefaultLeaderboardLimit = 10
	// RecentResultsLimit bounds result history reads
	RecentResultsLimit = 20
)

// Platform is what the game needs from a social platform
type Platform interface {
	Friends(ctx context.Context, playerID model.PlayerID) ([]*model.Player, error)
	AddFriend(ctx context.Context, playerID, friendID model.PlayerID) error
	ShareScore(ctx context.Context, playerID model.PlayerID, score, level int) error
	GlobalLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	FriendsLeaderboard(ctx context.Context, playerID model.PlayerID) ([]model.LeaderboardEntry, error)
	InviteFriends(ctx context.Context, playerID model.PlayerID) (int, error)
	ChallengeFriends(ctx context.Context, playerID model.PlayerID, score int) (int, error)
	Challenges(ctx context.Context, playerID model.PlayerID) ([]*model.Challenge, error)
	Achievements(ctx context.Context, playerID model.PlayerID) ([]model.Achievement, error)
	UnlockAchievement(ctx context.Context, playerID model.PlayerID, id model.AchievementID) (bool, error)
	Stats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
	Results(ctx context.Context, playerID model.PlayerID) ([]*model.GameResult, error)
}

// Service implements Platform over storage
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	statsLocks sync.Map // model.PlayerID -> *sync.Mutex
}

var _ Platform = (*Service)(nil)

// New creates a new social Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "social-service")),
	}
}

// Friends returns the player's friends, ordered by id
func (s *Service) Friends(ctx context.Context, playerID model.PlayerID) ([]*model.Player, error) {
	ids, err := s.storage.GetFriends(ctx, playerID)
	if err != nil {
		return nil, err
	}

	friends := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.storage.GetPlayer(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // Guest expired
			}
			return nil, err
		}
		friends = append(friends, player)
	}
	return friends, nil
}

// AddFriend links two existing players in both directions
func (s *Service) AddFriend(ctx context.Context, playerID, friendID model.PlayerID) error {
	if playerID == friendID {
		return model.ErrSelfFriend
	}
	if _, err := s.storage.GetPlayer(ctx, friendID); err != nil {
		return err
	}
	if err := s.storage.AddFriend(ctx, playerID, friendID); err != nil {
		return err
	}

	s.logger.Info("friend added",
		slog.String("player_id", string(playerID)),
		slog.String("friend_id", string(friendID)),
	)
	return nil
}

// ShareScore records a score on the player's stats and the leaderboard.
// Both only ever keep the best value.
func (s *Service) ShareScore(ctx context.Context, playerID model.PlayerID, score, level int) error {
	_, err := s.updateStats(ctx, playerID, func(stats *model.PlayerStats) bool {
		stats.HighScore = max(stats.HighScore, score)
		stats.MaxLevel = max(stats.MaxLevel, level)
		return true
	})
	if err != nil {
		return err
	}
	if err := s.storage.SubmitScore(ctx, playerID, score); err != nil {
		return err
	}

	_, err = s.unlockForProgress(ctx, playerID, score, level)
	return err
}

// GlobalLeaderboard returns the best scores across all players
func (s *Service) GlobalLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	scores, err := s.storage.TopScores(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, scores)
}

// FriendsLeaderboard ranks the player alongside their friends.
// Players who never scored are left out.
func (s *Service) FriendsLeaderboard(ctx context.Context, playerID model.PlayerID) ([]model.LeaderboardEntry, error) {
	friends, err := s.storage.GetFriends(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var scores []model.ScoreEntry
	for _, id := range append([]model.PlayerID{playerID}, friends...) {
		score, found, err := s.storage.GetScore(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			scores = append(scores, model.ScoreEntry{PlayerID: id, Score: score})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return s.rank(ctx, scores)
}

func (s *Service) rank(ctx context.Context, scores []model.ScoreEntry) ([]model.LeaderboardEntry, error) {
	entries := make([]model.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		entry := model.LeaderboardEntry{
			Rank:        i + 1,
			PlayerID:    score.PlayerID,
			DisplayName: string(score.PlayerID),
			Score:       score.Score,
		}

		player, err := s.storage.GetPlayer(ctx, score.PlayerID)
		switch {
		case err == nil:
			entry.DisplayName = player.DisplayName
		case !errors.Is(err, model.ErrPlayerNotFound):
			return nil, err
		}

		stats, err := s.storage.GetStats(ctx, score.PlayerID)
		if err != nil {
			return nil, err
		}
		entry.Level = stats.MaxLevel

		entries = append(entries, entry)
	}
	return entries, nil
}

// InviteFriends sends a play invite to every friend and reports how many were reached
func (s *Service) InviteFriends(ctx context.Context, playerID model.PlayerID) (int, error) {
	friends, err := s.storage.GetFriends(ctx, playerID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("friends invited",
		slog.String("player_id", string(playerID)),
		slog.Int("count", len(friends)),
	)
	return len(friends), nil
}

// ChallengeFriends dares every friend to beat the score
func (s *Service) ChallengeFriends(ctx context.Context, playerID model.PlayerID, score int) (int, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	friends, err := s.storage.GetFriends(ctx, playerID)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	for _, friendID := range friends {
		challenge := &model.Challenge{
			From:      playerID,
			FromName:  player.DisplayName,
			To:        friendID,
			Score:     score,
			CreatedAt: now,
		}
		if err := s.storage.SaveChallenge(ctx, challenge); err != nil {
			return 0, err
		}
	}

	s.logger.Info("friends challenged",
		slog.String("player_id", string(playerID)),
		slog.Int("score", score),
		slog.Int("count", len(friends)),
	)
	return len(friends), nil
}

// Challenges returns challenges sent to the player, newest first
func (s *Service) Challenges(ctx context.Context, playerID model.PlayerID) ([]*model.Challenge, error) {
	return s.storage.GetChallenges(ctx, playerID)
}

// Achievements returns the full catalogue with the player's unlock state
func (s *Service) Achievements(ctx context.Context, playerID model.PlayerID) ([]model.Achievement, error) {
	unlocked, err := s.storage.GetAchievements(ctx, playerID)
	if err != nil {
		return nil, err
	}

	have := make(map[model.AchievementID]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	catalogue := model.AchievementCatalogue()
	for i := range catalogue {
		catalogue[i].Unlocked = have[catalogue[i].ID]
	}
	return catalogue, nil
}

// UnlockAchievement unlocks a catalogue entry, reporting false if it was already unlocked
func (s *Service) UnlockAchievement(ctx context.Context, playerID model.PlayerID, id model.AchievementID) (bool, error) {
	if !knownAchievement(id) {
		return false, model.ErrUnknownAchievement
	}

	newly, err := s.storage.UnlockAchievement(ctx, playerID, id)
	if err != nil {
		return false, err
	}
	if newly {
		s.logger.Info("achievement unlocked",
			slog.String("player_id", string(playerID)),
			slog.String("achievement", string(id)),
		)
	}
	return newly, nil
}

// Stats returns the player's long-lived stats
func (s *Service) Stats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	return s.storage.GetStats(ctx, playerID)
}

// Results returns the player's most recent level results
func (s *Service) Results(ctx context.Context, playerID model.PlayerID) ([]*model.GameResult, error) {
	return s.storage.GetResults(ctx, playerID, RecentResultsLimit)
}

func knownAchievement(id model.AchievementID) bool {
	for _, a := range model.AchievementCatalogue() {
		if a.ID == id {
			return true
		}
	}
	return false
}

// updateStats applies change to the player's stats and saves them if it
// reports a modification. Updates for one player are serialized.
func (s *Service) updateStats(ctx context.Context, playerID model.PlayerID, change func(*model.PlayerStats) bool) (*model.PlayerStats, error) {
	lock, _ := s.statsLocks.LoadOrStore(playerID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	stats, err := s.storage.GetStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !change(stats) {
		return stats, nil
	}
	if err := s.storage.SaveStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}
