package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	stats             map[model.PlayerID]*model.PlayerStats
	scores            map[model.PlayerID]int
	achievements      map[model.PlayerID]map[model.AchievementID]bool
	friends           map[model.PlayerID]map[model.PlayerID]bool
	challenges        map[model.PlayerID][]*model.Challenge  // newest first
	results           map[model.PlayerID][]*model.GameResult // newest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		stats:             make(map[model.PlayerID]*model.PlayerStats),
		scores:            make(map[model.PlayerID]int),
		achievements:      make(map[model.PlayerID]map[model.AchievementID]bool),
		friends:           make(map[model.PlayerID]map[model.PlayerID]bool),
		challenges:        make(map[model.PlayerID][]*model.Challenge),
		results:           make(map[model.PlayerID][]*model.GameResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[playerID]
	if !ok {
		return &model.PlayerStats{PlayerID: playerID}, nil
	}
	clone := *stats
	clone.BoostersUsed = append([]model.BoosterKind(nil), stats.BoostersUsed...)
	return &clone, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *stats
	clone.BoostersUsed = append([]model.BoosterKind(nil), stats.BoostersUsed...)
	s.stats[stats.PlayerID] = &clone
	return nil
}

// Leaderboard operations

func (s *Storage) SubmitScore(ctx context.Context, playerID model.PlayerID, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.scores[playerID]; !ok || score > current {
		s.scores[playerID] = score
	}
	return nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	s.mu.RLock()
	entries := make([]model.ScoreEntry, 0, len(s.scores))
	for playerID, score := range s.scores {
		entries = append(entries, model.ScoreEntry{PlayerID: playerID, Score: score})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID > entries[j].PlayerID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Storage) GetScore(ctx context.Context, playerID model.PlayerID) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.scores[playerID]
	return score, ok, nil
}

// Achievement operations

func (s *Storage) UnlockAchievement(ctx context.Context, playerID model.PlayerID, id model.AchievementID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked, ok := s.achievements[playerID]
	if !ok {
		unlocked = make(map[model.AchievementID]bool)
		s.achievements[playerID] = unlocked
	}
	if unlocked[id] {
		return false, nil
	}
	unlocked[id] = true
	return true, nil
}

func (s *Storage) GetAchievements(ctx context.Context, playerID model.PlayerID) ([]model.AchievementID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.AchievementID, 0, len(s.achievements[playerID]))
	for id := range s.achievements[playerID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Friend operations

func (s *Storage) AddFriend(ctx context.Context, playerID, friendID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addFriendLocked(playerID, friendID)
	s.addFriendLocked(friendID, playerID)
	return nil
}

func (s *Storage) addFriendLocked(playerID, friendID model.PlayerID) {
	friends, ok := s.friends[playerID]
	if !ok {
		friends = make(map[model.PlayerID]bool)
		s.friends[playerID] = friends
	}
	friends[friendID] = true
}

func (s *Storage) GetFriends(ctx context.Context, playerID model.PlayerID) ([]model.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.PlayerID, 0, len(s.friends[playerID]))
	for id := range s.friends[playerID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.To] = append([]*model.Challenge{challenge}, s.challenges[challenge.To]...)
	return nil
}

func (s *Storage) GetChallenges(ctx context.Context, playerID model.PlayerID) ([]*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Challenge(nil), s.challenges[playerID]...), nil
}

// Result operations

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.PlayerID] = append([]*model.GameResult{result}, s.results[result.PlayerID]...)
	return nil
}

func (s *Storage) GetResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.results[playerID]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return append([]*model.GameResult(nil), results...), nil
}
