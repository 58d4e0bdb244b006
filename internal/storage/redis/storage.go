package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	if ttl > 0 {
		return s.client.Set(ctx, key, data, ttl).Err()
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	data, err := s.client.Get(ctx, statsKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &model.PlayerStats{PlayerID: playerID}, nil
		}
		return nil, err
	}

	var stats model.PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsKey(stats.PlayerID), data, 0).Err()
}

// Leaderboard operations

func (s *Storage) SubmitScore(ctx context.Context, playerID model.PlayerID, score int) error {
	// GT only ever raises an existing member's score
	return s.client.ZAddArgs(ctx, leaderboardKey(), redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: string(playerID)}},
	}).Err()
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	members, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ScoreEntry, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, model.ScoreEntry{PlayerID: model.PlayerID(id), Score: int(m.Score)})
	}
	return entries, nil
}

func (s *Storage) GetScore(ctx context.Context, playerID model.PlayerID) (int, bool, error) {
	score, err := s.client.ZScore(ctx, leaderboardKey(), string(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return int(score), true, nil
}

// Achievement operations

func (s *Storage) UnlockAchievement(ctx context.Context, playerID model.PlayerID, id model.AchievementID) (bool, error) {
	added, err := s.client.SAdd(ctx, achievementsKey(playerID), string(id)).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

func (s *Storage) GetAchievements(ctx context.Context, playerID model.PlayerID) ([]model.AchievementID, error) {
	members, err := s.client.SMembers(ctx, achievementsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	sort.Strings(members)
	ids := make([]model.AchievementID, len(members))
	for i, m := range members {
		ids[i] = model.AchievementID(m)
	}
	return ids, nil
}

// Friend operations

func (s *Storage) AddFriend(ctx context.Context, playerID, friendID model.PlayerID) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, friendsKey(playerID), string(friendID))
	pipe.SAdd(ctx, friendsKey(friendID), string(playerID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetFriends(ctx context.Context, playerID model.PlayerID) ([]model.PlayerID, error) {
	members, err := s.client.SMembers(ctx, friendsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	sort.Strings(members)
	ids := make([]model.PlayerID, len(members))
	for i, m := range members {
		ids[i] = model.PlayerID(m)
	}
	return ids, nil
}

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return err
	}

	key := challengesKey(challenge.To)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.ChallengeLimit > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.ChallengeLimit-1))
	}
	if s.cfg.ChallengeTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.ChallengeTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetChallenges(ctx context.Context, playerID model.PlayerID) ([]*model.Challenge, error) {
	values, err := s.client.LRange(ctx, challengesKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	challenges := make([]*model.Challenge, 0, len(values))
	for _, val := range values {
		var c model.Challenge
		if err := json.Unmarshal([]byte(val), &c); err != nil {
			continue // Skip invalid data
		}
		challenges = append(challenges, &c)
	}
	return challenges, nil
}

// Result operations

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := resultsKey(result.PlayerID)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.ResultHistoryLimit > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.ResultHistoryLimit-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	values, err := s.client.LRange(ctx, resultsKey(playerID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.GameResult, 0, len(values))
	for _, val := range values {
		var r model.GameResult
		if err := json.Unmarshal([]byte(val), &r); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &r)
	}
	return results, nil
}
