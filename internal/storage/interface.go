package storage

import (
	"context"

	"github.com/mcoot/colormatch/internal/model"
)

// Storage defines the interface for data persistence.
// Live session grids are held by the session manager and never stored.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Stats operations; GetStats returns zero stats for an unknown player
	GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
	SaveStats(ctx context.Context, stats *model.PlayerStats) error

	// Leaderboard operations; SubmitScore keeps each player's best
	SubmitScore(ctx context.Context, playerID model.PlayerID, score int) error
	TopScores(ctx context.Context, limit int) ([]model.ScoreEntry, error)
	GetScore(ctx context.Context, playerID model.PlayerID) (score int, found bool, err error)

	// Achievement operations
	UnlockAchievement(ctx context.Context, playerID model.PlayerID, id model.AchievementID) (newlyUnlocked bool, err error)
	GetAchievements(ctx context.Context, playerID model.PlayerID) ([]model.AchievementID, error)

	// Friend operations; friendships are stored in both directions
	AddFriend(ctx context.Context, playerID, friendID model.PlayerID) error
	GetFriends(ctx context.Context, playerID model.PlayerID) ([]model.PlayerID, error)

	// Challenge operations, newest first
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallenges(ctx context.Context, playerID model.PlayerID) ([]*model.Challenge, error)

	// Result operations, newest first
	SaveResult(ctx context.Context, result *model.GameResult) error
	GetResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error)
}
