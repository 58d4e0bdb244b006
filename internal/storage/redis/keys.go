package redis

import (
	"fmt"

	"github.com/mcoot/colormatch/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "cmf"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// statsKey returns the Redis key for a player's PlayerStats
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}

// leaderboardKey returns the Redis key for the global best-score ZSET
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// achievementsKey returns the Redis key for the SET of a player's unlocked achievements
func achievementsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:achievements:%s", keyPrefix, playerID)
}

// friendsKey returns the Redis key for the SET of a player's friends
func friendsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:friends:%s", keyPrefix, playerID)
}

// challengesKey returns the Redis key for the LIST of challenges sent to a player
func challengesKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:challenges:%s", keyPrefix, playerID)
}

// resultsKey returns the Redis key for the LIST of a player's level results
func resultsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:results:%s", keyPrefix, playerID)
}
