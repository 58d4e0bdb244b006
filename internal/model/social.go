package model

import "time"

// AchievementID identifies an entry in the achievement catalogue
type AchievementID string

const (
	AchievementFirstMatch  AchievementID = "first_match"
	AchievementComboMaster AchievementID = "combo_master"
	AchievementLevel10     AchievementID = "level_10"
	AchievementScore10000  AchievementID = "score_10000"
	AchievementAllBoosters AchievementID = "all_boosters"
)

// Achievement is a catalogue entry with the player's unlock state
type Achievement struct {
	ID          AchievementID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Unlocked    bool          `json:"unlocked"`
}

// AchievementCatalogue returns every achievement, all locked
func AchievementCatalogue() []Achievement {
	return []Achievement{
		{ID: AchievementFirstMatch, Title: "First Match", Description: "Complete your first match"},
		{ID: AchievementComboMaster, Title: "Combo Master", Description: "Make a combo of 5 or more matches"},
		{ID: AchievementLevel10, Title: "Level 10", Description: "Reach level 10"},
		{ID: AchievementScore10000, Title: "Score 10,000", Description: "Score 10,000 points"},
		{ID: AchievementAllBoosters, Title: "Use All Boosters", Description: "Use all booster types"},
	}
}

// PlayerStats is the long-lived record kept per player
type PlayerStats struct {
	PlayerID        PlayerID      `json:"player_id"`
	HighScore       int           `json:"high_score"`
	MaxLevel        int           `json:"max_level"`
	GamesPlayed     int           `json:"games_played"`
	LevelsCompleted int           `json:"levels_completed"`
	BoostersUsed    []BoosterKind `json:"boosters_used"`
}

// UsedBooster returns true if the kind is already recorded
func (s *PlayerStats) UsedBooster(kind BoosterKind) bool {
	for _, k := range s.BoostersUsed {
		if k == kind {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one ranked row of a leaderboard
type LeaderboardEntry struct {
	Rank        int      `json:"rank"`
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Score       int      `json:"score"`
	Level       int      `json:"level"`
}

// ScoreEntry is a raw leaderboard record as stored
type ScoreEntry struct {
	PlayerID PlayerID
	Score    int
}

// Challenge is a score a friend has been dared to beat
type Challenge struct {
	From      PlayerID  `json:"from"`
	FromName  string    `json:"from_name"`
	To        PlayerID  `json:"to"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
