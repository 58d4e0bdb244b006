package response

import (
	"time"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/services/bot"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a login token
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Session is a game session in API responses
type Session = model.SessionSnapshot

// SessionList is the response for listing a player's sessions
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// ActivateResponse reports what a cell activation did and the state after it
type ActivateResponse struct {
	Outcome model.Outcome `json:"outcome"`
	Session Session       `json:"session"`
}

// ArmBoosterResponse reports whether a booster is now armed
type ArmBoosterResponse struct {
	Armed   bool    `json:"armed"`
	Session Session `json:"session"`
}

// HintResponse is the response for a hint request
type HintResponse struct {
	Strategy string     `json:"strategy"`
	Move     model.Move `json:"move"`
}

// AutoplayAction is one bot move and its effect
type AutoplayAction struct {
	Move         model.Move           `json:"move"`
	Kind         model.ActivationKind `json:"kind"`
	PointsGained int                  `json:"points_gained"`
}

// AutoplayResponse is the response for an autoplay request
type AutoplayResponse struct {
	Strategy string           `json:"strategy"`
	Actions  []AutoplayAction `json:"actions"`
	Session  Session          `json:"session"`
}

// AutoplayFromActions builds an AutoplayResponse
func AutoplayFromActions(strategy string, actions []bot.BotAction, snap model.SessionSnapshot) AutoplayResponse {
	resp := AutoplayResponse{
		Strategy: strategy,
		Actions:  make([]AutoplayAction, 0, len(actions)),
		Session:  snap,
	}
	for _, a := range actions {
		action := AutoplayAction{Move: a.Move}
		if a.Outcome != nil {
			action.Kind = a.Outcome.Kind
			action.PointsGained = a.Outcome.PointsGained
		}
		resp.Actions = append(resp.Actions, action)
	}
	return resp
}

// PlayerList is a list of players
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModels converts players
func PlayerListFromModels(players []*model.Player) PlayerList {
	list := PlayerList{Players: make([]Player, 0, len(players))}
	for _, p := range players {
		list.Players = append(list.Players, PlayerFromModel(p))
	}
	return list
}

// Leaderboard is a ranked list of scores
type Leaderboard struct {
	Entries []model.LeaderboardEntry `json:"entries"`
}

// CountResponse reports how many players an action reached
type CountResponse struct {
	Count int `json:"count"`
}

// ChallengeList is the response for listing challenges
type ChallengeList struct {
	Challenges []*model.Challenge `json:"challenges"`
}

// AchievementList is the response for listing achievements
type AchievementList struct {
	Achievements []model.Achievement `json:"achievements"`
}

// UnlockResponse reports whether an achievement unlock was new
type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}

// ResultList is the response for listing recent results
type ResultList struct {
	Results []*model.GameResult `json:"results"`
}

// Health is the health check response
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
