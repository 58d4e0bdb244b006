package request

import "errors"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r RegisterRequest) Validate() error {
	switch {
	case r.Username == "":
		return errors.New("username is required")
	case r.Password == "":
		return errors.New("password is required")
	}
	return nil
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

// UpdateMeRequest is the request body for renaming the current player
type UpdateMeRequest struct {
	DisplayName string `json:"display_name"`
}

// ActivateRequest is the request body for activating a cell
type ActivateRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// ArmBoosterRequest is the request body for arming a booster
type ArmBoosterRequest struct {
	Booster string `json:"booster"`
}

// ContinueRequest is the request body for continuing after game over
type ContinueRequest struct {
	Reason string `json:"reason"`
}

// BotRequest is the optional request body for hint and autoplay
type BotRequest struct {
	Strategy string `json:"strategy,omitempty"`
	MaxMoves int    `json:"max_moves,omitempty"`
}

// AddFriendRequest is the request body for adding a friend
type AddFriendRequest struct {
	FriendID string `json:"friend_id"`
}

// ShareScoreRequest is the request body for sharing a score.
// A session id shares that session's score and level instead.
type ShareScoreRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Score     int    `json:"score,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// ChallengeRequest is the request body for challenging friends
type ChallengeRequest struct {
	Score int `json:"score"`
}
