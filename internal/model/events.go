package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventSessionUpdated EventType = "session_updated"
	EventLevelComplete  EventType = "level_complete"
	EventGameOver       EventType = "game_over"
)

// Event is published after every committed session mutation
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"`
	PlayerID  PlayerID  `json:"player_id"`
	Payload   any       `json:"payload"`
}

// UpdateCause names the operation behind a session_updated event
type UpdateCause string

const (
	CauseStarted   UpdateCause = "started"
	CauseSelection UpdateCause = "selection"
	CauseSwap      UpdateCause = "swap"
	CauseBooster   UpdateCause = "booster"
	CauseArmed     UpdateCause = "armed"
	CausePaused    UpdateCause = "paused"
	CauseResumed   UpdateCause = "resumed"
	CauseNextLevel UpdateCause = "next_level"
	CauseRestart   UpdateCause = "restart"
	CauseContinue  UpdateCause = "continue"
)

// SessionUpdatedPayload carries everything needed to re-render a session
type SessionUpdatedPayload struct {
	Cause    UpdateCause     `json:"cause"`
	Snapshot SessionSnapshot `json:"snapshot"`
	Changed  []Position      `json:"changed,omitempty"`
	Passes   []CascadePass   `json:"passes,omitempty"`
	Booster  BoosterKind     `json:"booster,omitempty"`
}

// LevelCompletePayload contains data for level complete events
type LevelCompletePayload struct {
	Level        int `json:"level"`
	Score        int `json:"score"`
	GoalProgress int `json:"goal_progress"`
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Level        int `json:"level"`
	Score        int `json:"score"`
	GoalProgress int `json:"goal_progress"`
}
