package model

import "time"

// SessionID uniquely identifies a live game session
type SessionID string

// SessionStatus represents the current phase of a session
type SessionStatus string

const (
	StatusReady         SessionStatus = "ready"          // Created, waiting to start
	StatusPlaying       SessionStatus = "playing"        // Accepting cell activations
	StatusPaused        SessionStatus = "paused"         // Menu open
	StatusLevelComplete SessionStatus = "level_complete" // Goal reached, awaiting next level
	StatusGameOver      SessionStatus = "game_over"      // Out of moves
)

// BoosterKind names a single-use power-up
type BoosterKind string

const (
	BoosterLightning BoosterKind = "lightning" // Clear the activated row
	BoosterHammer    BoosterKind = "hammer"    // Clear one cell
	BoosterTarget    BoosterKind = "target"    // Swap any two cells
	BoosterStar      BoosterKind = "star"      // Flat score bonus
	BoosterBomb      BoosterKind = "bomb"      // Clear a 3x3 area
)

// AllBoosterKinds lists booster kinds in display order
func AllBoosterKinds() []BoosterKind {
	return []BoosterKind{BoosterLightning, BoosterHammer, BoosterTarget, BoosterStar, BoosterBomb}
}

// ParseBoosterKind validates a booster name
func ParseBoosterKind(s string) (BoosterKind, error) {
	for _, kind := range AllBoosterKinds() {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", ErrUnknownBooster
}

// BoosterInventory maps each booster kind to its remaining charges
type BoosterInventory map[BoosterKind]int

// Count returns the remaining charges for a kind
func (b BoosterInventory) Count(kind BoosterKind) int {
	return b[kind]
}

// Has returns true if at least one charge remains
func (b BoosterInventory) Has(kind BoosterKind) bool {
	return b[kind] > 0
}

// Clone returns an independent copy
func (b BoosterInventory) Clone() BoosterInventory {
	clone := make(BoosterInventory, len(b))
	for k, v := range b {
		clone[k] = v
	}
	return clone
}

// ContinueReason is how a player earned extra moves after running out
type ContinueReason string

const (
	ContinueAd    ContinueReason = "ad"
	ContinueShare ContinueReason = "share"
)

// SessionSnapshot is a read-only copy of a session's state
type SessionSnapshot struct {
	ID            SessionID        `json:"id"`
	PlayerID      PlayerID         `json:"player_id"`
	Level         int              `json:"level"`
	Score         int              `json:"score"`
	MovesMade     int              `json:"moves_made"`
	MovesLeft     int              `json:"moves_left"`
	GoalProgress  int              `json:"goal_progress"`
	Status        SessionStatus    `json:"status"`
	Boosters      BoosterInventory `json:"boosters"`
	ActiveBooster BoosterKind      `json:"active_booster,omitempty"`
	Selection     *Position        `json:"selection,omitempty"`
	Grid          [][]Tile         `json:"grid"`
}

// ActivationKind describes what a cell activation did
type ActivationKind string

const (
	ActivationSelected     ActivationKind = "selected"      // First cell of a swap picked
	ActivationReselected   ActivationKind = "reselected"    // Non-adjacent cell replaced the selection
	ActivationSwapRejected ActivationKind = "swap_rejected" // Swap produced no match and was reverted
	ActivationSwapped      ActivationKind = "swapped"       // Swap committed and resolved
	ActivationTargetPicked ActivationKind = "target_picked" // First cell of a target booster picked
	ActivationTargetReset  ActivationKind = "target_reset"  // Target booster's first cell activated again
	ActivationBooster      ActivationKind = "booster"       // Booster applied
)

// Outcome reports the effect of one ActivateCell call
type Outcome struct {
	Kind         ActivationKind `json:"kind"`
	Booster      BoosterKind    `json:"booster,omitempty"`
	PointsGained int            `json:"points_gained"`
	Passes       []CascadePass  `json:"passes,omitempty"`
	Changed      []Position     `json:"changed,omitempty"`
}

// GameResult records how a level ended
type GameResult struct {
	SessionID   SessionID     `json:"session_id"`
	PlayerID    PlayerID      `json:"player_id"`
	Level       int           `json:"level"`
	Score       int           `json:"score"`
	Status      SessionStatus `json:"status"`
	CompletedAt time.Time     `json:"completed_at"`
}
