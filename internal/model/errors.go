package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound       = errors.New("session not found")
	ErrInvalidStateForAction = errors.New("action not allowed in current session state")
	ErrInvalidCoordinate     = errors.New("coordinate is outside the grid")
	ErrInvalidContinue       = errors.New("unknown continue reason")

	// Booster errors
	ErrUnknownBooster             = errors.New("unknown booster")
	ErrInsufficientBoosterCharges = errors.New("no booster charges remaining")

	// Grid errors
	ErrInvalidGridSize = errors.New("grid size too small")
	ErrInvalidColors   = errors.New("color count too small")
	ErrGridUnstable    = errors.New("grid did not stabilise")

	// Bot errors
	ErrUnknownStrategy  = errors.New("unknown bot strategy")
	ErrNoMovesAvailable = errors.New("no swap produces a match")

	// Social errors
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrSelfFriend         = errors.New("cannot befriend yourself")
)
