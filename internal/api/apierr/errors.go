package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidCoordinate  = "INVALID_COORDINATE"
	CodeInvalidState       = "INVALID_STATE"
	CodeUnknownBooster     = "UNKNOWN_BOOSTER"
	CodeNoBoosterCharges   = "NO_BOOSTER_CHARGES"
	CodeInvalidContinue    = "INVALID_CONTINUE"
	CodeUnknownStrategy    = "UNKNOWN_STRATEGY"
	CodeNoMoves            = "NO_MOVES"
	CodeUnknownAchievement = "UNKNOWN_ACHIEVEMENT"
	CodeSelfFriend         = "SELF_FRIEND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Model errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrInvalidStateForAction):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Action not allowed in the session's current state"}}
	case errors.Is(err, model.ErrInvalidCoordinate):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCoordinate, "Coordinate is outside the grid"}}
	case errors.Is(err, model.ErrUnknownBooster):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownBooster, "Unknown booster"}}
	case errors.Is(err, model.ErrInsufficientBoosterCharges):
		return &httpError{http.StatusConflict, APIError{CodeNoBoosterCharges, "No charges left for that booster"}}
	case errors.Is(err, model.ErrInvalidContinue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidContinue, "Continue reason must be ad or share"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStrategy, "Unknown bot strategy"}}
	case errors.Is(err, model.ErrNoMovesAvailable):
		return &httpError{http.StatusConflict, APIError{CodeNoMoves, "No swap produces a match"}}
	case errors.Is(err, model.ErrUnknownAchievement):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownAchievement, "Unknown achievement"}}
	case errors.Is(err, model.ErrSelfFriend):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfFriend, "You cannot befriend yourself"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrDisplayNameRequired),
		errors.Is(err, auth.ErrDisplayNameTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
