package handler

import (
	"net/http"

	"github.com/mcoot/colormatch/internal/api/middleware"
	"github.com/mcoot/colormatch/internal/api/request"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/services/auth"
)

// PlayerHandler serves sign-up, sign-in and the current player's profile.
type PlayerHandler struct {
	authService *auth.Service
}

func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{authService: authService}
}

// issueToken answers an auth endpoint with the new login or the error.
func issueToken(w http.ResponseWriter, status int, login *auth.Session, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(login))
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	login, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	issueToken(w, http.StatusCreated, login, err)
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	login, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	issueToken(w, http.StatusCreated, login, err)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	login, err := h.authService.Login(r.Context(), req.Username, req.Password)
	issueToken(w, http.StatusOK, login, err)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PlayerFromModel(middleware.MustGetPlayer(r.Context())))
}

// UpdateMe handles PATCH /api/v1/players/me. The rename also shows on
// leaderboards, which read display names at query time.
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateMeRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.authService.UpdateDisplayName(r.Context(), middleware.GetSession(r.Context()).Token, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.InvalidateSession(middleware.GetSession(r.Context()).Token)
	response.NoContent(w)
}
