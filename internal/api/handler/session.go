package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/colormatch/internal/api/middleware"
	"github.com/mcoot/colormatch/internal/api/request"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/bot"
	"github.com/mcoot/colormatch/internal/services/session"
)

// DefaultAutoplayMoves applies when an autoplay request names no move count
const DefaultAutoplayMoves = 10

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessions   *session.Manager
	botService *bot.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, botService *bot.Service) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		botService: botService,
	}
}

// load returns the session named in the path if the caller owns it
func (h *SessionHandler) load(r *http.Request) (*session.Session, error) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])
	return h.sessions.GetForPlayer(id, player.ID)
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	sess, err := h.sessions.Create(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, sess.Snapshot())
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	sessions := h.sessions.ListForPlayer(player.ID)
	resp := response.SessionList{Sessions: make([]response.Session, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, sess.Snapshot())
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.sessions.Remove(sess.ID()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// transition runs a state-only operation and responds with the new snapshot
func (h *SessionHandler) transition(op func(*session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.load(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := op(sess); err != nil {
			WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, sess.Snapshot())
	}
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).StartLevel)(w, r)
}

// Pause handles POST /api/v1/sessions/{id}/pause
func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).Pause)(w, r)
}

// Resume handles POST /api/v1/sessions/{id}/resume
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).Resume)(w, r)
}

// NextLevel handles POST /api/v1/sessions/{id}/next-level
func (h *SessionHandler) NextLevel(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).NextLevel)(w, r)
}

// Restart handles POST /api/v1/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).RestartLevel)(w, r)
}

// Disarm handles DELETE /api/v1/sessions/{id}/booster
func (h *SessionHandler) Disarm(w http.ResponseWriter, r *http.Request) {
	h.transition((*session.Session).DisarmBooster)(w, r)
}

// Continue handles POST /api/v1/sessions/{id}/continue
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	var req request.ContinueRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	h.transition(func(sess *session.Session) error {
		return sess.Continue(model.ContinueReason(req.Reason))
	})(w, r)
}

// Activate handles POST /api/v1/sessions/{id}/activate
func (h *SessionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req request.ActivateRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Row == nil || req.Col == nil {
		WriteError(w, NewInvalidRequestError("row and col are required"))
		return
	}

	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	outcome, err := sess.ActivateCell(model.Position{Row: *req.Row, Col: *req.Col})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActivateResponse{
		Outcome: *outcome,
		Session: sess.Snapshot(),
	})
}

// Arm handles POST /api/v1/sessions/{id}/booster
func (h *SessionHandler) Arm(w http.ResponseWriter, r *http.Request) {
	var req request.ArmBoosterRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	kind, err := model.ParseBoosterKind(req.Booster)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	armed, err := sess.ArmBooster(kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ArmBoosterResponse{
		Armed:   armed,
		Session: sess.Snapshot(),
	})
}

func botRequest(r *http.Request) (request.BotRequest, error) {
	var req request.BotRequest
	if err := decodeBody(r, &req, true); err != nil {
		return req, err
	}
	if req.Strategy == "" {
		req.Strategy = model.DefaultBotStrategy
	}
	return req, nil
}

// Hint handles POST /api/v1/sessions/{id}/hint
func (h *SessionHandler) Hint(w http.ResponseWriter, r *http.Request) {
	req, err := botRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	move, err := h.botService.Hint(sess, req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintResponse{Strategy: req.Strategy, Move: move})
}

// Autoplay handles POST /api/v1/sessions/{id}/autoplay
func (h *SessionHandler) Autoplay(w http.ResponseWriter, r *http.Request) {
	req, err := botRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.MaxMoves <= 0 {
		req.MaxMoves = DefaultAutoplayMoves
	}

	sess, err := h.load(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	actions, err := h.botService.Autoplay(r.Context(), sess, req.Strategy, req.MaxMoves)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AutoplayFromActions(req.Strategy, actions, sess.Snapshot()))
}
