package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/web/middleware"
	"github.com/mcoot/colormatch/internal/web/sse"
	"github.com/mcoot/colormatch/internal/web/templates/components"
	"github.com/mcoot/colormatch/internal/web/templates/layout"
	"github.com/mcoot/colormatch/internal/web/templates/pages"
)

// SessionHandler serves the board page and its htmx actions
type SessionHandler struct {
	sessions   *session.Manager
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *session.Manager, hubManager *sse.HubManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "web-session")),
	}
}

func (h *SessionHandler) load(r *http.Request) (*session.Session, error) {
	player := middleware.GetPlayer(r.Context())
	return h.sessions.GetForPlayer(model.SessionID(mux.Vars(r)["id"]), player.ID)
}

// Create starts a new session and opens its board
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	sess, err := h.sessions.Create(r.Context(), player.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := sess.StartLevel(); err != nil {
		renderError(w, r, err)
		return
	}

	location := "/sessions/" + string(sess.ID())
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// View renders the board page
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, err := h.load(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	snap := sess.Snapshot()
	render(w, r, http.StatusOK, pages.Session(pages.SessionData{
		PageData: layout.PageData{
			Title:  "Level " + strconv.Itoa(snap.Level),
			Player: middleware.GetPlayer(r.Context()),
			Flash:  middleware.GetFlash(r.Context()),
		},
		Snapshot: snap,
	}))
}

// Events streams the session's updates over SSE
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess, err := h.load(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sess.ID())
	sse.ServeSSE(w, r, hub, middleware.GetPlayer(r.Context()).ID)
}

// Cell activates the cell at {row}/{col}
func (h *SessionHandler) Cell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	row, rowErr := strconv.Atoi(vars["row"])
	col, colErr := strconv.Atoi(vars["col"])
	if rowErr != nil || colErr != nil {
		renderError(w, r, model.ErrInvalidCoordinate)
		return
	}

	h.act(w, r, func(sess *session.Session) error {
		_, err := sess.ActivateCell(model.Position{Row: row, Col: col})
		return err
	})
}

// Booster arms or disarms the booster named by {kind}
func (h *SessionHandler) Booster(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseBoosterKind(mux.Vars(r)["kind"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	h.act(w, r, func(sess *session.Session) error {
		_, err := sess.ArmBooster(kind)
		return err
	})
}

// Control runs the menu action named by {action}
func (h *SessionHandler) Control(w http.ResponseWriter, r *http.Request) {
	var op func(*session.Session) error
	switch mux.Vars(r)["action"] {
	case "start":
		op = (*session.Session).StartLevel
	case "pause":
		op = (*session.Session).Pause
	case "resume":
		op = (*session.Session).Resume
	case "restart":
		op = (*session.Session).RestartLevel
	case "next":
		op = (*session.Session).NextLevel
	default:
		http.NotFound(w, r)
		return
	}
	h.act(w, r, op)
}

// Continue grants extra moves for the reason named by {reason}
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	reason := model.ContinueReason(mux.Vars(r)["reason"])
	h.act(w, r, func(sess *session.Session) error {
		return sess.Continue(reason)
	})
}

// act runs op and answers with the re-rendered game region
func (h *SessionHandler) act(w http.ResponseWriter, r *http.Request, op func(*session.Session) error) {
	sess, err := h.load(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := op(sess); err != nil {
		h.logger.Debug("session action rejected",
			slog.String("session_id", string(sess.ID())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		renderError(w, r, err)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/sessions/"+string(sess.ID()), http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, components.Game(sess.Snapshot()))
}
