package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/colormatch/internal/api/middleware"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/web/sse"
)

const (
	// Time allowed to write a message to the peer
	wsWriteWait = 10 * time.Second
	// Time allowed between pongs from the peer
	wsPongWait = 60 * time.Second
	// Ping interval; must be shorter than wsPongWait
	wsPingPeriod = 50 * time.Second
)

// SnapshotMessage is the first message on a stream, carrying the current state
type SnapshotMessage struct {
	Type    string                `json:"type"`
	Payload model.SessionSnapshot `json:"payload"`
}

// StreamHandler serves session events over websockets
type StreamHandler struct {
	sessions   *session.Manager
	hubManager *sse.HubManager
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(sessions *session.Manager, hubManager *sse.HubManager, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		sessions:   sessions,
		hubManager: hubManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws-stream")),
	}
}

// Stream handles GET /api/v1/sessions/{id}/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	sess, err := h.loadSession(r, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	hub := h.hubManager.GetOrCreateHub(sess.ID())
	client := sse.NewClient(hub, player.ID)
	hub.Register(client)
	defer hub.Unregister(client)

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(SnapshotMessage{Type: "snapshot", Payload: sess.Snapshot()}); err != nil {
		return
	}

	// The read pump only detects disconnects and answers pongs
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
				return
			}
			if msg.HTML {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Data)); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return
		}
	}
}

func (h *StreamHandler) loadSession(r *http.Request, playerID model.PlayerID) (*session.Session, error) {
	id := model.SessionID(mux.Vars(r)["id"])
	return h.sessions.GetForPlayer(id, playerID)
}
