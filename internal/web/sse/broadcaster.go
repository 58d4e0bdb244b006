package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/colormatch/internal/model"
)

// GameEvent is the SSE event name carrying the re-rendered game region
const GameEvent = "game"

// Broadcaster forwards session events to the hub of the session they belong to
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "stream-broadcaster")),
	}
}

// Publish is a session listener. Sessions nobody is watching are skipped.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	data, err := EncodeEvent(event)
	if err != nil {
		b.logger.Error("stream failed to encode event",
			slog.String("session_id", string(event.SessionID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), data)

	payload, ok := event.Payload.(model.SessionUpdatedPayload)
	if !ok {
		return
	}
	html, err := RenderGame(context.Background(), payload.Snapshot)
	if err != nil {
		b.logger.Error("stream failed to render game",
			slog.String("session_id", string(event.SessionID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastHTML(GameEvent, html)
}
