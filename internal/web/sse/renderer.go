package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/web/templates/components"
)

// RenderGame renders the swappable game region for a snapshot
func RenderGame(ctx context.Context, snap model.SessionSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := components.Game(snap).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// EncodeEvent renders a session event as the JSON sent to stream clients
func EncodeEvent(event model.Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
