package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/services/social"
	"github.com/mcoot/colormatch/internal/web/middleware"
	"github.com/mcoot/colormatch/internal/web/templates/layout"
	"github.com/mcoot/colormatch/internal/web/templates/pages"
)

// HomeLeaderboardSize is how many scores the home page shows
const HomeLeaderboardSize = 10

// HomeHandler handles the home page
type HomeHandler struct {
	sessions *session.Manager
	platform social.Platform
	logger   *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(sessions *session.Manager, platform social.Platform, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		sessions: sessions,
		platform: platform,
		logger:   logger.With(slog.String("component", "web-home")),
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	var snapshots []model.SessionSnapshot
	if player != nil {
		for _, sess := range h.sessions.ListForPlayer(player.ID) {
			snapshots = append(snapshots, sess.Snapshot())
		}
	}

	// A leaderboard outage should not take the home page down
	leaderboard, err := h.platform.GlobalLeaderboard(r.Context(), HomeLeaderboardSize)
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.String("error", err.Error()))
	}

	render(w, r, http.StatusOK, pages.Home(pages.HomeData{
		PageData: layout.PageData{
			Title:  "Home",
			Player: player,
			Flash:  middleware.GetFlash(r.Context()),
		},
		Next:        r.URL.Query().Get("next"),
		Sessions:    snapshots,
		Leaderboard: leaderboard,
	}))
}
