package handler

import (
	"net/http"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/social"
	"github.com/mcoot/colormatch/internal/web/middleware"
	"github.com/mcoot/colormatch/internal/web/templates/layout"
	"github.com/mcoot/colormatch/internal/web/templates/pages"
)

// LeaderboardHandler renders the leaderboard pages
type LeaderboardHandler struct {
	platform social.Platform
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(platform social.Platform) *LeaderboardHandler {
	return &LeaderboardHandler{platform: platform}
}

// Global renders the top scores
func (h *LeaderboardHandler) Global(w http.ResponseWriter, r *http.Request) {
	entries, err := h.platform.GlobalLeaderboard(r.Context(), social.DefaultLeaderboardLimit)
	h.page(w, r, "Top scores", entries, err)
}

// Friends renders the player's ranking among friends
func (h *LeaderboardHandler) Friends(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	entries, err := h.platform.FriendsLeaderboard(r.Context(), player.ID)
	h.page(w, r, "Friends", entries, err)
}

func (h *LeaderboardHandler) page(w http.ResponseWriter, r *http.Request, title string, entries []model.LeaderboardEntry, err error) {
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, pages.Leaderboard(pages.LeaderboardData{
		PageData: layout.PageData{
			Title:  title,
			Player: middleware.GetPlayer(r.Context()),
			Flash:  middleware.GetFlash(r.Context()),
		},
		Heading: title,
		Entries: entries,
	}))
}
