package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/colormatch/internal/api/handler"
	"github.com/mcoot/colormatch/internal/api/middleware"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/services/bot"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/services/social"
	"github.com/mcoot/colormatch/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Sessions    *session.Manager
	BotService  *bot.Service
	Social      social.Platform
	HubManager  *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.Sessions, cfg.BotService)
	socialHandler := handler.NewSocialHandler(cfg.Social, cfg.Sessions)
	streamHandler := handler.NewStreamHandler(cfg.Sessions, cfg.HubManager, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/me", playerHandler.UpdateMe).Methods(http.MethodPatch)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("", sessionHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/pause", sessionHandler.Pause).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/resume", sessionHandler.Resume).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/next-level", sessionHandler.NextLevel).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/restart", sessionHandler.Restart).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/continue", sessionHandler.Continue).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/activate", sessionHandler.Activate).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/booster", sessionHandler.Arm).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/booster", sessionHandler.Disarm).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/hint", sessionHandler.Hint).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/autoplay", sessionHandler.Autoplay).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/stream", streamHandler.Stream).Methods(http.MethodGet)

	// Social routes (all require auth)
	socialRoutes := api.PathPrefix("/social").Subrouter()
	socialRoutes.Use(authMiddleware)
	socialRoutes.HandleFunc("/friends", socialHandler.Friends).Methods(http.MethodGet)
	socialRoutes.HandleFunc("/friends", socialHandler.AddFriend).Methods(http.MethodPost)
	socialRoutes.HandleFunc("/share", socialHandler.Share).Methods(http.MethodPost)
	socialRoutes.HandleFunc("/invite", socialHandler.Invite).Methods(http.MethodPost)
	socialRoutes.HandleFunc("/challenge", socialHandler.Challenge).Methods(http.MethodPost)
	socialRoutes.HandleFunc("/challenges", socialHandler.Challenges).Methods(http.MethodGet)
	socialRoutes.HandleFunc("/achievements", socialHandler.Achievements).Methods(http.MethodGet)
	socialRoutes.HandleFunc("/achievements/{id}", socialHandler.UnlockAchievement).Methods(http.MethodPost)
	socialRoutes.HandleFunc("/stats", socialHandler.Stats).Methods(http.MethodGet)
	socialRoutes.HandleFunc("/results", socialHandler.Results).Methods(http.MethodGet)

	leaderboard := api.PathPrefix("/leaderboard").Subrouter()
	leaderboard.Use(authMiddleware)
	leaderboard.HandleFunc("", socialHandler.GlobalLeaderboard).Methods(http.MethodGet)
	leaderboard.HandleFunc("/friends", socialHandler.FriendsLeaderboard).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.Sessions)).Methods(http.MethodGet)

	return r
}

func healthHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Sessions: sessions.Count()})
	}
}
