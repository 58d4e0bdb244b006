package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/services/social"
	"github.com/mcoot/colormatch/internal/web/handler"
	"github.com/mcoot/colormatch/internal/web/middleware"
	"github.com/mcoot/colormatch/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Sessions    *session.Manager
	Social      social.Platform
	HubManager  *sse.HubManager
	StaticDir   string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Sessions, cfg.Social, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.Sessions, hubManager, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.Social)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing player info in nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard", leaderboardHandler.Global).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(flashMiddleware)
	authRoutes.Use(optionalAuthMiddleware)
	authRoutes.HandleFunc("/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	protected.HandleFunc("/leaderboard/friends", leaderboardHandler.Friends).Methods(http.MethodGet)

	// Session routes
	protected.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}", sessionHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}/events", sessionHandler.Events).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}/cells/{row:[0-9]+}/{col:[0-9]+}", sessionHandler.Cell).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/boosters/{kind}", sessionHandler.Booster).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/continue/{reason}", sessionHandler.Continue).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}/{action:start|pause|resume|restart|next}", sessionHandler.Control).Methods(http.MethodPost)

	return r
}
