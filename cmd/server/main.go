package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/colormatch/internal/api"
	"github.com/mcoot/colormatch/internal/factory"
	redisstorage "github.com/mcoot/colormatch/internal/storage/redis"
	"github.com/mcoot/colormatch/internal/web"
)

const (
	housekeepingInterval = time.Minute
	sessionIdleTimeout   = 24 * time.Hour
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A missing .env is fine; the process environment still applies
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env", slog.String("error", err.Error()))
	}

	// Build factory config from environment
	cfg := factory.Config{
		RulesPath:   os.Getenv("RULES_PATH"),
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Sessions:    app.Sessions,
		BotService:  app.BotService,
		Social:      app.Social,
		HubManager:  app.HubManager,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Sessions:    app.Sessions,
		Social:      app.Social,
		HubManager:  app.HubManager,
		StaticDir:   findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig, err := api.ServerConfigFromEnv(os.Getenv)
	if err != nil {
		logger.Error("invalid server config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	server := api.NewServer(mux, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go housekeeping(ctx, app, logger)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if closer, ok := app.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("storage close failed", slog.String("error", err.Error()))
		}
	}
	logger.Info("server stopped")
}

// housekeeping drops idle game sessions, empty stream hubs and expired auth sessions
func housekeeping(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions := app.Sessions.CleanupIdle(sessionIdleTimeout)
			hubs := app.HubManager.CleanupEmptyHubs()
			tokens := app.AuthService.CleanExpiredSessions()
			if sessions > 0 || hubs > 0 || tokens > 0 {
				logger.Info("housekeeping",
					slog.Int("sessions_removed", sessions),
					slog.Int("hubs_removed", hubs),
					slog.Int("tokens_expired", tokens),
				)
			}
		}
	}
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
