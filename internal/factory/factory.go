package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/dependencies/clock"
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/services/bot"
	"github.com/mcoot/colormatch/internal/services/grid"
	"github.com/mcoot/colormatch/internal/services/scoring"
	"github.com/mcoot/colormatch/internal/services/session"
	"github.com/mcoot/colormatch/internal/services/social"
	"github.com/mcoot/colormatch/internal/storage"
	"github.com/mcoot/colormatch/internal/storage/memory"
	redisstorage "github.com/mcoot/colormatch/internal/storage/redis"
	"github.com/mcoot/colormatch/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Game rules
	Rules config.Rules

	// Services
	Engine      *grid.Engine
	Scoring     *scoring.Service
	Sessions    *session.Manager
	BotService  *bot.Service
	AuthService *auth.Service
	Social      *social.Service
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// RulesPath is the path to a YAML rules file (optional)
	// Takes precedence over Rules
	RulesPath string
	// Rules overrides the game rules (optional)
	// If zero value, defaults to config.DefaultRules()
	Rules config.Rules
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	rules, err := resolveRules(cfg)
	if err != nil {
		return nil, err
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), rules, authCfg, logger), nil
}

func resolveRules(cfg Config) (config.Rules, error) {
	if cfg.RulesPath != "" {
		rules, err := config.LoadRules(cfg.RulesPath)
		if err != nil {
			return config.Rules{}, err
		}
		return *rules, nil
	}
	if cfg.Rules.GridSize == 0 {
		return config.DefaultRules(), nil
	}
	return cfg.Rules, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, rules config.Rules, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	engine := grid.New(rnd, grid.ConfigFromRules(rules), logger)
	scoringService := scoring.New(scoring.ConfigFromRules(rules))
	sessions := session.NewManager(session.Dependencies{
		Engine:  engine,
		Scoring: scoringService,
		Rules:   rules,
		Random:  rnd,
		Clock:   clk,
		Logger:  logger,
	})
	botService := bot.NewService(engine, map[string]bot.Strategy{
		model.BotStrategyRandom: bot.NewRandomStrategy(rnd),
		model.BotStrategyGreedy: bot.NewGreedyStrategy(engine, scoringService),
	}, logger)
	authService := auth.New(store, clk, authCfg, logger)
	socialService := social.New(store, clk, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	// Session events feed the social layer and the live streams
	sessions.Subscribe(socialService.Listener(context.Background()))
	sessions.Subscribe(broadcaster.Publish)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Rules:       rules,
		Engine:      engine,
		Scoring:     scoringService,
		Sessions:    sessions,
		BotService:  botService,
		AuthService: authService,
		Social:      socialService,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
	}
}
