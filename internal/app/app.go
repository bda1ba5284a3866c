package app

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/vitalis-health/vitalis/internal/config"
	"github.com/vitalis-health/vitalis/internal/domains/consult"
	"github.com/vitalis-health/vitalis/internal/domains/user"
	convoRepo "github.com/vitalis-health/vitalis/internal/repository/conversation"
	userRepo "github.com/vitalis-health/vitalis/internal/repository/user"
	"github.com/vitalis-health/vitalis/internal/server"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	Registry *router.Registry
	Tracker  *router.Tracker
	Mux      *router.Mux

	ContextStore consult.ContextStore
	UserRepo     user.UserRepository
	ServerDeps   server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// 1. Build the model router from configuration
	factory := NewRouterFactory(a.Config.Router, a.Logger)
	mux, registry, tracker, err := factory.CreateRouter()
	if err != nil {
		return err
	}
	a.Mux = mux
	a.Registry = registry
	a.Tracker = tracker

	// 2. Context store: redis-backed when available, in-process otherwise
	if a.RC != nil {
		ttl := time.Duration(a.Config.Router.ContextTTLMins) * time.Minute
		a.ContextStore = convoRepo.NewRedisContextStore(a.RC, a.Config.Router.MaxContextTurns, ttl)
	} else {
		a.Logger.Warn("redis not configured, conversation context will not survive restarts")
		a.ContextStore = convoRepo.NewMemoryContextStore(a.Config.Router.MaxContextTurns)
	}

	// 3. Repositories
	a.UserRepo = userRepo.NewGormUserRepo(a.DB)

	// JWT settings from config
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}

	tokenTTLHours := a.Config.Auth.TokenTTLHours
	if tokenTTLHours == 0 {
		tokenTTLHours = 24
	}
	tokenTTL := time.Duration(tokenTTLHours) * time.Hour

	// 4. Services
	userService := user.NewUserService(a.UserRepo, a.Logger, jwtSecret, tokenTTL)
	consultService := consult.New(a.Mux, a.ContextStore, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		userService,
		consultService,
		a.Registry,
		a.Tracker,
		a.Logger,
		a.Config,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
