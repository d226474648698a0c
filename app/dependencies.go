package app

import (
	"context"
	"fmt"

	"github.com/cardfolio/backend/config"
	"github.com/cardfolio/backend/handlers"
	"github.com/cardfolio/backend/middleware"
	"github.com/cardfolio/backend/repositories"
	"github.com/cardfolio/backend/repositories/mongodb"
	"github.com/cardfolio/backend/repositories/rediscache"
	"github.com/cardfolio/backend/services/cards"
	"github.com/cardfolio/backend/services/ratelimit"
	"github.com/cardfolio/backend/services/tokens"
	"github.com/cardfolio/backend/services/users"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *mongodb.DB
	Redis  *redis.Client
	Logger *zap.Logger

	// Repositories
	TokenCache *rediscache.TokenCache
	Users      repositories.UserRepository
	Cards      repositories.CardRepository

	// Services
	Verifier    *tokens.Verifier
	Issuer      *tokens.Issuer
	RateLimiter *ratelimit.Service
	UserService *users.Service
	CardService *cards.Service

	// Middleware
	AuthMiddleware      *middleware.AuthMiddleware
	InternalAuth        *middleware.InternalAuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Handlers
	HealthHandler *handlers.HealthHandler
	CardHandler   *handlers.CardHandler
	UserHandler   *handlers.UserHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initMongo(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	if err := deps.initRedis(ctx, cfg); err != nil {
		// The cache is a lookaside: verification falls back to the store
		// during an outage, so a failed ping only degrades startup.
		logger.Warn("token cache unreachable at startup", zap.Error(err))
	}

	deps.initServices(cfg)
	deps.initMiddleware(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initMongo initializes the MongoDB connection and repositories
func (d *Dependencies) initMongo(ctx context.Context, cfg *config.Config) error {
	db, err := mongodb.NewDB(ctx, cfg.Mongo, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db
	d.Users = mongodb.NewUserRepository(db, d.Logger)
	d.Cards = mongodb.NewCardRepository(db, d.Logger)

	d.Logger.Info("document store connection established",
		zap.String("connection", cfg.Mongo.LogString()))
	return nil
}

// initRedis initializes the Redis client and the token cache on top of it.
// The client is created even when the ping fails so the cache can recover
// without a restart.
func (d *Dependencies) initRedis(ctx context.Context, cfg *config.Config) error {
	d.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	d.TokenCache = rediscache.NewTokenCache(d.Redis, d.Logger)

	return d.Redis.Ping(ctx).Err()
}

// initServices initializes the domain services
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Verifier = tokens.NewVerifier(d.TokenCache, d.Users, cfg.Auth.TokenTTL, d.Logger)
	d.Issuer = tokens.NewIssuer(d.TokenCache, d.Users, cfg.Auth.TokenTTL, d.Logger)
	d.RateLimiter = ratelimit.NewService(cfg.EffectiveRateLimitMultiplier(), d.Logger)
	d.UserService = users.NewService(d.Issuer, d.Logger)
	d.CardService = cards.NewService(d.Cards, d.Logger)
}

// initMiddleware initializes the request admission middleware
func (d *Dependencies) initMiddleware(cfg *config.Config) {
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)
	d.InternalAuth = middleware.NewInternalAuthMiddleware(cfg.Auth.InternalSecret, d.Logger)
	d.RateLimitMiddleware = middleware.NewRateLimitMiddleware(d.RateLimiter, d.Logger)
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() {
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.TokenCache, d.Logger)
	d.CardHandler = handlers.NewCardHandler(d.CardService, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.UserService, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close document store: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
