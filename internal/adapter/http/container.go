package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/repository"
	"taskhub/internal/adapter/http/handler"
	"taskhub/internal/adapter/http/middleware"
	"taskhub/internal/core/port"
	"taskhub/internal/core/service"
	"taskhub/internal/core/telemetry"
	"taskhub/pkg/auth"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

type Container struct {
	UserRepo   port.UserRepository
	TaskRepo   port.TaskRepository
	FriendRepo port.FriendRepository

	AuthUseCase   port.AuthService
	TaskUseCase   port.TaskService
	FriendUseCase port.FriendService

	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	FriendHandler *handler.FriendHandler

	Tokens      *auth.TokenManager
	RateLimiter *middleware.RateLimiter

	redis *redis.Client
}

func NewContainer(ctx context.Context, db *database.DB, cfg *config.Config, log *logger.Logger, probe port.Telemetry, metrics *telemetry.AppMetrics) *Container {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db, probe)
	taskRepo := repository.NewTaskRepository(db, probe)
	friendRepo := repository.NewFriendRepository(db, probe)

	authSvc := service.NewAuthService(userRepo, tokens, probe, log, cfg.ResetTokenTTL)
	taskSvc := service.NewTaskService(taskRepo, userRepo, probe, log)
	friendSvc := service.NewFriendService(friendRepo, userRepo, probe, log)

	c := &Container{
		UserRepo:   userRepo,
		TaskRepo:   taskRepo,
		FriendRepo: friendRepo,

		AuthUseCase:   authSvc,
		TaskUseCase:   taskSvc,
		FriendUseCase: friendSvc,

		AuthHandler:   handler.NewAuthHandler(authSvc),
		TaskHandler:   handler.NewTaskHandler(taskSvc, log),
		FriendHandler: handler.NewFriendHandler(friendSvc),

		Tokens: tokens,
	}

	if cfg.RateLimitEnabled {
		c.RateLimiter = middleware.NewRateLimiter(c.rateLimitStore(ctx, cfg, log), cfg.RateLimitConfigs, log, metrics)
	}

	return c
}

// rateLimitStore prefers Redis when REDIS_URL is set and reachable, so limits
// hold across instances. Otherwise counters stay in process.
func (c *Container) rateLimitStore(ctx context.Context, cfg *config.Config, log *logger.Logger) middleware.RateLimitStore {
	if cfg.RedisURL == "" {
		return middleware.NewMemoryStore()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("Invalid REDIS_URL, using in-memory rate limiting", zap.Error(err))
		return middleware.NewMemoryStore()
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-memory rate limiting", zap.Error(err))
		client.Close()
		return middleware.NewMemoryStore()
	}

	log.Info("Rate limiting backed by Redis", zap.String("addr", opts.Addr))
	c.redis = client

	return middleware.NewRedisStore(client)
}

func (c *Container) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}

	return nil
}
