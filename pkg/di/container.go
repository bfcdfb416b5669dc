package di

import (
	"realtime-chat/backend/internal/repository"
	"realtime-chat/backend/internal/service"
	"realtime-chat/backend/pkg/cache"
	"realtime-chat/backend/pkg/config"
	"realtime-chat/backend/pkg/logger"
	"realtime-chat/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	Cache          *cache.Cache
	Redis          *redis.RedisClient
	SessionService *service.SessionService
	MessageService *service.MessageService
	HistoryService *service.HistoryService
	UserService    *service.UserService
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig logger.Config
	// CacheEnabled controls the session caches; when false both the
	// in-process and redis layers are skipped.
	CacheEnabled bool
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig: logger.DefaultConfig(),
		CacheEnabled: true,
	}
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *Config) (*Container, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	log := logger.New(cfg.LoggerConfig)
	appCfg := config.Get()

	var sessionCache *cache.Cache
	var rdb *redis.RedisClient
	if cfg.CacheEnabled {
		sessionCache = cache.NewCache()
		rdb = redis.NewRedisClient()
	}

	messageRepo := repository.NewGormMessageRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	messageService := service.NewMessageService(messageRepo, log)
	sessionService := service.NewSessionService(sessionRepo, sessionCache, rdb, log)
	historyService := service.NewHistoryService(messageService)
	userService := service.NewUserService(userRepo, appCfg.Server.BaseURL)

	return &Container{
		DB:             db,
		Logger:         log,
		Cache:          sessionCache,
		Redis:          rdb,
		SessionService: sessionService,
		MessageService: messageService,
		HistoryService: historyService,
		UserService:    userService,
	}, nil
}
