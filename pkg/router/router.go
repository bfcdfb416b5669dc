package router

import (
	"time"

	"realtime-chat/backend/internal/api"
	"realtime-chat/backend/internal/ws"
	"realtime-chat/backend/pkg/config"
	"realtime-chat/backend/pkg/di"
	"realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"
	"realtime-chat/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Hub       *ws.Hub
	Relay     *ws.Relay
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	// Load configuration
	cfg := config.Get()

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()

	// Use the logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Tag every request with an ID before anything can log or fail
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.ContextPropagationMiddleware())

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	// Create rate limiter with default options
	rateLimiter := middleware.NewRateLimiter(container.Logger)

	// Apply rate limiting to all routes
	engine.Use(rateLimiter.Middleware())

	// Wire the relay: the membership table plus the connection hub
	membership := ws.NewMembership()
	relay := ws.NewRelay(
		membership,
		container.MessageService,
		container.SessionService,
		ws.Config{
			BroadcastOnStoreFailure: cfg.Relay.BroadcastOnStoreFailure,
			ValidateSessionOnJoin:   cfg.Relay.ValidateSessionOnJoin,
		},
		container.Logger,
	)
	hub := ws.NewHub(relay, container.Logger)

	// Start the hub
	go hub.Run()

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Hub:       hub,
		Relay:     relay,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() error {
	// Add CORS middleware
	r.Engine.Use(corsMiddleware())

	// Initialize controllers with proper constructor signatures
	sessionHandler := api.NewSessionHandler(r.Container.SessionService)
	messageHandler := api.NewMessageHandler(r.Container.HistoryService)
	userHandler := api.NewUserHandler(r.Container.UserService)
	uploadHandler, err := api.NewUploadHandler(
		r.Config.Uploads.Dir,
		r.Config.Uploads.MaxFileSize,
		r.Config.Server.BaseURL,
		r.Logger,
	)
	if err != nil {
		return err
	}

	sessionHandler.RegisterRoutes(r.Engine)
	messageHandler.RegisterRoutes(r.Engine)
	userHandler.RegisterRoutes(r.Engine)
	uploadHandler.RegisterRoutes(r.Engine)

	// Serve uploaded files back out
	r.Engine.Static("/uploads", r.Config.Uploads.Dir)

	// Health endpoints
	r.setupHealthRoutes()

	// WebSocket route
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Hub, r.Relay, r.Logger, c)
	})

	return nil
}

// Enhance CORS middleware to explicitly allow WebSocket-specific headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		if origin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
