package router

import (
	"os"
	"runtime"
	"time"

	"realtime-chat/backend/pkg/config"
	"realtime-chat/backend/pkg/health"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers health check endpoints
func (r *Router) setupHealthRoutes() {
	// Periodic component checks behind /healthz, for probes that want a
	// status code rather than a report
	checker := health.NewChecker(r.Logger, 30*time.Second)
	checker.RegisterDatabaseCheck(func() error {
		return config.TestConnection(r.Container.DB)
	})
	if r.Container.Redis != nil {
		checker.RegisterRedisCheck(r.Container.Redis.Ping)
	}
	checker.Start()
	r.Engine.GET("/healthz", gin.WrapF(checker.HTTPHandler()))

	healthHandler := func(c *gin.Context) {
		// Check database connection
		dbStatus := "ok"
		if err := r.Container.DB.Exec("SELECT 1").Error; err != nil {
			dbStatus = err.Error()
			r.Logger.Error("Database health check failed", "error", err)
		}

		// Redis is optional; report it only when configured
		redisStatus := "disabled"
		if r.Container.Redis != nil {
			redisStatus = "ok"
			if err := r.Container.Redis.Ping(); err != nil {
				redisStatus = err.Error()
			}
		}

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		c.JSON(200, gin.H{
			"status":         "ok",
			"version":        os.Getenv("APP_VERSION"),
			"timestamp":      time.Now().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
			"components": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
				"websocket": gin.H{
					"status":             "ok",
					"active_connections": r.Hub.ConnectionCount(),
				},
			},
			"memory": gin.H{
				"alloc_mb":  memStats.Alloc / 1024 / 1024,
				"sys_mb":    memStats.Sys / 1024 / 1024,
				"gc_cycles": memStats.NumGC,
			},
		})
	}

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
}
