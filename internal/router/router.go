package router

import (
	"net/http"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/handler"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/middleware"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Import   *handler.ImportHandler
	ClassLog *handler.ClassLogHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// rdb may be nil, which disables login rate limiting.
func SetupRouter(
	auth middleware.TokenValidator,
	handlers *Handlers,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	authGroup := router.Group("/api/v1/auth")
	{
		login := []gin.HandlerFunc{handlers.Auth.AdminLogin}
		if rdb != nil {
			login = append([]gin.HandlerFunc{
				middleware.RateLimit(rdb, "admin_login", loginRateLimit, loginRateWindow, log),
			}, login...)
		}
		authGroup.POST("/admin/login", login...)
		authGroup.GET("/admin/me", middleware.RequireAdminJWT(auth), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Admin Group (Admin JWT) ────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RequireAdminJWT(auth))
	admin.Use(middleware.Compress(middleware.DefaultCompressMinLength))
	{
		classLogs := admin.Group("/class-logs")
		classLogs.GET("",
			middleware.RequirePermission(model.PermissionClassLogsRead),
			handlers.ClassLog.ListClassLogs)
		classLogs.GET("/classes",
			middleware.RequirePermission(model.PermissionClassLogsRead),
			handlers.ClassLog.ListStudentClasses)
		classLogs.POST("/import",
			middleware.RequirePermission(model.PermissionClassLogsImport),
			handlers.Import.TriggerImport)
		classLogs.GET("/import/last",
			middleware.RequirePermission(model.PermissionClassLogsRead),
			handlers.Import.GetLastReport)
	}

	// ─── 3. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1/admin")
	ws.Use(middleware.RequireAdminWSAuth(auth))
	{
		ws.GET("/class-logs/import/events",
			middleware.RequirePermission(model.PermissionClassLogsRead),
			handlers.WS.ImportEventsStream)
	}

	return router
}
