package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cppla/codeshare/config"
	"github.com/cppla/codeshare/controllers"
	"github.com/cppla/codeshare/engine"
	"github.com/cppla/codeshare/middleware"
	"github.com/cppla/codeshare/realtime"
	"github.com/cppla/codeshare/utils"
)

// loginPerMinute caps password attempts per visitor regardless of the API limit.
const loginPerMinute = 10

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(eng *engine.Engine, hub *realtime.Hub) (*gin.Engine, error) {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnf("gin access log disabled: %v", err)
		r.Use(utils.RecoveryWithZap(utils.Logger, false))
	}

	// No proxies are trusted unless configured, so ClientIP is the socket peer.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// Browsers reject credentials with a wildcard origin.
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestMetrics())

	r.Static(controllers.UploadURLPrefix, cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "subscribers": hub.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminController, err := controllers.NewAdminController(cfg)
	if err != nil {
		return nil, err
	}
	postController := controllers.NewPostController(eng)
	statsController := controllers.NewStatsController(eng)
	uploadController := controllers.NewUploadController(cfg.UploadDir, cfg.UploadMaxMB)
	configController := controllers.NewConfigController()
	realtimeController := controllers.NewRealtimeController(hub)

	r.GET("/ws", realtimeController.Subscribe)

	api := r.Group("/api")
	api.Use(middleware.Visitor(middleware.NewVisitorIdentity(cfg.VisitorIdentity)))
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	adminGroup := api.Group("/admin")
	adminGroup.POST("/login", middleware.RateLimit(min(cfg.RateLimitPerMinute, loginPerMinute)), adminController.Login)
	adminGroup.POST("/logout", middleware.AdminRequired(), adminController.Logout)
	adminGroup.GET("/me", middleware.AdminRequired(), adminController.Me)

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.POST("/posts/:id/comments", postController.CreateComment)
	api.POST("/posts/:id/like", postController.ToggleLike)
	api.GET("/posts/:id/download", postController.Download)
	api.GET("/stats", statsController.GetStats)
	api.GET("/config/languages", configController.GetLanguages)

	protected := api.Group("")
	protected.Use(middleware.AdminRequired())
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.DELETE("/posts", postController.ClearAll)
	protected.GET("/export", statsController.Export)
	protected.POST("/upload", uploadController.UploadAttachment)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, utils.CodeRouteNotFound, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, utils.CodeRouteNotFound, "not found")
	})

	return r, nil
}
