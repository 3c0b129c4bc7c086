package api

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-engine/internal/api/handlers/health"
	recipeHandler "recipe-engine/internal/api/handlers/recipe"
	sessionHandler "recipe-engine/internal/api/handlers/session"
	"recipe-engine/internal/api/middleware"
	"recipe-engine/internal/core/assistant"
	"recipe-engine/internal/core/conversation"
	"recipe-engine/internal/core/engine"
	"recipe-engine/internal/core/image"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/infrastructure/monitoring"
	"recipe-engine/internal/pkg/common"
)

// Services 路由所需的已初始化服務
type Services struct {
	Engine        *engine.Engine
	Conversations *conversation.Service
	Store         session.Store
	Images        *image.Service
	Assistant     *assistant.Client
	Metrics       *monitoring.Metrics
	Dedup         *middleware.Deduplicator
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	if svc.Engine == nil || svc.Conversations == nil || svc.Images == nil || svc.Metrics == nil {
		return nil, errors.New("router requires engine, conversations, images and metrics")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(svc.Metrics.HTTPMiddleware())

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst))
	}
	if svc.Dedup != nil {
		router.Use(svc.Dedup.Middleware())
	}

	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 設置配置與健康檢查所需服務
	injected := map[string]interface{}{
		health.KeyConfig: cfg,
	}
	if svc.Assistant != nil {
		injected[health.KeyAssistant] = svc.Assistant
	}
	if svc.Store != nil {
		injected[health.KeyStore] = svc.Store
		injected[health.KeyStats] = svc.Store
	}
	router.Use(middleware.Inject(injected))

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(svc.Metrics.Handler()))

	var vision recipeHandler.IngredientIdentifier
	if svc.Assistant != nil {
		vision = svc.Assistant
	}
	recipes := recipeHandler.NewHandler(svc.Engine, svc.Images, vision, svc.Metrics)
	sessions := sessionHandler.NewHandler(svc.Conversations)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.List)
			recipeGroup.POST("/filter", recipes.Filter)
			recipeGroup.POST("/scan", recipes.Scan)
			recipeGroup.GET("/:name", recipes.Get)
			recipeGroup.GET("/:name/prices", recipes.Prices)
			recipeGroup.GET("/:name/scale", recipes.Scale)
			recipeGroup.POST("/:name/allergens", recipes.Allergens)
		}

		api.POST("/prices/compare", recipes.Compare)
		api.GET("/allergens", recipes.Allergies)
		api.GET("/units/convert", recipes.Convert)
		api.GET("/glossary/:word", recipes.Glossary)
		api.GET("/stores/:retailer/link", recipes.StoreLink)

		sessionGroup := api.Group("/sessions")
		{
			sessionGroup.POST("", sessions.Create)
			sessionGroup.GET("/:id", sessions.Get)
			sessionGroup.DELETE("/:id", sessions.Delete)
			sessionGroup.POST("/:id/messages", sessions.Message)
			sessionGroup.PUT("/:id/profile", sessions.UpdateProfile)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("assistant_enabled", svc.Assistant != nil && svc.Assistant.Enabled()),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
