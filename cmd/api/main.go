package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-engine/internal/api"
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

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("assistant_enabled", cfg.Assistant.Enabled),
		zap.String("assistant_model", cfg.Assistant.Model),
	)

	// 初始化推薦引擎
	eng, err := engine.NewDefault(cfg.Engine)
	if err != nil {
		common.LogFatal("Failed to initialize engine", zap.Error(err))
	}

	// 初始化會話儲存
	store, err := newStore(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer store.Close()

	metrics := monitoring.NewMetrics()

	client := assistant.NewClient(cfg.Assistant, cfg.Queue, assistant.WithRecorder(metrics))
	defer client.Close()

	images := image.NewService(cfg.Image.MaxSizeBytes, cfg.Image.MaxDimension, cfg.Image.JPEGQuality)

	conversations := conversation.NewService(eng, store,
		conversation.WithAssistant(client),
		conversation.WithRecorder(metrics),
		conversation.WithMaxHistory(cfg.Session.MaxHistory),
	)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	defer dedup.Stop()

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Services{
		Engine:        eng,
		Conversations: conversations,
		Store:         store,
		Images:        images,
		Assistant:     client,
		Metrics:       metrics,
		Dedup:         dedup,
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newStore 依設定建立會話儲存
func newStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL), nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL, cfg.Session.MaxSize, cfg.Session.CleanupInterval), nil
	}
}
