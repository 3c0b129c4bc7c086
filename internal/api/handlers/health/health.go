package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-engine/internal/core/assistant"
	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/pkg/common"
)

// 放入 gin context 的鍵
const (
	KeyConfig    = "config"
	KeyAssistant = "assistant"
	KeyStore     = "session_store"
	KeyStats     = "session_stats"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Assistant *AssistantStatus       `json:"assistant,omitempty"`
	Sessions  map[string]interface{} `json:"sessions,omitempty"`
}

// AssistantStatus 外部模型與隊列狀態
type AssistantStatus struct {
	Enabled bool             `json:"enabled"`
	Queue   assistant.Status `json:"queue"`
}

// queueReporter 可回報隊列狀態的外部模型客戶端
type queueReporter interface {
	Enabled() bool
	QueueStatus() assistant.Status
}

// statsReporter 可回報統計的會話儲存
type statsReporter interface {
	Stats() map[string]interface{}
}

// pinger 需檢查連線的會話儲存
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	value, exists := c.Get(KeyConfig)
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}
	cfg, ok := value.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if v, ok := c.Get(KeyAssistant); ok {
		if qr, ok := v.(queueReporter); ok {
			response.Assistant = &AssistantStatus{Enabled: qr.Enabled(), Queue: qr.QueueStatus()}
		}
	}
	if v, ok := c.Get(KeyStats); ok {
		if sr, ok := v.(statsReporter); ok {
			response.Sessions = sr.Stats()
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，會話儲存需可連線
func ReadinessCheck(c *gin.Context) {
	if v, ok := c.Get(KeyStore); ok {
		if p, ok := v.(pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				common.LogWarn("Session store not ready", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not_ready",
					"reason": "session store unavailable",
				})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
