package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-engine/internal/pkg/common"
)

// Deduplicator 拒絕視窗內重複送出的 POST 請求（同客戶端、同路徑、同內容）
type Deduplicator struct {
	window   time.Duration
	mu       sync.Mutex
	requests map[string]time.Time
	done     chan struct{}
	once     sync.Once
}

// NewDeduplicator 建立去重器並啟動清理 goroutine
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	d := &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		done:     make(chan struct{}),
	}
	go d.cleanup(10 * window)
	return d
}

// cleanup 定期移除過期指紋
func (d *Deduplicator) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			d.mu.Lock()
			for k, t := range d.requests {
				if now.Sub(t) > d.window {
					delete(d.requests, k)
				}
			}
			d.mu.Unlock()
		case <-d.done:
			return
		}
	}
}

// Stop 停止清理 goroutine
func (d *Deduplicator) Stop() {
	d.once.Do(func() { close(d.done) })
}

// Middleware 請求去重中間件
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
					Code:    "REQUEST_TOO_LARGE",
					Message: "請求內容過大",
				})
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		// 生成請求指紋
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + bodyHash

		now := time.Now()
		d.mu.Lock()
		last, exists := d.requests[fingerprint]
		if exists && now.Sub(last) <= d.window {
			d.mu.Unlock()
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}
		d.requests[fingerprint] = now
		d.mu.Unlock()

		c.Next()
	}
}
