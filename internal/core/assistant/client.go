package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/pkg/common"
)

// ErrDisabled 未設定 API key 時不呼叫外部模型
var ErrDisabled = errors.New("assistant is disabled")

// Recorder 外部請求的指標紀錄
type Recorder interface {
	ObserveAssistant(operation, model, status string, duration time.Duration)
}

// Client OpenAI 相容 chat completions 客戶端（預設為 Groq）
type Client struct {
	cfg      config.AssistantConfig
	http     *resty.Client
	queue    *Queue
	recorder Recorder
}

// Option Client 選項
type Option func(*Client)

// WithRecorder 設定指標紀錄器
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithHTTPClient 替換底層 resty 客戶端，base URL 與授權標頭仍由設定決定
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) {
		c.http = rc
	}
}

// NewClient 建立客戶端與請求隊列
func NewClient(cfg config.AssistantConfig, queueCfg config.QueueConfig, opts ...Option) *Client {
	c := &Client{
		cfg:   cfg,
		http:  resty.New(),
		queue: NewQueue(queueCfg.Workers, queueCfg.MaxSize),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		c.http.SetTimeout(cfg.Timeout)
	}

	common.LogInfo("Assistant 客戶端已初始化",
		zap.Bool("enabled", c.Enabled()),
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.String("vision_model", cfg.VisionModel),
		zap.Int("workers", queueCfg.Workers),
	)
	return c
}

// Enabled 是否可呼叫外部模型
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

// Chat 排隊送出 chat completions 請求並回傳第一個選項的內容
func (c *Client) Chat(ctx context.Context, operation, model string, messages []common.Message) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	req := common.ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	start := time.Now()
	content, err := c.queue.Do(ctx, func(ctx context.Context) (string, error) {
		return c.send(ctx, req)
	})
	duration := time.Since(start)

	common.LogAssistantCall(operation, duration, err)
	if c.recorder != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		c.recorder.ObserveAssistant(operation, model, status, duration)
	}
	return content, err
}

// send 發送請求
func (c *Client) send(ctx context.Context, req common.ChatRequest) (string, error) {
	var result common.ChatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to assistant: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("assistant API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in assistant response")
	}

	common.LogDebug("Assistant usage",
		zap.String("id", result.ID),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
	)
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// Reply 依引擎訊號產生對話回覆
func (c *Client) Reply(ctx context.Context, b Brief) (string, error) {
	messages := []common.Message{common.TextMessage("system", systemPrompt(b))}
	for _, turn := range b.History {
		messages = append(messages, common.TextMessage(string(turn.Role), turn.Content))
	}
	messages = append(messages, common.TextMessage("user", b.Message))
	return c.Chat(ctx, "reply", c.cfg.Model, messages)
}

// IdentifyIngredients 從冰箱照片辨識食材名稱
//
// image 需為 data URI；模型回覆中的 JSON 陣列會被擷取並去除空白項。
func (c *Client) IdentifyIngredients(ctx context.Context, image string) ([]string, error) {
	model := c.cfg.VisionModel
	if model == "" {
		model = c.cfg.Model
	}
	messages := []common.Message{common.ImageMessage("user", visionPrompt, image)}

	content, err := c.Chat(ctx, "identify_ingredients", model, messages)
	if err != nil {
		return nil, err
	}

	var names []string
	raw := common.ExtractJSON(content)
	if strings.HasPrefix(raw, "{") {
		// 部分模型會包成 {ingredients: [...]}
		var wrapped struct {
			Ingredients []string `json:"ingredients"`
		}
		if err := common.ParseJSON(common.QuoteJSONKeys(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse ingredient list: %w", err)
		}
		names = wrapped.Ingredients
	} else if err := common.ParseJSON(raw, &names); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient list: %w", err)
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// QueueStatus 隊列狀態
func (c *Client) QueueStatus() Status {
	return c.queue.Status()
}

// Close 關閉隊列
func (c *Client) Close() {
	c.queue.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
