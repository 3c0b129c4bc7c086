package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Engine      EngineConfig    `mapstructure:"engine"`
	Session     SessionConfig   `mapstructure:"session"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Assistant   AssistantConfig `mapstructure:"assistant"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Image       ImageConfig     `mapstructure:"image"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// EngineConfig 推薦引擎參數
type EngineConfig struct {
	MaxFilterResults int     `mapstructure:"max_filter_results"`
	MaxScanResults   int     `mapstructure:"max_scan_results"`
	StressThreshold  int     `mapstructure:"stress_threshold"`
	HistoryLookback  int     `mapstructure:"history_lookback"`
	DefaultBudget    float64 `mapstructure:"default_budget"`
	QuickMaxMinutes  int     `mapstructure:"quick_max_minutes"`
}

// SessionConfig 會話儲存設定
type SessionConfig struct {
	Backend         string        `mapstructure:"backend"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxHistory      int           `mapstructure:"max_history"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AssistantConfig 外部語言模型設定（OpenAI 相容 API）
type AssistantConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	VisionModel string        `mapstructure:"vision_model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// QueueConfig 外部請求隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	MaxDimension int   `mapstructure:"max_dimension"`
	JPEGQuality  int   `mapstructure:"jpeg_quality"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，不存在時只使用環境變數與預設值
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("assistant.api_key", "GROQ_API_KEY", "ASSISTANT_API_KEY")
	v.BindEnv("assistant.model", "ASSISTANT_MODEL")
	v.BindEnv("assistant.vision_model", "ASSISTANT_VISION_MODEL")
	v.BindEnv("assistant.base_url", "ASSISTANT_BASE_URL")
	v.BindEnv("session.backend", "SESSION_BACKEND")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("server.port", "PORT")

	return load(v)
}

// load 從已設定好的 viper 實例解析並驗證設定
func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 有 API key 時自動啟用語言模型
	if config.Assistant.APIKey != "" && !v.IsSet("assistant.enabled") {
		config.Assistant.Enabled = true
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"session_backend:", config.Session.Backend,
		"assistant_enabled:", config.Assistant.Enabled,
		"assistant_api_key:", maskAPIKey(config.Assistant.APIKey),
	)

	return &config, nil
}

// Default 回傳只含預設值的設定，供測試與工具使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := load(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-engine")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.max_body_bytes", 10<<20) // 10MB

	// 引擎設定
	v.SetDefault("engine.max_filter_results", 6)
	v.SetDefault("engine.max_scan_results", 5)
	v.SetDefault("engine.stress_threshold", 2)
	v.SetDefault("engine.history_lookback", 6)
	v.SetDefault("engine.default_budget", 3.0)
	v.SetDefault("engine.quick_max_minutes", 30)

	// 會話設定
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.max_size", 1000)
	v.SetDefault("session.cleanup_interval", "10m")
	v.SetDefault("session.max_history", 50)

	// Redis 設定
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "recipe-engine:session:")

	// 語言模型設定
	v.SetDefault("assistant.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("assistant.model", "llama-3.3-70b-versatile")
	v.SetDefault("assistant.vision_model", "meta-llama/llama-4-scout-17b-16e-instruct")
	v.SetDefault("assistant.max_tokens", 1000)
	v.SetDefault("assistant.temperature", 0.7)
	v.SetDefault("assistant.timeout", "60s")

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 20)

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.max_dimension", 1024)
	v.SetDefault("image.jpeg_quality", 85)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證引擎設定
	if config.Engine.MaxFilterResults <= 0 || config.Engine.MaxScanResults <= 0 {
		return fmt.Errorf("invalid engine result caps")
	}
	if config.Engine.StressThreshold <= 0 {
		return fmt.Errorf("invalid engine stress threshold")
	}

	// 驗證會話設定
	switch config.Session.Backend {
	case "memory":
		if config.Session.MaxSize <= 0 {
			return fmt.Errorf("invalid session max size")
		}
		if config.Session.CleanupInterval <= 0 {
			return fmt.Errorf("invalid session cleanup interval")
		}
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", config.Session.Backend)
	}
	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}

	// 驗證語言模型設定
	if config.Assistant.Enabled && config.Assistant.APIKey == "" {
		return fmt.Errorf("assistant enabled without api key")
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	return nil
}
