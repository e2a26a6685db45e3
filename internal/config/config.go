package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Sandbox   SandboxConfig
	Formatter FormatterConfig
	Redis     RedisConfig
	AI        AIConfig
	Quota     QuotaConfig     `mapstructure:"quota"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// QuotaConfig 每个用户在窗口内允许的生成请求次数，依赖 Redis
type QuotaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxRequests   int  `mapstructure:"max_requests"`
	WindowMinutes int  `mapstructure:"window_minutes"`
}

type SafetyConfig struct {
	Category  string `mapstructure:"category"`
	Threshold string `mapstructure:"threshold"`
}

type AIConfig struct {
	Provider        string         `mapstructure:"provider"` // gemini | openai
	BaseURL         string         `mapstructure:"base_url"`
	APIKey          string         `mapstructure:"api_key"`
	Model           string         `mapstructure:"model"`
	Timeout         time.Duration  `mapstructure:"timeout"`
	Temperature     float32        `mapstructure:"temperature"`
	TopP            float32        `mapstructure:"top_p"`
	TopK            int32          `mapstructure:"top_k"`
	MaxOutputTokens int32          `mapstructure:"max_output_tokens"`
	Safety          []SafetyConfig `mapstructure:"safety"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string // postgres | mysql
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string `mapstructure:"sslmode"`
	Charset   string
	ParseTime bool
	LogLevel  string `mapstructure:"log_level"`
}

// AuthConfig 身份由外部身份提供方签发，这里只做令牌校验
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// SandboxConfig 远程代码执行服务（Piston 兼容接口）
type SandboxConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FormatterConfig struct {
	JavaCommand []string      `mapstructure:"java_command"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", "40s")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.top_p", 0.9)
	v.SetDefault("ai.top_k", 32)
	v.SetDefault("ai.max_output_tokens", 4096)

	v.SetDefault("sandbox.url", "https://emkc.org/api/v2/piston/execute")
	v.SetDefault("sandbox.timeout", "15s")

	v.SetDefault("formatter.java_command", []string{"google-java-format", "--aosp", "-"})
	v.SetDefault("formatter.timeout", "10s")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("quota.max_requests", 30)
	v.SetDefault("quota.window_minutes", 60)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MOCK_INTERVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.issuer", "JWT_ISSUER")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// AI
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Sandbox
	v.BindEnv("sandbox.url", "SANDBOX_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 启动期校验，缺少模型密钥直接拒绝启动
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown ai.provider %q (must be gemini or openai)", c.AI.Provider)
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return fmt.Errorf("ai.api_key is not set (AI_API_KEY / GEMINI_API_KEY)")
	}
	if c.AI.Provider == "openai" && c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required for the openai provider")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unknown database.driver %q (must be postgres or mysql)", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not set (JWT_SECRET)")
	}
	if c.Server.Mode == "release" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Auth.JWTSecret))
	}

	if c.Quota.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("quota.enabled requires redis.enabled")
	}
	if c.Quota.Enabled && (c.Quota.MaxRequests < 1 || c.Quota.WindowMinutes < 1) {
		return fmt.Errorf("quota.max_requests and quota.window_minutes must be at least 1")
	}
	if c.RateLimit.MaxRequests < 1 || c.RateLimit.WindowMinutes < 1 {
		return fmt.Errorf("rate_limit.max_requests and rate_limit.window_minutes must be at least 1")
	}

	return nil
}
