// Package config 提供 TOML 配置加载、环境变量覆盖与基本校验
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// JWT 配置
	JWT JWTConfig `mapstructure:"jwt"`
	// 商城业务配置
	Store StoreConfig `mapstructure:"store"`
	// 支付网关配置
	Gateway GatewayConfig `mapstructure:"gateway"`
	// 邮件配置
	SMTP SMTPConfig `mapstructure:"smtp"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    int    `mapstructure:"conn_max_lifetime"`
	LogEnabled         bool   `mapstructure:"log_enabled"`
	SlowQueryThreshold int    `mapstructure:"slow_query_threshold"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	GroupID      string   `mapstructure:"group_id"`
	OrderTopic   string   `mapstructure:"order_topic"`
	AccountTopic string   `mapstructure:"account_topic"`
	MaxRetries   int      `mapstructure:"max_retries"`
	RetryBackoff int      `mapstructure:"retry_backoff"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// StoreConfig 商城业务配置。运费阈值等不再作为隐式全局，而是显式注入计价器。
type StoreConfig struct {
	Currency                  string `mapstructure:"currency"`
	FreeShippingThreshold     string `mapstructure:"free_shipping_threshold"`
	ShippingCost              string `mapstructure:"shipping_cost"`
	DefaultCountry            string `mapstructure:"default_country"`
	OTPTTLSeconds             int    `mapstructure:"otp_ttl_seconds"`
	VerificationTokenTTLHours int    `mapstructure:"verification_token_ttl_hours"`
	PageSize                  int    `mapstructure:"page_size"`
	MediaDir                  string `mapstructure:"media_dir"`
	PublicBaseURL             string `mapstructure:"public_base_url"`
}

// FreeShippingThresholdDecimal 解析免运费阈值
func (s StoreConfig) FreeShippingThresholdDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(s.FreeShippingThreshold)
	if err != nil {
		return decimal.NewFromInt(500)
	}
	return d
}

// ShippingCostDecimal 解析固定运费
func (s StoreConfig) ShippingCostDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(s.ShippingCost)
	if err != nil {
		return decimal.NewFromInt(50)
	}
	return d
}

// GatewayConfig 支付网关配置。key 为空时进入 demo 模式。
type GatewayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// Configured 判断网关是否已配置
func (g GatewayConfig) Configured() bool {
	return g.KeyID != "" && g.KeySecret != ""
}

// SMTPConfig 邮件配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 设置环境变量前缀，使用 _ 替代 .
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if _, err := decimal.NewFromString(c.Store.FreeShippingThreshold); err != nil {
		return fmt.Errorf("invalid store.free_shipping_threshold: %w", err)
	}
	if _, err := decimal.NewFromString(c.Store.ShippingCost); err != nil {
		return fmt.Errorf("invalid store.shipping_cost: %w", err)
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.order_topic", "storefront.orders")
	v.SetDefault("kafka.account_topic", "storefront.accounts")
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/amanzon.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("store.currency", "INR")
	v.SetDefault("store.free_shipping_threshold", "500")
	v.SetDefault("store.shipping_cost", "50")
	v.SetDefault("store.default_country", "India")
	v.SetDefault("store.otp_ttl_seconds", 600)
	v.SetDefault("store.verification_token_ttl_hours", 48)
	v.SetDefault("store.page_size", 12)
	v.SetDefault("store.media_dir", "media")
	v.SetDefault("store.public_base_url", "http://localhost:8080")

	v.SetDefault("gateway.base_url", "https://api.razorpay.com/v1")

	v.SetDefault("smtp.port", 587)

	v.SetDefault("ratelimit.enabled", true)
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
