package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Returns   ReturnsConfig   `mapstructure:"returns"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// AllowedOrigins lists browser origins granted CORS access. Empty allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds object storage configuration for attachments.
type StorageConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Bucket          string        `mapstructure:"bucket"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// PaymentConfig holds refund gateway configuration.
type PaymentConfig struct {
	Stripe  StripeConfig  `mapstructure:"stripe"`
	Alipay  AlipayConfig  `mapstructure:"alipay"`
	Breaker BreakerConfig `mapstructure:"breaker"`

	// GatewayTimeout bounds every refund call.
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`
}

type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	BackendURL string `mapstructure:"backend_url"`
}

type AlipayConfig struct {
	AppID           string `mapstructure:"app_id"`
	PrivateKey      string `mapstructure:"private_key"`
	AlipayPublicKey string `mapstructure:"alipay_public_key"`
	IsProd          bool   `mapstructure:"is_prod"`
}

// BreakerConfig configures the per-provider circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// AuthConfig holds identity token configuration.
type AuthConfig struct {
	JWTSecret    string   `mapstructure:"jwt_secret"`
	JWTIssuer    string   `mapstructure:"jwt_issuer"`
	AdminEmails  []string `mapstructure:"admin_emails"`
	AdminUserIDs []string `mapstructure:"admin_user_ids"`
}

// ReturnsConfig holds return policy configuration.
type ReturnsConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// MessagingConfig holds messaging configuration.
type MessagingConfig struct {
	UnreadCacheTTL time.Duration `mapstructure:"unread_cache_ttl"`
	SendRateLimit  int           `mapstructure:"send_rate_limit"`
	SendRateWindow time.Duration `mapstructure:"send_rate_window"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/returns")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	// RETURNS_SERVER_ADDRESS -> server.address
	v.SetEnvPrefix("RETURNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Override with environment variables for sensitive values
	if secret := os.Getenv("RETURNS_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password := os.Getenv("RETURNS_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("RETURNS_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("RETURNS_STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretAccessKey = key
	}
	if key := os.Getenv("RETURNS_STRIPE_SECRET_KEY"); key != "" {
		cfg.Payment.Stripe.SecretKey = key
	}
	if key := os.Getenv("RETURNS_ALIPAY_PRIVATE_KEY"); key != "" {
		cfg.Payment.Alipay.PrivateKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Returns.WindowDays <= 0 {
		return fmt.Errorf("returns.window_days must be positive, got %d", c.Returns.WindowDays)
	}
	if c.Payment.GatewayTimeout <= 0 {
		return fmt.Errorf("payment.gateway_timeout must be positive")
	}
	if c.Messaging.SendRateLimit < 0 {
		return fmt.Errorf("messaging.send_rate_limit must not be negative")
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "returns")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Storage defaults
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "returns-attachments")
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("storage.presign_ttl", 15*time.Minute)

	// Payment defaults
	v.SetDefault("payment.gateway_timeout", 10*time.Second)
	v.SetDefault("payment.breaker.max_requests", 1)
	v.SetDefault("payment.breaker.interval", 60*time.Second)
	v.SetDefault("payment.breaker.timeout", 30*time.Second)
	v.SetDefault("payment.breaker.failure_threshold", 5)

	// Returns defaults
	v.SetDefault("returns.window_days", 30)

	// Messaging defaults
	v.SetDefault("messaging.unread_cache_ttl", 5*time.Minute)
	v.SetDefault("messaging.send_rate_limit", 30)
	v.SetDefault("messaging.send_rate_window", time.Minute)
	v.SetDefault("messaging.idempotency_ttl", 24*time.Hour)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.namespace", "returns")
}
