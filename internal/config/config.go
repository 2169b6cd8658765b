package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL   string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectAttempts int    `yaml:"connect_attempts" env:"DB_CONNECT_ATTEMPTS"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
		// TokenExpiration only applies to tokens minted by the dev token helper.
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Logging struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		Format     string `yaml:"format" env:"LOG_FORMAT"`
		File       string `yaml:"file" env:"LOG_FILE"`
		MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
		MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
	} `yaml:"logging"`

	Storage struct {
		Driver    string `yaml:"driver" env:"STORAGE_DRIVER"` // local | qiniu
		LocalPath string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		Qiniu     struct {
			AccessKey string `yaml:"access_key" env:"QINIU_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"QINIU_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"QINIU_BUCKET"`
			BaseURL   string `yaml:"base_url" env:"QINIU_BASE_URL"`
			UseHTTPS  bool   `yaml:"use_https" env:"QINIU_USE_HTTPS"`
		} `yaml:"qiniu"`
	} `yaml:"storage"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`

	Kafka struct {
		Enabled     bool   `yaml:"enabled" env:"KAFKA_ENABLED"`
		Brokers     string `yaml:"brokers" env:"KAFKA_BROKERS"` // comma separated
		TopicPrefix string `yaml:"topic_prefix" env:"KAFKA_TOPIC_PREFIX"`
		PoolSize    int    `yaml:"pool_size" env:"KAFKA_POOL_SIZE"`
	} `yaml:"kafka"`

	RateLimit struct {
		Enabled       bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
		RatePerSecond float64 `yaml:"rate_per_second" env:"RATE_LIMIT_RPS"`
		Burst         int64   `yaml:"burst" env:"RATE_LIMIT_BURST"`
		MaxClients    int     `yaml:"max_clients" env:"RATE_LIMIT_MAX_CLIENTS"`
	} `yaml:"rate_limit"`

	Search struct {
		FallbackScanLimit int `yaml:"fallback_scan_limit" env:"SEARCH_FALLBACK_SCAN_LIMIT"`
	} `yaml:"search"`

	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED"`
	} `yaml:"metrics"`

	Tracing struct {
		// Endpoint is the OTLP/HTTP collector host:port; empty disables tracing
		Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	} `yaml:"tracing"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, if any, is applied to the process
// environment before the env tag overrides run.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.MaxUploadMB = 10

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "bluecollar"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectAttempts = 5
	config.Database.MigrationsDir = "migrations"

	config.JWT.Issuer = "bluecollar.app"
	config.JWT.TokenExpiration = "24h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSizeMB = 100
	config.Logging.MaxBackups = 3
	config.Logging.MaxAgeDays = 28

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"

	config.Redis.Addr = "localhost:6379"
	config.Redis.TTL = "5m"

	config.Kafka.Brokers = "localhost:9092"
	config.Kafka.TopicPrefix = "bluecollar"
	config.Kafka.PoolSize = 16

	config.RateLimit.RatePerSecond = 20
	config.RateLimit.Burst = 40
	config.RateLimit.MaxClients = 10000

	config.Search.FallbackScanLimit = 100

	config.Metrics.Enabled = true

	config.Tracing.ServiceName = "bluecollar-api"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.LocalPath == "" {
			return fmt.Errorf("storage local_path is required for the local driver")
		}
	case "qiniu":
		q := config.Storage.Qiniu
		if q.AccessKey == "" || q.SecretKey == "" || q.Bucket == "" || q.BaseURL == "" {
			return fmt.Errorf("qiniu access_key, secret_key, bucket and base_url are required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Redis.Enabled {
		if _, err := time.ParseDuration(config.Redis.TTL); err != nil {
			return fmt.Errorf("invalid redis ttl: %w", err)
		}
	}

	if config.Search.FallbackScanLimit < 1 {
		return fmt.Errorf("search fallback_scan_limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// KafkaBrokers splits the comma separated broker list
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
