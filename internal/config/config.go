package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Snapshot backends selectable with CACHE_BACKEND.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendMinIO    = "minio"
	BackendPostgres = "postgres"
)

// ErrMissingAPIKey is returned when YOUTUBE_KEY is not set.
var ErrMissingAPIKey = errors.New("YOUTUBE_KEY is required")

type Config struct {
	Server   ServerConfig
	YouTube  YouTubeConfig
	Cache    CacheConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"3333"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"25s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to info.
func (c ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type YouTubeConfig struct {
	APIKey    string        `envconfig:"YOUTUBE_KEY"`
	BaseURL   string        `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
	Timeout   time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"10s"`
	RateLimit float64       `envconfig:"YOUTUBE_RATE_LIMIT" default:"10"`
	RateBurst int           `envconfig:"YOUTUBE_RATE_BURST" default:"10"`
}

type CacheConfig struct {
	Backend string `envconfig:"CACHE_BACKEND" default:"file"`
	Dir     string `envconfig:"CACHE_DIR" default:"/data"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"tubeproxy"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"tubeproxy"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"tubeproxy"`
	DBName   string `envconfig:"POSTGRES_DB" default:"tubeproxy"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Validate reports configuration that must stop the process from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendMinIO, BackendPostgres:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return errors.New("CACHE_DIR is required for the file backend")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
