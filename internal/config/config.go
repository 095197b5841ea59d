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

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	Import      ImportConfig
	Reports     ReportsConfig
	Idempotency IdempotencyConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Addr string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	Migrate  bool
}

type RedisConfig struct {
	Addr    string
	Enabled bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level       string
	Development bool
}

type ImportConfig struct {
	AutoCreateReferences bool
	MaxUploadBytes       int64
	UploadDir            string
}

type ReportsConfig struct {
	LowStockThreshold int
}

type IdempotencyConfig struct {
	TTL   time.Duration
	Lease time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads .env (if present), config.yaml (if present) and the environment.
// Environment variables use the key with dots replaced by underscores,
// e.g. DATABASE_URL or IMPORT_AUTO_CREATE_REFERENCES.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.addr", "inventory-redis:6379")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 15*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("import.auto_create_references", true)
	v.SetDefault("import.max_upload_bytes", 10<<20)
	v.SetDefault("import.upload_dir", os.TempDir())
	v.SetDefault("reports.low_stock_threshold", 10)
	v.SetDefault("idempotency.ttl", 24*time.Hour)
	v.SetDefault("idempotency.lease", time.Minute)
	v.SetDefault("ratelimit.rps", 1)
	v.SetDefault("ratelimit.burst", 3)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Database: DatabaseConfig{
			URL:      v.GetString("database.url"),
			MaxConns: v.GetInt32("database.max_conns"),
			Migrate:  v.GetBool("database.migrate"),
		},
		Redis: RedisConfig{
			Addr:    v.GetString("redis.addr"),
			Enabled: v.GetBool("redis.enabled"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		Import: ImportConfig{
			AutoCreateReferences: v.GetBool("import.auto_create_references"),
			MaxUploadBytes:       v.GetInt64("import.max_upload_bytes"),
			UploadDir:            v.GetString("import.upload_dir"),
		},
		Reports: ReportsConfig{LowStockThreshold: v.GetInt("reports.low_stock_threshold")},
		Idempotency: IdempotencyConfig{
			TTL:   v.GetDuration("idempotency.ttl"),
			Lease: v.GetDuration("idempotency.lease"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("environment variable DATABASE_URL not found")
	}
	if c.JWT.Secret == "" && !c.Log.Development {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.Reports.LowStockThreshold < 0 {
		return fmt.Errorf("reports.low_stock_threshold must be zero or positive, got %d", c.Reports.LowStockThreshold)
	}
	return nil
}
