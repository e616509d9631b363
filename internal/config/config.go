// Package config loads service settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	HTTP        HTTPConfig      `mapstructure:"http"`
	Storage     StorageConfig   `mapstructure:"storage"`
	DatabaseURL string          `mapstructure:"database_url"`
	RedisAddr   string          `mapstructure:"redis_addr"`
	AMQP        AMQPConfig      `mapstructure:"amqp"`
	Cart        CartConfig      `mapstructure:"cart"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	CORS        CORSConfig      `mapstructure:"cors"`
	Log         LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	File        string `mapstructure:"file"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type CartConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Sessions    int           `mapstructure:"sessions"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.file", "products.json")
	v.SetDefault("storage.sqlite_path", "data/storefront.db")
	v.SetDefault("storage.redis_prefix", "storefront:")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "storefront.catalog")
	v.SetDefault("cart.token_secret", "")
	v.SetDefault("cart.token_ttl", 30*24*time.Hour)
	v.SetDefault("cart.sessions", 4096)
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)
	v.SetDefault("cors.origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// Load reads configuration. When file is empty, storefront.yaml is looked up
// in the working directory and /etc/storefront; a missing file is not an
// error. Environment variables use the STOREFRONT_ prefix with "." replaced
// by "_"; DATABASE_URL, REDIS_ADDR and PORT are honoured as well.
func Load(file string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/storefront")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", "STOREFRONT_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis_addr", "STOREFRONT_REDIS_ADDR", "REDIS_ADDR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && os.Getenv("STOREFRONT_HTTP_ADDR") == "" {
		cfg.HTTP.Addr = ":" + port
	}
	if cfg.Cart.TokenSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.Cart.TokenSecret = secret
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	case BackendFile:
		if c.Storage.File == "" {
			return errors.New("storage.file is required for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.rps and ratelimit.burst must be positive")
	}
	if c.Cart.TokenTTL <= 0 {
		return errors.New("cart.token_ttl must be positive")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate cart token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
