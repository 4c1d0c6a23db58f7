// Package config loads service configuration from an optional file plus
// APERTURE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "APERTURE"

type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	LogLevel string `mapstructure:"log_level"`

	PostgresDSN string `mapstructure:"postgres_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	PolicyPath string `mapstructure:"policy_path"`

	SignerSeedHex    string `mapstructure:"signer_seed_hex"`
	SignerKeyBase64  string `mapstructure:"signer_key_base64"`
	KeyAgentAddr     string `mapstructure:"key_agent_addr"`
	KeyAgentToken    string `mapstructure:"key_agent_token"`
	KeyAttestation   string `mapstructure:"key_attestation"`

	TileSize    int           `mapstructure:"tile_size"`
	SignTimeout time.Duration `mapstructure:"sign_timeout"`

	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("tile_size", 256)
	v.SetDefault("sign_timeout", 10*time.Second)
	v.SetDefault("rate_limit_requests", 0)
	v.SetDefault("rate_limit_window", time.Minute)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("redis_db", 0)
}

// Load reads the config file at path when given, otherwise environment
// variables and defaults only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive, got %d", c.TileSize)
	}
	if c.SignTimeout <= 0 {
		return fmt.Errorf("sign_timeout must be positive, got %s", c.SignTimeout)
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}
