package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // "badger" or "mongo"
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
}

// RateLimitConfig sizes the per-IP token buckets.
type RateLimitConfig struct {
	PerMinute     int `yaml:"per_minute"`
	Burst         int `yaml:"burst"`
	AuthPerMinute int `yaml:"auth_per_minute"`
	AuthBurst     int `yaml:"auth_burst"`
}

// Config is the relay configuration, usually read from relay.yaml.
type Config struct {
	Addr      string        `yaml:"addr"`
	Storage   StorageConfig `yaml:"storage"`
	JWTIssuer string        `yaml:"jwt_issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// SigningKey is a base64 Ed25519 seed. Empty means a fresh key per
	// process, so tokens do not survive a restart.
	SigningKey string `yaml:"signing_key"`

	// TrustedProxies are addresses or CIDRs allowed to set
	// X-Forwarded-For. Empty means the header is ignored.
	TrustedProxies []string `yaml:"trusted_proxies"`

	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	MaxMessageBytes int             `yaml:"max_message_bytes"`
	MinPassword     int             `yaml:"min_password"`
	LogLevel        string          `yaml:"log_level"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "badger"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./relay-data"
	}
	if c.Storage.MongoDB == "" {
		c.Storage.MongoDB = "pigeon"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "pigeon-relay"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.RateLimit.PerMinute <= 0 {
		c.RateLimit.PerMinute = 600
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 100
	}
	if c.RateLimit.AuthPerMinute <= 0 {
		c.RateLimit.AuthPerMinute = 10
	}
	if c.RateLimit.AuthBurst <= 0 {
		c.RateLimit.AuthBurst = 10
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 64 << 10
	}
	if c.MinPassword <= 0 {
		c.MinPassword = 8
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads a YAML config file. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.setDefaults()
	return cfg, nil
}
