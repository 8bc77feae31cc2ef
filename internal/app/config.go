package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"pigeon/internal/vault"
)

const (
	configFile = "config.yaml"
	envFile    = ".env"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string `yaml:"-"`         // config directory, e.g. $HOME/.pigeon
	RelayURL string `yaml:"relay_url"` // relay base URL, e.g. http://127.0.0.1:8080

	// Recipe is the template for wrapping new private keys. Zero means
	// vault.DefaultRecipe.
	Recipe vault.Recipe `yaml:"recipe"`

	Timeout           time.Duration `yaml:"timeout"`
	Workers           int           `yaml:"workers"`
	MaxUnlockAttempts int           `yaml:"max_unlock_attempts"`
	LogLevel          string        `yaml:"log_level"`

	HTTP *http.Client `yaml:"-"` // optional; defaults to a client with Timeout
}

func (c *Config) setDefaults() {
	if c.RelayURL == "" {
		c.RelayURL = "http://127.0.0.1:8080"
	}
	if c.Recipe.Version == 0 {
		c.Recipe = vault.DefaultRecipe()
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxUnlockAttempts <= 0 {
		c.MaxUnlockAttempts = 3
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// DefaultHome is $PIGEON_HOME, or ~/.pigeon.
func DefaultHome() (string, error) {
	if h := os.Getenv("PIGEON_HOME"); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".pigeon"), nil
}

// LoadConfig reads home/config.yaml, then applies PIGEON_* variables from
// the environment and from home/.env. Variables already set in the
// environment win over .env. Missing files are fine.
func LoadConfig(home string) (Config, error) {
	cfg := Config{Home: home}

	if err := godotenv.Load(filepath.Join(home, envFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}

	b, err := os.ReadFile(filepath.Join(home, configFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.setDefaults()
	if err := cfg.Recipe.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s recipe: %w", configFile, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PIGEON_RELAY_URL"); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv("PIGEON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PIGEON_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PIGEON_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("PIGEON_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PIGEON_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Save writes the file-backed fields to home/config.yaml.
func (c Config) Save() error {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Home, configFile), b, 0o600)
}
