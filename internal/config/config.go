// Package config loads eatnsplit settings from defaults, an optional TOML
// file, a .env file and EATNSPLIT_* environment variables (highest wins).
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
	AMQP   AMQPConfig
	Ledger LedgerConfig
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port int
}

// StoreConfig selects the registry backend.
type StoreConfig struct {
	Backend string // memory or sqlite
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string // TUI only: where logs go while the alt screen is up
}

// AMQPConfig holds event publishing settings. An empty URL disables publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// LedgerConfig holds ledger behavior settings.
type LedgerConfig struct {
	SeedDemo     bool   `mapstructure:"seed_demo"`
	DefaultImage string `mapstructure:"default_image"`
}

var validBackends = []string{"memory", "sqlite"}

// Load reads configuration. A missing .env or config file is not an error.
// Env var overrides use prefix EATNSPLIT_, e.g. EATNSPLIT_SERVER_PORT.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "eatnsplit")
	v.SetDefault("ledger.seed_demo", false)
	v.SetDefault("ledger.default_image", "https://i.pravatar.cc/48")

	v.SetConfigType("toml")
	if path := os.Getenv("EATNSPLIT_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("EATNSPLIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate validates the configuration and returns an error listing every problem.
func (c Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}

	isValidBackend := false
	for _, backend := range validBackends {
		if c.Store.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.Store.Backend, validBackends))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.Log.Level))
	}

	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Ledger.DefaultImage == "" {
		errors = append(errors, "default image cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
