// Package config loads the kitchen server configuration from a YAML file,
// an optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Forecast providers
const (
	ForecastHeuristic = "heuristic"
	ForecastOpenAI    = "openai"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Store    StoreConfig    `yaml:"store"`
	Events   EventsConfig   `yaml:"events"`
	Forecast ForecastConfig `yaml:"forecast"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

type StoreConfig struct {
	Driver        string        `yaml:"driver"`
	DatabaseURL   string        `yaml:"database_url"`
	MongoURI      string        `yaml:"mongodb_uri"`
	MongoDatabase string        `yaml:"mongodb_database"`
	Seed          bool          `yaml:"seed"`
	Timeout       time.Duration `yaml:"timeout"`
}

type EventsConfig struct {
	AMQPURL string `yaml:"amqp_url"`
}

type ForecastConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	OpenAIKey string `yaml:"openai_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:      80,
			StaticDir: "public",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Store: StoreConfig{
			Driver:        DriverSQLite,
			DatabaseURL:   "thunderbolts.db",
			MongoDatabase: "thunderbolts",
			Seed:          true,
			Timeout:       5 * time.Second,
		},
		Forecast: ForecastConfig{
			Provider: ForecastHeuristic,
			Model:    "gpt-4o-mini",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path, then .env, then the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load() // load .env if it exists

	driverSet := os.Getenv("STORE_DRIVER") != ""
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if !driverSet && os.Getenv("MONGODB_URI") != "" {
		cfg.Store.Driver = DriverMongo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" && err == nil {
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				err = fmt.Errorf("%s must be an integer: %w", key, convErr)
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setInt("PORT", &cfg.Server.Port)
	setInt("METRICS_PORT", &cfg.Metrics.Port)
	setString("STATIC_DIR", &cfg.Server.StaticDir)
	setString("STORE_DRIVER", &cfg.Store.Driver)
	setString("DATABASE_URL", &cfg.Store.DatabaseURL)
	setString("MONGODB_URI", &cfg.Store.MongoURI)
	setString("MONGODB_DATABASE", &cfg.Store.MongoDatabase)
	setString("AMQP_URL", &cfg.Events.AMQPURL)
	setString("FORECAST_PROVIDER", &cfg.Forecast.Provider)
	setString("FORECAST_MODEL", &cfg.Forecast.Model)
	setString("OPENAI_API_KEY", &cfg.Forecast.OpenAIKey)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)

	if v := os.Getenv("STORE_SEED"); v != "" && err == nil {
		seed, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return fmt.Errorf("STORE_SEED must be a boolean: %w", parseErr)
		}
		cfg.Store.Seed = seed
	}
	return err
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the %s store", c.Store.Driver)
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("mongodb_uri is required for the mongo store")
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	switch c.Forecast.Provider {
	case ForecastHeuristic, ForecastOpenAI:
	default:
		return fmt.Errorf("unsupported forecast provider: %s", c.Forecast.Provider)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}

	if c.Server.Port <= 0 || c.Metrics.Port <= 0 {
		return fmt.Errorf("ports must be positive")
	}
	if c.Store.Timeout <= 0 {
		c.Store.Timeout = Default().Store.Timeout
	}
	return nil
}

// Redacted returns a copy safe to log
func (c Config) Redacted() Config {
	c.Forecast.OpenAIKey = redactSecret(c.Forecast.OpenAIKey)
	c.Store.DatabaseURL = redactURL(c.Store.DatabaseURL)
	c.Store.MongoURI = redactURL(c.Store.MongoURI)
	c.Events.AMQPURL = redactURL(c.Events.AMQPURL)
	return c
}

func redactSecret(s string) string {
	if len(s) > 8 {
		return s[:8] + "...REDACTED..."
	}
	if s != "" {
		return "REDACTED"
	}
	return s
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
