package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Service  string `yaml:"-"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Gateway GatewayConfig `yaml:"gateway"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsToken   string `yaml:"metrics_token"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite, postgres
	DSN    string `yaml:"dsn"`
}

type SearchConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type GatewayConfig struct {
	CatalogueURL string `yaml:"catalogue_url"`
	SearchURL    string `yaml:"search_url"`
}

var defaultPorts = map[string]string{
	"gateway":   "8080",
	"catalogue": "8082",
	"search":    "8084",
}

func Default(service string) Config {
	port := defaultPorts[service]
	if port == "" {
		port = "8080"
	}
	return Config{
		Service:  service,
		Port:     port,
		LogLevel: "info",
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "inventar.db",
		},
		Search: SearchConfig{
			BaseURL:    "http://127.0.0.1:8000",
			Timeout:    10 * time.Second,
			RateLimit:  30,
			RateWindow: time.Minute,
		},
		Gateway: GatewayConfig{
			CatalogueURL: "http://catalogue:8082",
			SearchURL:    "http://search:8084",
		},
		MetricsEnabled: true,
	}
}

// Load layers configuration: defaults, then the YAML file named by CONFIG_FILE,
// then environment variables (a .env file in the working directory is merged
// into the environment first without overriding it).
func Load(service string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default(service)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.Storage.Driver = getenv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DSN = getenv("STORAGE_DSN", getenv("DATABASE_URL", cfg.Storage.DSN))
	cfg.Search.BaseURL = getenv("SEARCH_BASE_URL", cfg.Search.BaseURL)
	cfg.Gateway.CatalogueURL = getenv("CATALOGUE_URL", cfg.Gateway.CatalogueURL)
	cfg.Gateway.SearchURL = getenv("SEARCH_URL", cfg.Gateway.SearchURL)
	cfg.MetricsToken = getenv("METRICS_TOKEN", cfg.MetricsToken)
	cfg.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	var err error
	if cfg.Search.Timeout, err = durationEnv("SEARCH_TIMEOUT", cfg.Search.Timeout); err != nil {
		return err
	}
	if cfg.Search.RateWindow, err = durationEnv("SEARCH_RATE_WINDOW", cfg.Search.RateWindow); err != nil {
		return err
	}
	if v := os.Getenv("SEARCH_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEARCH_RATE_LIMIT: %w", err)
		}
		cfg.Search.RateLimit = n
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = b
	}
	return nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: storage dsn required for %s", ErrInvalidConfig, c.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Search.RateLimit <= 0 || c.Search.RateWindow <= 0 {
		return fmt.Errorf("%w: search rate limit must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Addr() string { return ":" + c.Port }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
