package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from the defaults, then
// the YAML file named by PROFESSIONALS_CONFIG, then environment variables.
type Config struct {
	Addr       string        `yaml:"addr"`         // PROFESSIONALS_ADDR, default ":8080"
	APIBaseURL string        `yaml:"api_base_url"` // PROFESSIONALS_API_URL, default "http://localhost:8000/api"
	APITimeout time.Duration `yaml:"api_timeout"`  // PROFESSIONALS_API_TIMEOUT, default 10s

	StubAddr       string   `yaml:"stub_addr"`       // PROFESSIONALS_STUB_ADDR, default ":8000"
	DBPath         string   `yaml:"db_path"`         // PROFESSIONALS_DB, default "professionals.db"
	AllowedOrigins []string `yaml:"allowed_origins"` // PROFESSIONALS_ALLOWED_ORIGINS, comma separated
	StubRateLimit  float64  `yaml:"stub_rate_limit"` // PROFESSIONALS_STUB_RATE_LIMIT, requests/second, 0 disables
	StubRateBurst  int      `yaml:"stub_rate_burst"` // PROFESSIONALS_STUB_RATE_BURST, default 20

	LogLevel  string `yaml:"log_level"`  // PROFESSIONALS_LOG_LEVEL, default "info"
	LogFormat string `yaml:"log_format"` // PROFESSIONALS_LOG_FORMAT, "text" or "json"

	DateLayout string        `yaml:"date_layout"` // PROFESSIONALS_DATE_LAYOUT, default "1/2/2006"
	Timezone   string        `yaml:"timezone"`    // PROFESSIONALS_TIMEZONE, default "UTC"
	RenderWait time.Duration `yaml:"render_wait"` // PROFESSIONALS_RENDER_WAIT, default 2s
	SessionTTL time.Duration `yaml:"session_ttl"` // PROFESSIONALS_SESSION_TTL, default 30m
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Addr:           ":8080",
		APIBaseURL:     "http://localhost:8000/api",
		APITimeout:     10 * time.Second,
		StubAddr:       ":8000",
		DBPath:         "professionals.db",
		AllowedOrigins: []string{"http://localhost:8080"},
		StubRateBurst:  20,
		LogLevel:       "info",
		LogFormat:      "text",
		DateLayout:     "1/2/2006",
		Timezone:       "UTC",
		RenderWait:     2 * time.Second,
		SessionTTL:     30 * time.Minute,
	}
}

// Load reads configuration from the optional config file and environment
// variables on top of Defaults.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("PROFESSIONALS_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be verified by type alone.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %s", c.APITimeout)
	}
	if c.StubRateLimit < 0 {
		return fmt.Errorf("stub_rate_limit must not be negative, got %v", c.StubRateLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Addr = envOr("PROFESSIONALS_ADDR", cfg.Addr)
	cfg.APIBaseURL = envOr("PROFESSIONALS_API_URL", cfg.APIBaseURL)
	cfg.StubAddr = envOr("PROFESSIONALS_STUB_ADDR", cfg.StubAddr)
	cfg.DBPath = envOr("PROFESSIONALS_DB", cfg.DBPath)
	cfg.LogLevel = envOr("PROFESSIONALS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("PROFESSIONALS_LOG_FORMAT", cfg.LogFormat)
	cfg.DateLayout = envOr("PROFESSIONALS_DATE_LAYOUT", cfg.DateLayout)
	cfg.Timezone = envOr("PROFESSIONALS_TIMEZONE", cfg.Timezone)

	if v := os.Getenv("PROFESSIONALS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	var err error
	if cfg.APITimeout, err = envDuration("PROFESSIONALS_API_TIMEOUT", cfg.APITimeout); err != nil {
		return err
	}
	if cfg.RenderWait, err = envDuration("PROFESSIONALS_RENDER_WAIT", cfg.RenderWait); err != nil {
		return err
	}
	if cfg.SessionTTL, err = envDuration("PROFESSIONALS_SESSION_TTL", cfg.SessionTTL); err != nil {
		return err
	}

	if v := os.Getenv("PROFESSIONALS_STUB_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse PROFESSIONALS_STUB_RATE_LIMIT: %w", err)
		}
		cfg.StubRateLimit = f
	}
	if v := os.Getenv("PROFESSIONALS_STUB_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PROFESSIONALS_STUB_RATE_BURST: %w", err)
		}
		cfg.StubRateBurst = n
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
