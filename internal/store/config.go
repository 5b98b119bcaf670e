package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"smarttodo-cli/internal/i18n"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config is the user's client configuration (config.yaml in the store dir).
type Config struct {
	// Server is the base URL of the web application.
	Server string `yaml:"server" json:"server"`
	// Locale selects the string catalog and date layouts (BCP-47, e.g. zh-CN, en).
	Locale string `yaml:"locale" json:"locale"`
	// Timezone is an IANA zone name. Naive backend timestamps are read in this zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeoutSeconds"`
	RatePerSecond  float64 `yaml:"rate_per_second" json:"ratePerSecond"`
	RateBurst      int     `yaml:"rate_burst" json:"rateBurst"`
	Retries        int     `yaml:"retries" json:"retries"`

	// Format is the default CLI output format (json|table).
	Format string `yaml:"format" json:"format"`
}

func DefaultConfig() Config {
	return Config{
		Server:         "http://127.0.0.1:5000",
		Locale:         i18n.DefaultLocale,
		Timezone:       "Asia/Shanghai",
		TimeoutSeconds: 10,
		RatePerSecond:  5,
		RateBurst:      10,
		Retries:        3,
		Format:         "json",
	}
}

// ConfigDir is ~/.smarttodo unless SMARTTODO_CONFIG_DIR is set.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.smarttodo).
	if v := strings.TrimSpace(os.Getenv("SMARTTODO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".smarttodo"), nil
}

// LoadConfig reads config.yaml over the defaults. A missing file yields the defaults.
func (s Store) LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(s.configPath())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (s Store) SaveConfig(cfg Config) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	cfg.normalize()
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "config.yaml.*.tmp", s.configPath(), b, 0o600)
}

func (c *Config) normalize() {
	d := DefaultConfig()
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	if c.Server == "" {
		c.Server = d.Server
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = d.Locale
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = d.Timezone
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = d.RatePerSecond
	}
	if c.RateBurst <= 0 {
		c.RateBurst = d.RateBurst
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = d.Format
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ConfigKeys lists the keys accepted by Set, in display order.
func ConfigKeys() []string {
	return []string{"server", "locale", "timezone", "timeout_seconds", "rate_per_second", "rate_burst", "retries", "format"}
}

// Set assigns one config key from its string form, validating the value.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "server":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("server must be an http(s) URL, got %q", value)
		}
		c.Server = strings.TrimRight(value, "/")
	case "locale":
		if _, err := i18n.Resolve(value); err != nil {
			return err
		}
		c.Locale = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "timeout_seconds", "rate_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		if key == "timeout_seconds" {
			c.TimeoutSeconds = n
		} else {
			c.RateBurst = n
		}
	case "retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("retries must be a non-negative integer, got %q", value)
		}
		c.Retries = n
	case "rate_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("rate_per_second must be a positive number, got %q", value)
		}
		c.RatePerSecond = f
	case "format":
		if value != "json" && value != "table" {
			return fmt.Errorf("format must be json or table, got %q", value)
		}
		c.Format = value
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
