package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSeed       = "embedded"
	DefaultMaxVisible = 3
	DefaultView       = "month"
	DefaultLogLevel   = "info"
)

// Config is the on-disk application configuration.
type Config struct {
	// DBPath is the sqlite file. Empty means ~/.config/agenda/agenda.db.
	DBPath string `yaml:"db_path"`

	// Seed selects the seed source: "embedded", "none", a file path or an
	// http(s) URL to a JSON or ICS document.
	Seed string `yaml:"seed"`

	// SeedRefresh is a cron schedule for re-fetching the seed. Empty disables.
	SeedRefresh string `yaml:"seed_refresh"`

	MaxVisible  int    `yaml:"max_visible"`
	DefaultView string `yaml:"default_view"`

	// LogFile receives the log. Empty discards it; the terminal belongs to
	// the UI.
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Seed:        DefaultSeed,
		MaxVisible:  DefaultMaxVisible,
		DefaultView: DefaultView,
		LogLevel:    DefaultLogLevel,
	}
}

// Normalize fills zero or unknown values with defaults so partially-filled
// files still behave.
func (c *Config) Normalize() {
	if c.Seed == "" {
		c.Seed = DefaultSeed
	}
	if c.MaxVisible <= 0 {
		c.MaxVisible = DefaultMaxVisible
	}
	switch c.DefaultView {
	case "month", "list":
	default:
		c.DefaultView = DefaultView
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = DefaultLogLevel
	}
}

// DefaultPath returns ~/.config/agenda/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "agenda", "config.yaml"), nil
}

// Load reads the YAML file at path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".agenda-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
