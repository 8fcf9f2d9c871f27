package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const APP_NAME string = "skyward_gpa_tui"

const (
	DefaultServerURL    = "http://localhost:5000"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPrepareDelay = 300 * time.Millisecond
	DefaultErrorDelay   = 2 * time.Second
)

type Config struct {
	ServerURL    string        `yaml:"server_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PrepareDelay time.Duration `yaml:"prepare_delay"`
	ErrorDelay   time.Duration `yaml:"error_delay"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
}

// Load reads the YAML file at path (or the default location when path is
// empty), applies SKYWARD_GPA_* environment overrides and fills defaults. A
// missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("SKYWARD_GPA_CONFIG")
	}
	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	envOverride(&cfg.ServerURL, "SKYWARD_GPA_SERVER_URL")
	envOverride(&cfg.LogFile, "SKYWARD_GPA_LOG_FILE")
	envOverride(&cfg.LogLevel, "SKYWARD_GPA_LOG_LEVEL")
	if err := envOverrideDuration(&cfg.PollInterval, "SKYWARD_GPA_POLL_INTERVAL"); err != nil {
		return Config{}, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PrepareDelay == 0 {
		c.PrepareDelay = DefaultPrepareDelay
	}
	if c.ErrorDelay == 0 {
		c.ErrorDelay = DefaultErrorDelay
	}
	if c.LogFile == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			c.LogFile = filepath.Join(dir, APP_NAME, APP_NAME+".log")
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server_url %q", c.ServerURL)
	}
	if c.PollInterval < 0 || c.PrepareDelay < 0 || c.ErrorDelay < 0 {
		return fmt.Errorf("poll_interval, prepare_delay and error_delay must not be negative")
	}
	return nil
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, APP_NAME, "config.yaml")
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideDuration(target *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*target = d
	return nil
}
