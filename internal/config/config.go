package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Daemon contains daemon lifecycle tuning.
type Daemon struct {
	StopPollInterval int `toml:"stop_poll_interval_ms"`
	StopPollAttempts int `toml:"stop_poll_attempts"`
	LogSnapshotLines int `toml:"log_snapshot_lines"`
}

// Market contains configuration for the market data service.
type Market struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Pricing contains charge rationale configuration for offerings.
type Pricing struct {
	Currency   string             `toml:"currency"`
	BaseFee    float64            `toml:"base_fee"`
	Surcharges map[string]float64 `toml:"surcharges"`
}

// Config is the root configuration document.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Daemon  Daemon  `toml:"daemon"`
	Market  Market  `toml:"market"`
	Pricing Pricing `toml:"pricing"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// LogPath returns the daemon's append-only log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "hawker.log")
}

// StatePath returns the shared state store location.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.DataDir, "state.db")
}

// SocketPath returns the daemon IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.DataDir, "hawker.sock")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "hawker.lock")
}

// EnsureDirectories creates the configured directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/hawker/config.toml")
}

// Load reads configuration from path, falling back to the default location
// and then to built-in defaults when no file exists. It returns the effective
// config, the path consulted, and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
		resolved = def
	} else {
		expanded, err := ExpandPath(resolved)
		if err != nil {
			return nil, "", false, err
		}
		resolved = expanded
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if normErr := cfg.normalize(); normErr != nil {
				return nil, resolved, false, normErr
			}
			return &cfg, resolved, false, nil
		}
		return nil, resolved, false, fmt.Errorf("read config %q: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, false, fmt.Errorf("parse config %q: %w", resolved, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, resolved, false, err
	}
	return &cfg, resolved, true, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	for _, entry := range []struct {
		name  string
		value *string
	}{
		{"paths.data_dir", &c.Paths.DataDir},
		{"paths.log_dir", &c.Paths.LogDir},
	} {
		expanded, err := ExpandPath(*entry.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", entry.name, err)
		}
		*entry.value = expanded
	}

	if c.Daemon.StopPollInterval <= 0 {
		c.Daemon.StopPollInterval = defaultStopPollIntervalMS
	}
	if c.Daemon.StopPollAttempts <= 0 {
		c.Daemon.StopPollAttempts = defaultStopPollAttempts
	}
	if c.Daemon.LogSnapshotLines <= 0 {
		c.Daemon.LogSnapshotLines = defaultLogSnapshotLines
	}
	if c.Market.RequestTimeout <= 0 {
		c.Market.RequestTimeout = defaultMarketTimeout
	}
	if strings.TrimSpace(c.Market.BaseURL) == "" {
		c.Market.BaseURL = defaultMarketBaseURL
	}
	if strings.TrimSpace(c.Pricing.Currency) == "" {
		c.Pricing.Currency = defaultPricingCurrency
	}
	if c.Pricing.BaseFee < 0 {
		return fmt.Errorf("pricing.base_fee must not be negative")
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = defaultLogFormat
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
