package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the relay bot.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Download DownloadConfig `yaml:"download"`
	Relay    RelayConfig    `yaml:"relay"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
}

// TelegramConfig holds the bot credentials and access control. The
// token is a secret: it is normally supplied via
// TIKRELAY_TELEGRAM_TOKEN rather than written into the config file.
type TelegramConfig struct {
	Token     string  `yaml:"token" envconfig:"TIKRELAY_TELEGRAM_TOKEN"`
	AllowFrom []int64 `yaml:"allow_from" envconfig:"TIKRELAY_TELEGRAM_ALLOW_FROM"`
}

// DownloadConfig tunes the yt-dlp invocation.
type DownloadConfig struct {
	Binary               string `yaml:"binary" envconfig:"TIKRELAY_YTDLP_BINARY"`
	Retries              int    `yaml:"retries" envconfig:"TIKRELAY_DOWNLOAD_RETRIES"`
	SocketTimeoutSeconds int    `yaml:"socket_timeout_seconds" envconfig:"TIKRELAY_SOCKET_TIMEOUT_SECONDS"`
	UserAgent            string `yaml:"user_agent" envconfig:"TIKRELAY_USER_AGENT"`
	Referer              string `yaml:"referer" envconfig:"TIKRELAY_REFERER"`
}

// RelayConfig tunes the request pipeline.
type RelayConfig struct {
	WorkRoot           string `yaml:"work_root" envconfig:"TIKRELAY_WORK_ROOT"`
	SendTimeoutSeconds int    `yaml:"send_timeout_seconds" envconfig:"TIKRELAY_SEND_TIMEOUT_SECONDS"`
	BusBuffer          int    `yaml:"bus_buffer" envconfig:"TIKRELAY_BUS_BUFFER"`
}

// HealthConfig configures the liveness HTTP endpoint.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"TIKRELAY_HEALTH_ENABLED"`
	Host    string `yaml:"host" envconfig:"TIKRELAY_HEALTH_HOST"`
	Port    int    `yaml:"port" envconfig:"TIKRELAY_HEALTH_PORT"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"TIKRELAY_LOG_LEVEL"`
}

// DefaultConfigDir returns ~/.tikrelay.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tikrelay"
	}
	return filepath.Join(home, ".tikrelay")
}

// DefaultConfigPath returns ~/.tikrelay/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads configuration from an optional YAML file, applies
// environment overrides, and validates the result. An empty path skips
// the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Save writes cfg as YAML. Mode 0600 because the file may hold a token.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks structural invariants. The token is checked at
// startup, not here, so init/doctor can work on tokenless files.
func Validate(cfg *Config) error {
	if cfg.Download.Binary == "" {
		return fmt.Errorf("download.binary must not be empty")
	}
	if cfg.Download.Retries < 0 || cfg.Download.Retries > 100 {
		return fmt.Errorf("download.retries must be in [0,100], got %d", cfg.Download.Retries)
	}
	if cfg.Download.SocketTimeoutSeconds <= 0 {
		return fmt.Errorf("download.socket_timeout_seconds must be positive, got %d", cfg.Download.SocketTimeoutSeconds)
	}
	if cfg.Relay.SendTimeoutSeconds <= 0 {
		return fmt.Errorf("relay.send_timeout_seconds must be positive, got %d", cfg.Relay.SendTimeoutSeconds)
	}
	if cfg.Relay.BusBuffer <= 0 {
		return fmt.Errorf("relay.bus_buffer must be positive, got %d", cfg.Relay.BusBuffer)
	}
	if cfg.Health.Port < 1 || cfg.Health.Port > 65535 {
		return fmt.Errorf("health.port must be in [1,65535], got %d", cfg.Health.Port)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", cfg.Log.Level)
	}
	return nil
}
