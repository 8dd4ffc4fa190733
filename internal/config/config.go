// Package config provides configuration management for the fasting CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the fasting application.
type Config struct {
	Fasting       FastingConfig      `mapstructure:"fasting"`
	Server        ServerConfig       `mapstructure:"server"`
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	Sync          SyncConfig         `mapstructure:"sync"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Serve         ServeConfig        `mapstructure:"serve"`
}

// FastingConfig holds fasting defaults.
type FastingConfig struct {
	DefaultType        string  `mapstructure:"default_type"`
	CustomTargetHours  float64 `mapstructure:"custom_target_hours"`
	AutoEndEnabled     bool    `mapstructure:"auto_end_enabled"`
	CompletionReminder bool    `mapstructure:"completion_reminder"`
}

// ServerConfig holds the remote API connection settings.
type ServerConfig struct {
	URL     string   `mapstructure:"url"`
	Timeout Duration `mapstructure:"timeout"`
}

// MonitorConfig holds auto-start monitor settings.
type MonitorConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ScanInterval    Duration `mapstructure:"scan_interval"`
	RefreshInterval Duration `mapstructure:"refresh_interval"`
	StartWindow     Duration `mapstructure:"start_window"`
}

// SyncConfig holds offline queue settings.
type SyncConfig struct {
	ProbeInterval Duration `mapstructure:"probe_interval"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds local storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ServeConfig holds the embedded reference server settings.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fasting: FastingConfig{
			DefaultType:        "16:8",
			CustomTargetHours:  16,
			AutoEndEnabled:     true,
			CompletionReminder: true,
		},
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: Duration(10 * time.Second),
		},
		Monitor: MonitorConfig{
			Enabled:         true,
			ScanInterval:    Duration(time.Minute),
			RefreshInterval: Duration(5 * time.Minute),
			StartWindow:     Duration(5 * time.Minute),
		},
		Sync: SyncConfig{
			ProbeInterval: Duration(15 * time.Second),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: "~/.fasting",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	setDefaults()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == "~/.fasting" || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".fasting")
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	viper.Set("fasting.default_type", cfg.Fasting.DefaultType)
	viper.Set("fasting.custom_target_hours", cfg.Fasting.CustomTargetHours)
	viper.Set("fasting.auto_end_enabled", cfg.Fasting.AutoEndEnabled)
	viper.Set("fasting.completion_reminder", cfg.Fasting.CompletionReminder)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.timeout", cfg.Server.Timeout.String())
	viper.Set("monitor.enabled", cfg.Monitor.Enabled)
	viper.Set("monitor.scan_interval", cfg.Monitor.ScanInterval.String())
	viper.Set("monitor.refresh_interval", cfg.Monitor.RefreshInterval.String())
	viper.Set("monitor.start_window", cfg.Monitor.StartWindow.String())
	viper.Set("sync.probe_interval", cfg.Sync.ProbeInterval.String())
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("notifications.sound", cfg.Notifications.Sound)
	viper.Set("mcp.enabled", cfg.MCP.Enabled)
	viper.Set("storage.data_dir", cfg.Storage.DataDir)
	viper.Set("serve.addr", cfg.Serve.Addr)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fasting", "config.toml"), nil
}

// GetDBPath returns the path to the device-local database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "fasting.db")
}

// GetServerDBPath returns the path to the reference server's database.
func GetServerDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "server.db")
}

// setDefaults sets default values for viper.
func setDefaults() {
	viper.SetDefault("fasting.default_type", "16:8")
	viper.SetDefault("fasting.custom_target_hours", 16.0)
	viper.SetDefault("fasting.auto_end_enabled", true)
	viper.SetDefault("fasting.completion_reminder", true)
	viper.SetDefault("server.url", "http://localhost:8080")
	viper.SetDefault("server.timeout", "10s")
	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.scan_interval", "1m0s")
	viper.SetDefault("monitor.refresh_interval", "5m0s")
	viper.SetDefault("monitor.start_window", "5m0s")
	viper.SetDefault("sync.probe_interval", "15s")
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.sound", true)
	viper.SetDefault("mcp.enabled", true)
	viper.SetDefault("storage.data_dir", "~/.fasting")
	viper.SetDefault("serve.addr", ":8080")
}
