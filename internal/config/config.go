// Package config provides configuration management for unfocus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/unfocus/internal/domain"
)

// Config holds all configuration for the unfocus application.
type Config struct {
	Defaults      DefaultsConfig     `mapstructure:"defaults"`
	Breaks        BreaksConfig       `mapstructure:"breaks"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
}

// DefaultsConfig holds the settings used on first run, before the user has
// changed anything.
type DefaultsConfig struct {
	Interval      int    `mapstructure:"interval"`
	Sound         bool   `mapstructure:"sound"`
	Notifications bool   `mapstructure:"notifications"`
	Theme         string `mapstructure:"theme"`
}

// BreaksConfig restricts the break catalog.
type BreaksConfig struct {
	// Types lists enabled break types. Empty means all.
	Types []string `mapstructure:"types"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	// Enabled is a master switch for desktop notifications and the chime,
	// independent of the in-app toggles.
	Enabled bool   `mapstructure:"enabled"`
	Title   string `mapstructure:"title"`
}

// SchedulerConfig holds the tick driver settings.
type SchedulerConfig struct {
	Tick Duration `mapstructure:"tick"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is the log file used while the TUI owns the terminal. Relative
	// paths are resolved against the data directory.
	File string `mapstructure:"file"`
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

const defaultDataDir = "~/.unfocus"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := domain.DefaultSettings()
	return &Config{
		Defaults: DefaultsConfig{
			Interval:      d.Interval,
			Sound:         d.SoundEnabled,
			Notifications: d.NotificationsEnabled,
			Theme:         d.ThemeID,
		},
		Breaks: BreaksConfig{
			Types: []string{},
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Title:   "unfocus",
		},
		Scheduler: SchedulerConfig{
			Tick: Duration(time.Second),
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir:   defaultDataDir,
			KeyPrefix: "unfocus-",
		},
		Log: LogConfig{
			Level: "info",
			File:  "unfocus.log",
		},
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("defaults.interval", cfg.Defaults.Interval)
	v.Set("defaults.sound", cfg.Defaults.Sound)
	v.Set("defaults.notifications", cfg.Defaults.Notifications)
	v.Set("defaults.theme", cfg.Defaults.Theme)
	v.Set("breaks.types", cfg.Breaks.Types)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.title", cfg.Notifications.Title)
	v.Set("scheduler.tick", cfg.Scheduler.Tick.String())
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.key_prefix", cfg.Storage.KeyPrefix)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".unfocus", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "unfocus.db")
}

// GetLogPath returns the path of the log file used by the TUI.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File == "" {
		return filepath.Join(cfg.Storage.DataDir, "unfocus.log")
	}
	if filepath.IsAbs(cfg.Log.File) {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, cfg.Log.File)
}

// DefaultSettings converts the [defaults] section into domain settings,
// repairing invalid values.
func (c *Config) DefaultSettings() domain.Settings {
	s := domain.Settings{
		Interval:             c.Defaults.Interval,
		SoundEnabled:         c.Defaults.Sound,
		NotificationsEnabled: c.Defaults.Notifications,
		ThemeID:              c.Defaults.Theme,
	}
	return s.Sanitize(domain.DefaultSettings())
}

// BreakTypes parses the [breaks] types list. Unknown names are reported
// as an error rather than silently dropped.
func (c *Config) BreakTypes() ([]domain.BreakType, error) {
	var types []domain.BreakType
	for _, name := range c.Breaks.Types {
		t, err := domain.ParseBreakType(name)
		if err != nil {
			return nil, fmt.Errorf("breaks.types: %w", err)
		}
		types = append(types, t)
	}
	return types, nil
}

// Catalog returns the break catalog restricted to the configured types.
func (c *Config) Catalog() ([]domain.BreakContent, error) {
	types, err := c.BreakTypes()
	if err != nil {
		return nil, err
	}
	catalog := domain.FilterCatalog(domain.DefaultCatalog(), types)
	if len(catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return catalog, nil
}

// TickInterval returns the scheduler period, never less than 10ms.
func (c *Config) TickInterval() time.Duration {
	d := time.Duration(c.Scheduler.Tick)
	if d < 10*time.Millisecond {
		return time.Second
	}
	return d
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("defaults.interval", d.Defaults.Interval)
	v.SetDefault("defaults.sound", d.Defaults.Sound)
	v.SetDefault("defaults.notifications", d.Defaults.Notifications)
	v.SetDefault("defaults.theme", d.Defaults.Theme)
	v.SetDefault("breaks.types", d.Breaks.Types)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.title", d.Notifications.Title)
	v.SetDefault("scheduler.tick", d.Scheduler.Tick.String())
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.key_prefix", d.Storage.KeyPrefix)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// expandHome resolves a leading ~ in path.
func expandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
