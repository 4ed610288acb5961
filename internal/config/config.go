// Package config provides configuration management for wod.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/wod-cli/internal/domain"
)

const (
	appDirName     = ".wod"
	defaultDataDir = "~/" + appDirName
	envPrefix      = "WOD"
)

// Config holds all configuration for the wod application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds the defaults applied to new blocks and quick timers.
type TimerConfig struct {
	PrepareTime      Duration `mapstructure:"prepare_time"`
	StopwatchCeiling Duration `mapstructure:"stopwatch_ceiling"`
	TickInterval     Duration `mapstructure:"tick_interval"`
	AutoClose        Duration `mapstructure:"auto_close"`
	DefaultMode      string   `mapstructure:"default_mode"`
	DefaultWork      Duration `mapstructure:"default_work"`
	DefaultRest      Duration `mapstructure:"default_rest"`
	DefaultRounds    int      `mapstructure:"default_rounds"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork           string `mapstructure:"color_work"`
	ColorRest           string `mapstructure:"color_rest"`
	ColorPrepare        string `mapstructure:"color_prepare"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorHelp           string `mapstructure:"color_help"`
	WorkGradientStart   string `mapstructure:"work_gradient_start"`
	WorkGradientEnd     string `mapstructure:"work_gradient_end"`
	RestGradientStart   string `mapstructure:"rest_gradient_start"`
	RestGradientEnd     string `mapstructure:"rest_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconPaused          string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:           "#E4572E",
		ColorRest:           "#4ECDC4",
		ColorPrepare:        "#F3A712",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorHelp:           "#95A5A6",
		WorkGradientStart:   "#E4572E",
		WorkGradientEnd:     "#F3A712",
		RestGradientStart:   "#4ECDC4",
		RestGradientEnd:     "#2ECC71",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "🏋",
		IconPaused:          "⏸",
	}
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

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds log output settings. An empty File logs to
// wod.log in the data directory.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Stdout bool   `mapstructure:"stdout"`
	JSON   bool   `mapstructure:"json"`
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

// Seconds returns the duration in whole seconds.
func (d Duration) Seconds() int {
	return int(time.Duration(d) / time.Second)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			PrepareTime:      Duration(10 * time.Second),
			StopwatchCeiling: Duration(time.Hour),
			TickInterval:     Duration(250 * time.Millisecond),
			AutoClose:        Duration(5 * time.Second),
			DefaultMode:      string(domain.ModeInterval),
			DefaultWork:      Duration(30 * time.Second),
			DefaultRest:      Duration(15 * time.Second),
			DefaultRounds:    3,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when missing. WOD_* environment variables override the file,
// e.g. WOD_TIMER_PREPARE_TIME=5s.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
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

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes the configuration to configPath.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	v.Set("timer.prepare_time", cfg.Timer.PrepareTime.String())
	v.Set("timer.stopwatch_ceiling", cfg.Timer.StopwatchCeiling.String())
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("timer.auto_close", cfg.Timer.AutoClose.String())
	v.Set("timer.default_mode", cfg.Timer.DefaultMode)
	v.Set("timer.default_work", cfg.Timer.DefaultWork.String())
	v.Set("timer.default_rest", cfg.Timer.DefaultRest.String())
	v.Set("timer.default_rounds", cfg.Timer.DefaultRounds)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.stdout", cfg.Logging.Stdout)
	v.Set("logging.json", cfg.Logging.JSON)
	v.Set("theme", themeMap(cfg.Theme))

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName, "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "wod.db")
}

// GetLogPath returns the path of the log file.
func GetLogPath(cfg *Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	return filepath.Join(cfg.Storage.DataDir, "wod.log")
}

// DefaultSettings returns the timer settings new blocks start from.
// An unknown default mode falls back to interval.
func (c *Config) DefaultSettings() domain.TimerSettings {
	mode, err := domain.ValidateTimerMode(c.Timer.DefaultMode)
	if err != nil {
		mode = domain.ModeInterval
	}

	s := domain.TimerSettings{
		Mode:        mode,
		WorkTime:    c.Timer.DefaultWork.Seconds(),
		RestTime:    c.Timer.DefaultRest.Seconds(),
		Rounds:      c.Timer.DefaultRounds,
		PrepareTime: c.Timer.PrepareTime.Seconds(),
	}
	if mode == domain.ModeStopwatch {
		s.WorkTime = c.Timer.StopwatchCeiling.Seconds()
	}
	return s.Normalize()
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	return v
}

func expandHome(dir string) (string, error) {
	if dir != "" && dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if dir == "" || dir == "~" {
		return filepath.Join(homeDir, appDirName), nil
	}
	return filepath.Join(homeDir, dir[2:]), nil
}

func themeMap(t ThemeConfig) map[string]any {
	return map[string]any{
		"color_work":            t.ColorWork,
		"color_rest":            t.ColorRest,
		"color_prepare":         t.ColorPrepare,
		"color_paused":          t.ColorPaused,
		"color_title":           t.ColorTitle,
		"color_help":            t.ColorHelp,
		"work_gradient_start":   t.WorkGradientStart,
		"work_gradient_end":     t.WorkGradientEnd,
		"rest_gradient_start":   t.RestGradientStart,
		"rest_gradient_end":     t.RestGradientEnd,
		"paused_gradient_start": t.PausedGradientStart,
		"paused_gradient_end":   t.PausedGradientEnd,
		"icon_app":              t.IconApp,
		"icon_paused":           t.IconPaused,
	}
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.prepare_time", d.Timer.PrepareTime.String())
	v.SetDefault("timer.stopwatch_ceiling", d.Timer.StopwatchCeiling.String())
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	v.SetDefault("timer.auto_close", d.Timer.AutoClose.String())
	v.SetDefault("timer.default_mode", d.Timer.DefaultMode)
	v.SetDefault("timer.default_work", d.Timer.DefaultWork.String())
	v.SetDefault("timer.default_rest", d.Timer.DefaultRest.String())
	v.SetDefault("timer.default_rounds", d.Timer.DefaultRounds)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.stdout", d.Logging.Stdout)
	v.SetDefault("logging.json", d.Logging.JSON)

	for key, value := range themeMap(d.Theme) {
		v.SetDefault("theme."+key, value)
	}
}
