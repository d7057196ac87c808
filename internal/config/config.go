package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverDiskv  = "diskv"

	DefaultConfigPath = "~/.nova/config.yaml"
)

var ErrInvalidConfig = errors.New("config: invalid")

// RuntimeConfig is resolved from defaults, then the YAML file, then NOVA_*
// environment variables.
type RuntimeConfig struct {
	StoreDriver          string        `yaml:"store_driver"`
	StorePath            string        `yaml:"store_path"`
	TickInterval         time.Duration `yaml:"tick_interval"`
	SoundCeiling         time.Duration `yaml:"sound_ceiling"`
	SoundCommand         string        `yaml:"sound_command,omitempty"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	NotificationIcon     string        `yaml:"notification_icon"`
	LogLevel             string        `yaml:"log_level"`
	LogFile              string        `yaml:"log_file"`
	FiredBuffer          int           `yaml:"fired_buffer"`
	// WeekStart is the first column of the month view: monday or sunday.
	WeekStart            string        `yaml:"week_start"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StoreDriver:          DriverSQLite,
		StorePath:            "~/.nova/nova.db",
		TickInterval:         15 * time.Second,
		SoundCeiling:         30 * time.Second,
		DesktopNotifications: true,
		NotificationIcon:     "appointment-soon",
		LogLevel:             "info",
		LogFile:              "~/.nova/nova.log",
		FiredBuffer:          64,
		WeekStart:            "monday",
	}
}

// Normalize fills zero values from the defaults. A diskv store without an
// explicit path gets its own directory instead of the sqlite file name.
func (c *RuntimeConfig) Normalize() {
	def := DefaultRuntimeConfig()
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = def.StoreDriver
	}
	if strings.TrimSpace(c.StorePath) == "" || (c.StoreDriver == DriverDiskv && c.StorePath == def.StorePath) {
		if c.StoreDriver == DriverDiskv {
			c.StorePath = "~/.nova/slots"
		} else {
			c.StorePath = def.StorePath
		}
	}
	if c.TickInterval == 0 {
		c.TickInterval = def.TickInterval
	}
	if c.SoundCeiling == 0 {
		c.SoundCeiling = def.SoundCeiling
	}
	if c.NotificationIcon == "" {
		c.NotificationIcon = def.NotificationIcon
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.FiredBuffer <= 0 {
		c.FiredBuffer = def.FiredBuffer
	}
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = def.WeekStart
	}
}

// FirstWeekday is WeekStart as a time.Weekday.
func (c RuntimeConfig) FirstWeekday() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func (c RuntimeConfig) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverDiskv:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.TickInterval < time.Second {
		return fmt.Errorf("%w: tick_interval must be at least 1s, got %s", ErrInvalidConfig, c.TickInterval)
	}
	if c.SoundCeiling <= 0 {
		return fmt.Errorf("%w: sound_ceiling must be positive, got %s", ErrInvalidConfig, c.SoundCeiling)
	}
	return nil
}

// ExpandPaths resolves a leading ~ in path settings.
func (c *RuntimeConfig) ExpandPaths() error {
	var err error
	if c.StorePath, err = homedir.Expand(c.StorePath); err != nil {
		return fmt.Errorf("expand store path: %w", err)
	}
	if c.LogFile, err = homedir.Expand(c.LogFile); err != nil {
		return fmt.Errorf("expand log file: %w", err)
	}
	return nil
}

// Load reads path, writing the defaults there on first run, applies env
// overrides, and returns a validated config with expanded paths.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func loadFile(path string) (RuntimeConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRuntimeConfig(), nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultRuntimeConfig()
			if err := Save(expanded, cfg); err != nil {
				return cfg, fmt.Errorf("write default config: %w", err)
			}
			return cfg, nil
		}
		return RuntimeConfig{}, fmt.Errorf("read config: %w", err)
	}
	// Keys missing from the file keep their default values.
	cfg := DefaultRuntimeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, expanded, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg as YAML with 0600 permissions via temp file and rename.
func Save(path string, cfg RuntimeConfig) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".nova-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("NOVA_STORE_DRIVER"); ok {
		cfg.StoreDriver = v
	}
	if v, ok := getEnvString("NOVA_STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := getEnvDuration("NOVA_TICK_INTERVAL"); ok && v > 0 {
		cfg.TickInterval = v
	}
	if v, ok := getEnvDuration("NOVA_SOUND_CEILING"); ok && v > 0 {
		cfg.SoundCeiling = v
	}
	if v, ok := getEnvString("NOVA_SOUND_COMMAND"); ok {
		cfg.SoundCommand = v
	}
	if v, ok := getEnvBool("NOVA_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("NOVA_NOTIFICATION_ICON"); ok {
		cfg.NotificationIcon = v
	}
	if v, ok := getEnvString("NOVA_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("NOVA_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("NOVA_FIRED_BUFFER"); ok && v > 0 {
		cfg.FiredBuffer = v
	}
	if v, ok := getEnvString("NOVA_WEEK_START"); ok {
		cfg.WeekStart = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
