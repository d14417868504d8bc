package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"clickbreak/internal/platform"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CLICKBREAK_LOGGING_LEVEL.
	EnvPrefix      = "CLICKBREAK"
	configFileName = "config.yaml"
)

// Config holds the runtime configuration. User settings live in the settings store.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TrackingConfig selects the click sources.
type TrackingConfig struct {
	SystemWide           bool    `mapstructure:"system_wide"`
	Mode                 string  `mapstructure:"mode"`
	SimulatedInterval    string  `mapstructure:"simulated_interval"`
	SimulatedProbability float64 `mapstructure:"simulated_probability"`
}

// MetricsConfig defines the metrics endpoint. An empty address disables it.
type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"system-wide": "tracking.system_wide",
}

// DefaultPath returns the config file location inside the application's config directory.
func DefaultPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// Load loads configuration from file, environment variables and flags.
// A missing config file is not an error. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			if flag := flags.Lookup(flagName); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SimulatedIntervalDuration returns the parsed simulated click interval.
func (tracking TrackingConfig) SimulatedIntervalDuration() time.Duration {
	return parseDuration(tracking.SimulatedInterval, 100*time.Millisecond)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("tracking.system_wide", false)
	v.SetDefault("tracking.mode", "native")
	v.SetDefault("tracking.simulated_interval", "100ms")
	v.SetDefault("tracking.simulated_probability", 0.01)

	v.SetDefault("metrics.listen_address", "")
}

func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", cfg.Logging.Format)
	}

	switch cfg.Tracking.Mode {
	case "native", "simulated":
	default:
		return fmt.Errorf("invalid tracking mode: %q", cfg.Tracking.Mode)
	}
	interval, err := time.ParseDuration(cfg.Tracking.SimulatedInterval)
	if err != nil {
		return fmt.Errorf("invalid simulated interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("simulated interval must be positive: %s", cfg.Tracking.SimulatedInterval)
	}
	if cfg.Tracking.SimulatedProbability <= 0 || cfg.Tracking.SimulatedProbability > 1 {
		return fmt.Errorf("simulated probability must be in (0, 1]: %v", cfg.Tracking.SimulatedProbability)
	}

	return nil
}

// parseDuration parses a duration string with a fallback
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
