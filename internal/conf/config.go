// Package conf provides configuration management for mediaflow.
// Settings are read from an optional YAML config file, environment
// variables, and defaults, via viper.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
	RotationDay string       // Day of the week for RotationWeekly
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// PipelineConfig holds the orchestration tunables for pipeline builds.
type PipelineConfig struct {
	ReadyTimeout     time.Duration `yaml:"readytimeout"`     // Per-stage readiness handshake timeout
	GraceDelay       time.Duration `yaml:"gracedelay"`       // Settle delay after all stages are ready
	DefaultQueueSize int           `yaml:"defaultqueuesize"` // Queue capacity for stages that do not declare one
}

// TelemetryConfig holds the Prometheus endpoint settings.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"` // true to expose metrics over HTTP
	Listen  string `yaml:"listen"`  // Listen address and port, e.g. "0.0.0.0:8090"
}

// Settings is the root configuration for mediaflow.
type Settings struct {
	Debug     bool            `yaml:"debug"`     // true to enable debug logging
	Name      string          `yaml:"name"`      // Instance name used in log attribution
	Log       LogConfig       `yaml:"log"`       // Application log settings
	Pipeline  PipelineConfig  `yaml:"pipeline"`  // Pipeline orchestration settings
	Telemetry TelemetryConfig `yaml:"telemetry"` // Prometheus telemetry settings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	if configDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(configDir, "mediaflow"))
	}

	viper.SetEnvPrefix("MEDIAFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file is fine, defaults apply
	}

	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the settings instance, loading it on first use.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveDefaultConfig writes the default settings as a YAML config file to the
// given path, creating parent directories as needed.
func SaveDefaultConfig(path string) error {
	setDefaultConfig()

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling defaults: %w", err)
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("error writing default config: %w", err)
	}

	return nil
}
