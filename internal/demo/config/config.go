// Package config loads demo configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PresentMillis int `mapstructure:"present_millis"`
	DismissMillis int `mapstructure:"dismiss_millis"`
	TimeoutFactor int `mapstructure:"timeout_factor"`
	Rows          int `mapstructure:"rows"`
}

// PresentDuration returns the configured enter-transition duration.
func (u UIConfig) PresentDuration() time.Duration {
	return time.Duration(u.PresentMillis) * time.Millisecond
}

// DismissDuration returns the configured exit-transition duration.
func (u UIConfig) DismissDuration() time.Duration {
	return time.Duration(u.DismissMillis) * time.Millisecond
}

// Load reads configuration from file and env. Env var overrides use prefix LOOMDEMO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "loomdemo", "notes.db"))
	v.SetDefault("ui.present_millis", 300)
	v.SetDefault("ui.dismiss_millis", 200)
	v.SetDefault("ui.timeout_factor", 3)
	v.SetDefault("ui.rows", 20)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LOOMDEMO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "loomdemo"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LOOMDEMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
