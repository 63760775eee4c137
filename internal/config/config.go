package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Volume name styles for resolved module paths
const (
	VolumeNT  = "nt"
	VolumeDOS = "dos"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Debug   bool   `mapstructure:"debug"`
	Summary bool   `mapstructure:"summary"`

	// Module path resolution
	Resolver ResolverConfig `mapstructure:"resolver"`
}

// ResolverConfig tunes how module handles are turned into paths
type ResolverConfig struct {
	// Volume is "nt" (\Device\HarddiskVolumeN\...) or "dos" (C:\...)
	Volume string `mapstructure:"volume"`
	// MaxPath is the path buffer size in UTF-16 units
	MaxPath int `mapstructure:"max_path"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Debug:   false,
		Summary: false,
		Resolver: ResolverConfig{
			Volume:  VolumeNT,
			MaxPath: 260,
		},
	}
}

// Validate checks values that kong cannot check through enums
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "ndjson":
	default:
		return fmt.Errorf("invalid format %q (want text or ndjson)", c.Format)
	}
	switch c.Resolver.Volume {
	case VolumeNT, VolumeDOS:
	default:
		return fmt.Errorf("invalid resolver.volume %q (want nt or dos)", c.Resolver.Volume)
	}
	if c.Resolver.MaxPath <= 0 || c.Resolver.MaxPath > 32768 {
		return fmt.Errorf("invalid resolver.max_path %d (want 1..32768)", c.Resolver.MaxPath)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("dynaspy")
	v.SetConfigType("yaml")

	// Search paths, lowest precedence first
	v.AddConfigPath("/etc/dynaspy/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "dynaspy"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	// Environment variables: DYNASPY_FORMAT, DYNASPY_RESOLVER_MAX_PATH, ...
	v.SetEnvPrefix("DYNASPY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("summary", cfg.Summary)
	v.SetDefault("resolver.volume", cfg.Resolver.Volume)
	v.SetDefault("resolver.max_path", cfg.Resolver.MaxPath)
	return v
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := newViper()

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the path to the config file Load would read, or ""
func ConfigFile() string {
	v := newViper()
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}
	return ""
}
