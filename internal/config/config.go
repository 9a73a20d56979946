// Package config loads the daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Listen        string `koanf:"listen"`
	Volume        int    `koanf:"volume"`        // percent, applied on startup
	Visualization string `koanf:"visualization"` // long or short plugin name
	WindowHandle  uint64 `koanf:"window_handle"` // native window for video output

	DiscoveryTimeout   time.Duration `koanf:"discovery_timeout"`
	StateChangeTimeout time.Duration `koanf:"state_change_timeout"`

	MPRIS MPRISConfig `koanf:"mpris"`
}

type MPRISConfig struct {
	Enabled bool   `koanf:"enabled"`
	Name    string `koanf:"name"` // bus name suffix after org.mpris.MediaPlayer2.
}

func defaults() *Config {
	return &Config{
		Listen:             ":50051",
		Volume:             100,
		DiscoveryTimeout:   time.Second,
		StateChangeTimeout: 5 * time.Second,
		MPRIS: MPRISConfig{
			Name: "playbin",
		},
	}
}

// Load reads the config files that exist, in order of priority (last wins):
// $XDG_CONFIG_HOME/playbin/config.toml, ./config.toml and explicit.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", explicit, err)
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "playbin", "config.toml"),
		"config.toml",
	}
}

func (c *Config) validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("volume must be within [0, 100], got %d", c.Volume)
	}
	if c.DiscoveryTimeout <= 0 {
		return fmt.Errorf("discovery_timeout must be positive, got %s", c.DiscoveryTimeout)
	}
	if c.StateChangeTimeout <= 0 {
		return fmt.Errorf("state_change_timeout must be positive, got %s", c.StateChangeTimeout)
	}
	if c.MPRIS.Enabled && c.MPRIS.Name == "" {
		return fmt.Errorf("mpris.name is required when mpris is enabled")
	}
	return nil
}
