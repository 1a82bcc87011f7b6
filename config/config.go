// Package config loads application settings: window, storage locations and
// defaults for a new install.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultYAML []byte

type Window struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// View is the logical screen size in world pixels.
type View struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	Window      Window  `yaml:"window"`
	View        View    `yaml:"view"`
	TPS         int     `yaml:"tps"`
	SaveAppName string  `yaml:"save_app_name"`
	HistoryDB   string  `yaml:"history_db"`
	Debug       bool    `yaml:"debug"`
	Skin        string  `yaml:"skin"`
	Volume      float64 `yaml:"volume"`
	Seed        uint64  `yaml:"seed"`
}

// Default returns the hardcoded configuration used when even the embedded
// file cannot be parsed.
func Default() Config {
	return Config{
		Window:      Window{Title: "NetGuardian", Width: 960, Height: 720},
		View:        View{Width: 320, Height: 240},
		TPS:         60,
		SaveAppName: "netguardian",
		HistoryDB:   "~/.netguardian/runs.db",
		Skin:        "default",
		Volume:      0.5,
	}
}

// Load reads the configuration.
// Search order: customPath -> ~/.netguardian/config.yaml -> ./configs/config.yaml -> embedded default
// Only an explicit customPath may fail; the other locations are skipped when
// missing or malformed. Fields left out of a file keep their default.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if p := userConfigPath(); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "config.yaml")); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	d := Default()
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = d.Window.Width, d.Window.Height
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		c.View = d.View
	}
	if c.TPS <= 0 {
		c.TPS = d.TPS
	}
	if c.SaveAppName == "" {
		c.SaveAppName = d.SaveAppName
	}
	if c.Skin == "" {
		c.Skin = d.Skin
	}
	if c.Volume < 0 || c.Volume > 1 {
		c.Volume = d.Volume
	}
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netguardian", "config.yaml")
}
