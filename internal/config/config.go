package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for cityexplorer.
type Config struct {
	Assets AssetsConfig `toml:"assets"`
	Images ImagesConfig `toml:"images"`
	Output OutputConfig `toml:"output"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
}

type ImagesConfig struct {
	MaxPerPOI      int     `toml:"max_per_poi"`
	MaxDimension   int     `toml:"max_dimension"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
	UserAgent      string  `toml:"user_agent"`
}

type OutputConfig struct {
	File string `toml:"file"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Assets: AssetsConfig{Dir: "assets"},
		Images: ImagesConfig{
			MaxPerPOI:      3,
			MaxDimension:   1000,
			TimeoutSeconds: 5,
			RateLimit:      4.0,
			UserAgent:      "CityExplorerBot/1.0 (Student Project)",
		},
		Output: OutputConfig{File: "Travel_Booklet.pdf"},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
