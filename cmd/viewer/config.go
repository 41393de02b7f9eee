package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the viewer's yaml configuration. Every field has a usable
// default; a missing config file is not an error.
type Config struct {
	Window struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Title  string `yaml:"title"`
	} `yaml:"window"`

	Scene            string  `yaml:"scene"`
	MoveSpeed        float32 `yaml:"move_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	ShowStats        bool    `yaml:"show_stats"`
}

func defaultConfig() *Config {
	cfg := &Config{
		MoveSpeed:        5,
		MouseSensitivity: 0.003,
		ShowStats:        true,
	}
	cfg.Window.Width = 1280
	cfg.Window.Height = 720
	cfg.Window.Title = "helio viewer"
	return cfg
}

// loadConfig reads a yaml config file over the defaults. An empty path or a
// missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Window.Width <= 0 {
		cfg.Window.Width = 1280
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = 720
	}
	if cfg.MoveSpeed <= 0 {
		cfg.MoveSpeed = 5
	}
	if cfg.MouseSensitivity <= 0 {
		cfg.MouseSensitivity = 0.003
	}
	return cfg, nil
}
