// Package config loads engine and search settings from a YAML file, with
// sensible defaults when the file or individual keys are absent.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"einstein/searcher"
)

type SearchConfig struct {
	Iterations   int     `yaml:"iterations"`
	Exploration  float64 `yaml:"exploration"`
	ThinkingTime float64 `yaml:"thinking_time"` // seconds
	Goroutines   int     `yaml:"goroutines"`
	Multithread  bool    `yaml:"multithread"`
}

type EngineConfig struct {
	Setup string `yaml:"setup"` // standard, balanced, aggressive, defensive
	Seed  uint64 `yaml:"seed"`  // 0 means time-based
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Search SearchConfig `yaml:"search"`
	Engine EngineConfig `yaml:"engine"`
	Server ServerConfig `yaml:"server"`
}

func Default() Config {
	return Config{
		Search: SearchConfig{
			Iterations:   1000,
			Exploration:  1.414,
			ThinkingTime: 5.0,
			Goroutines:   4,
			Multithread:  true,
		},
		Engine: EngineConfig{Setup: "standard"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg.clamped(), nil
}

func (c Config) clamped() Config {
	if c.Search.Iterations < 1 {
		c.Search.Iterations = 1
	}
	if c.Search.Exploration < 0 {
		c.Search.Exploration = 0
	}
	if c.Search.ThinkingTime <= 0 {
		c.Search.ThinkingTime = 0.001
	}
	if c.Search.Goroutines < 1 {
		c.Search.Goroutines = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return c
}

// SearcherConfig converts the file representation into the searcher's
// configuration value object.
func (c Config) SearcherConfig() searcher.Config {
	return searcher.Config{
		Iterations:   c.Search.Iterations,
		Exploration:  c.Search.Exploration,
		ThinkingTime: time.Duration(c.Search.ThinkingTime * float64(time.Second)),
		Goroutines:   c.Search.Goroutines,
		Multithread:  c.Search.Multithread,
	}
}
