// Package config loads and validates the simulation configuration from
// YAML or JSON files with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/assetsim/core/metrics"
	"github.com/kilianp07/assetsim/infra/mqtt"
)

// Config is the top-level simulation configuration.
type Config struct {
	Time      TimeConfig     `json:"time"`
	Geography GeoConfig      `json:"geography"`
	Assets    AssetsConfig   `json:"assets"`
	Agent     AgentConfig    `json:"agent"`
	Tariff    TariffConfig   `json:"tariff"`
	Metrics   metrics.Config `json:"metrics"`
	MQTT      mqtt.Config    `json:"mqtt"`
	Weather   WeatherConfig  `json:"weather"`
	Seed      int64          `json:"seed"`
}

// Load reads the configuration at path. YAML and JSON are supported, with
// `AS_`-prefixed environment variables overriding file values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("AS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "as_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Time.SetDefaults()
	c.Assets.SetDefaults()
	c.Agent.SetDefaults()
	c.Tariff.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Time.Validate(); err != nil {
		return err
	}
	if err := c.Assets.Validate(); err != nil {
		return err
	}
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	if err := c.Tariff.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.MQTT.Validate()
}
