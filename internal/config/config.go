// YAML config loader with CUE validation integration
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the configuration leaves a field empty.
const (
	DefaultGridID        = "grid-01"
	DefaultAlertCapacity = 5
	DefaultPeriod        = 2 * time.Second
	DefaultRedisChannel  = "gridwatch:readings"
	DefaultAIBaseURL     = "https://api.openai.com/v1"
	DefaultAIModel       = "gpt-4o-mini"
	DefaultAIKeyEnv      = "OPENAI_API_KEY"
	DefaultAITimeout     = 30 * time.Second
	DefaultAIMaxTokens   = 500
)

//go:embed default.yaml
var defaultYAML []byte

// Band maps a value range to a status label. Bounds left nil are not checked.
type Band struct {
	Status string   `yaml:"status"`
	LT     *float64 `yaml:"lt,omitempty"`
	LE     *float64 `yaml:"le,omitempty"`
	GT     *float64 `yaml:"gt,omitempty"`
	GE     *float64 `yaml:"ge,omitempty"`
}

// Rule is the ordered band list for one metric.
type Rule struct {
	Reference *float64 `yaml:"reference,omitempty"`
	Bands     []Band   `yaml:"bands"`
}

// Metric defines one simulated grid quantity
type Metric struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Unit     string   `yaml:"unit"`
	Seed     float64  `yaml:"seed"`
	Min      float64  `yaml:"min"`
	Max      float64  `yaml:"max"`
	Step     float64  `yaml:"step"`
	DeadZone *float64 `yaml:"dead_zone,omitempty"`
	Period   string   `yaml:"period"`
	Rule     Rule     `yaml:"rule"`
}

// AIConfig describes the hosted chat-completion API behind the proxy handlers.
type AIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Timeout     string  `yaml:"timeout"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// RedisConfig enables publishing readings to a Redis channel.
type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

// GridConfig is the root configuration for the simulated grid
type GridConfig struct {
	GridID        string      `yaml:"grid_id"`
	Seed          int64       `yaml:"seed"`
	AlertCapacity int         `yaml:"alert_capacity"`
	Scenario      string      `yaml:"scenario"`
	Metrics       []Metric    `yaml:"metrics"`
	AI            AIConfig    `yaml:"ai"`
	Redis         RedisConfig `yaml:"redis"`
}

// Load loads YAML config and validates it against a CUE schema.
// An empty schema path skips the CUE step.
func Load(configPath, cueSchemaPath string) (*GridConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded configuration", "path", configPath, "grid_id", cfg.GridID, "metrics", len(cfg.Metrics))
	return cfg, nil
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(data []byte) (*GridConfig, error) {
	var cfg GridConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in grid catalog.
func Default() *GridConfig {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in config invalid: %v", err))
	}
	return cfg
}

// ApplyDefaults fills empty fields with their default values.
func (c *GridConfig) ApplyDefaults() {
	if c.GridID == "" {
		c.GridID = DefaultGridID
	}
	if c.AlertCapacity <= 0 {
		c.AlertCapacity = DefaultAlertCapacity
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = DefaultAIBaseURL
	}
	if c.AI.Model == "" {
		c.AI.Model = DefaultAIModel
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = DefaultAIKeyEnv
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = DefaultAIMaxTokens
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = DefaultRedisChannel
	}
	for i := range c.Metrics {
		if c.Metrics[i].Label == "" {
			c.Metrics[i].Label = c.Metrics[i].Name
		}
	}
}

// PeriodDuration returns the metric's tick period.
func (m Metric) PeriodDuration() time.Duration {
	d, err := time.ParseDuration(m.Period)
	if err != nil || d <= 0 {
		return DefaultPeriod
	}
	return d
}

// DeadZoneValue returns the trend dead zone, 10% of the step by default.
func (m Metric) DeadZoneValue() float64 {
	if m.DeadZone != nil {
		return *m.DeadZone
	}
	return m.Step * 0.1
}

// TimeoutDuration returns the upstream request timeout.
func (a AIConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return DefaultAITimeout
	}
	return d
}

// Metric looks up a metric definition by name.
func (c *GridConfig) Metric(name string) (Metric, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
