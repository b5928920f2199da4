package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/sim"
)

type Config struct {
	TickInterval  time.Duration           `yaml:"tick_interval"`
	Window        int                     `yaml:"window"`
	Chart         ChartConfig             `yaml:"chart"`
	Probabilities ProbabilityConfig       `yaml:"probabilities"`
	Metrics       map[string]MetricConfig `yaml:"metrics"`
	Sources       []SourceConfig          `yaml:"sources"`
	MaxAlerts     int                     `yaml:"max_alerts"`
	Listen        string                  `yaml:"listen"`
	Settings      SettingsConfig          `yaml:"settings"`
}

type ChartConfig struct {
	Padding  float64 `yaml:"padding"`
	GridRows int     `yaml:"grid_rows"`
}

// ProbabilityConfig holds the per-tick trial probabilities. Nil means
// default; an explicit 0 disables the trial.
type ProbabilityConfig struct {
	Alert   *float64 `yaml:"alert"`
	Node    *float64 `yaml:"node"`
	Sources *float64 `yaml:"sources"`
}

// MetricConfig overrides the walk tuning of one metric. Nil fields keep
// the built-in value; an explicit 0 is applied.
type MetricConfig struct {
	Seed     *float64 `yaml:"seed"`
	Variance *float64 `yaml:"variance"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
}

type SourceConfig struct {
	Name string  `yaml:"name"`
	MB   float64 `yaml:"mb"`
}

type SettingsConfig struct {
	Backend   string `yaml:"backend"` // file or redis
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	Key       string `yaml:"key"`
}

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a YAML file. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := sim.DefaultConfig()
	if c.TickInterval == 0 {
		c.TickInterval = def.Interval
	}
	if c.Window == 0 {
		c.Window = def.Window
	}
	if c.Chart.Padding == 0 {
		c.Chart.Padding = 4
	}
	if c.Chart.GridRows == 0 {
		c.Chart.GridRows = 3
	}
	if c.Probabilities.Alert == nil {
		c.Probabilities.Alert = ptr(def.AlertProbability)
	}
	if c.Probabilities.Node == nil {
		c.Probabilities.Node = ptr(def.NodeProbability)
	}
	if c.Probabilities.Sources == nil {
		c.Probabilities.Sources = ptr(def.SourcesProbability)
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Settings.Backend == "" {
		c.Settings.Backend = BackendFile
	}
	if c.Settings.Path == "" {
		c.Settings.Path = defaultSettingsPath()
	}
	if c.Settings.Key == "" {
		c.Settings.Key = "opsdash:settings"
	}
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "opsdash-settings.yaml"
	}
	return filepath.Join(dir, "opsdash", "settings.yaml")
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Window < 2 {
		return fmt.Errorf("window must be at least 2, got %d", c.Window)
	}
	if c.Chart.Padding < 0 {
		return fmt.Errorf("chart.padding must not be negative")
	}
	if c.Chart.GridRows < 1 {
		return fmt.Errorf("chart.grid_rows must be at least 1")
	}
	for name, p := range map[string]*float64{
		"alert":   c.Probabilities.Alert,
		"node":    c.Probabilities.Node,
		"sources": c.Probabilities.Sources,
	} {
		if p != nil && (*p < 0 || *p > 1) {
			return fmt.Errorf("probabilities.%s must be within [0, 1], got %g", name, *p)
		}
	}
	known := map[string]bool{}
	for _, name := range sim.MetricOrder {
		known[name] = true
	}
	for name, mc := range c.Metrics {
		if !known[name] {
			return fmt.Errorf("metrics.%s: unknown metric", name)
		}
		if mc.Variance != nil && *mc.Variance < 0 {
			return fmt.Errorf("metrics.%s.variance must not be negative", name)
		}
	}
	for _, m := range c.SimMetrics() {
		if m.Min >= m.Max {
			return fmt.Errorf("metrics.%s: min %g must be below max %g", m.Name, m.Min, m.Max)
		}
	}
	if c.MaxAlerts < 0 {
		return fmt.Errorf("max_alerts must not be negative")
	}
	switch c.Settings.Backend {
	case BackendFile:
		if c.Settings.Path == "" {
			return fmt.Errorf("settings.path is required for the file backend")
		}
	case BackendRedis:
		if c.Settings.RedisAddr == "" {
			return fmt.Errorf("settings.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("settings.backend must be %q or %q, got %q", BackendFile, BackendRedis, c.Settings.Backend)
	}
	return nil
}

// SimMetrics merges the metric overrides into the built-in tuning, in tick
// order.
func (c *Config) SimMetrics() []sim.Metric {
	metrics := sim.DefaultMetrics()
	for i := range metrics {
		mc, ok := c.Metrics[metrics[i].Name]
		if !ok {
			continue
		}
		metrics[i].Previous = deref(mc.Seed, metrics[i].Previous)
		metrics[i].Variance = deref(mc.Variance, metrics[i].Variance)
		metrics[i].Min = deref(mc.Min, metrics[i].Min)
		metrics[i].Max = deref(mc.Max, metrics[i].Max)
	}
	return metrics
}

// Clock builds the simulation clock configuration.
func (c *Config) Clock() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Interval = c.TickInterval
	cfg.Window = c.Window
	cfg.Prefill = c.Window / 2
	cfg.AlertProbability = deref(c.Probabilities.Alert, cfg.AlertProbability)
	cfg.NodeProbability = deref(c.Probabilities.Node, cfg.NodeProbability)
	cfg.SourcesProbability = deref(c.Probabilities.Sources, cfg.SourcesProbability)
	cfg.MaxAlerts = c.MaxAlerts
	cfg.Metrics = c.SimMetrics()
	if len(c.Sources) > 0 {
		cfg.Sources = make([]model.TopSource, len(c.Sources))
		for i, s := range c.Sources {
			cfg.Sources[i] = model.TopSource{Name: s.Name, MB: s.MB}
		}
	}
	return cfg
}

func ptr(v float64) *float64 { return &v }

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
