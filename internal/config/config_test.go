package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtsunne/opsdash/internal/sim"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opsdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 60, cfg.Window)
	assert.Equal(t, 4.0, cfg.Chart.Padding)
	assert.Equal(t, 3, cfg.Chart.GridRows)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, BackendFile, cfg.Settings.Backend)
	assert.Equal(t, "opsdash:settings", cfg.Settings.Key)
	assert.NotEmpty(t, cfg.Settings.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
tick_interval: 250ms
probabilities:
  alert: 0
metrics:
  cpu:
    seed: 40
    max: 90
settings:
  path: /tmp/opsdash-settings.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 60, cfg.Window)
	require.NotNil(t, cfg.Probabilities.Alert)
	assert.Equal(t, 0.0, *cfg.Probabilities.Alert)
	assert.Equal(t, 0.02, *cfg.Probabilities.Node)
	assert.Equal(t, 0.12, *cfg.Probabilities.Sources)

	clock := cfg.Clock()
	assert.Equal(t, 250*time.Millisecond, clock.Interval)
	assert.Equal(t, 0.0, clock.AlertProbability)
	assert.Equal(t, 30, clock.Prefill)

	var cpu sim.Metric
	for _, m := range clock.Metrics {
		if m.Name == sim.MetricCPU {
			cpu = m
		}
	}
	assert.Equal(t, 40.0, cpu.Previous)
	assert.Equal(t, 8.0, cpu.Variance)
	assert.Equal(t, 2.0, cpu.Min)
	assert.Equal(t, 90.0, cpu.Max)
}

func TestLoad_MetricZeroOverrides(t *testing.T) {
	path := writeConfig(t, `
metrics:
  cpu:
    seed: 0
    min: 0
  latency:
    variance: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	byName := map[string]sim.Metric{}
	for _, m := range cfg.Clock().Metrics {
		byName[m.Name] = m
	}
	assert.Equal(t, 0.0, byName[sim.MetricCPU].Previous)
	assert.Equal(t, 0.0, byName[sim.MetricCPU].Min)
	assert.Equal(t, 98.0, byName[sim.MetricCPU].Max)
	assert.Equal(t, 0.0, byName[sim.MetricLatency].Variance)
	assert.Equal(t, 12.0, byName[sim.MetricLatency].Previous)
}

func TestLoad_Sources(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: 10.1.1.1
    mb: 12.5
  - name: 10.1.1.2
    mb: 99
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	clock := cfg.Clock()
	require.Len(t, clock.Sources, 2)
	assert.Equal(t, "10.1.1.1", clock.Sources[0].Name)
	assert.Equal(t, 99.0, clock.Sources[1].MB)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"negative interval", "tick_interval: -1s", "tick_interval"},
		{"tiny window", "window: 1", "window"},
		{"probability range", "probabilities:\n  node: 1.5", "probabilities.node"},
		{"unknown metric", "metrics:\n  disk:\n    seed: 1", "unknown metric"},
		{"inverted bounds", "metrics:\n  mem:\n    min: 90\n    max: 10", "min"},
		{"bad backend", "settings:\n  backend: etcd", "settings.backend"},
		{"redis without addr", "settings:\n  backend: redis", "redis_addr"},
		{"negative max alerts", "max_alerts: -3", "max_alerts"},
		{"malformed yaml", "window: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
