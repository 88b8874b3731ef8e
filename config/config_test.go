package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
time:
  start_time: "2023-01-01 00:00:00"
  end_time: "2023-01-02 00:00:00"
assets:
  n_energy_storages: 2
  storage:
    capacity_wh: 3000000
    initial_energy_wh: 2000000
    control_power_mapping:
      "1": -50000
      "2": 0
      "3": 50000
tariff:
  type: tou
seed: 42
`

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	start, err := cfg.Time.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 5*time.Minute, cfg.Time.Step(), "default step")

	assert.Equal(t, 2, cfg.Assets.NEnergyStorages)
	mapping, err := cfg.Assets.Storage.PowerMapping()
	require.NoError(t, err)
	assert.Equal(t, -50000.0, mapping[1])
	assert.Equal(t, 50000.0, mapping[3])

	assert.Equal(t, "tou", cfg.Tariff.Type)
	assert.Equal(t, int64(42), cfg.Seed)

	// Section defaults are applied.
	assert.Equal(t, 6, cfg.Agent.TrajectoryLength)
	assert.Equal(t, 5*time.Minute, cfg.Agent.RolloutStep())
	assert.Equal(t, 9090, cfg.Metrics.PrometheusPort)
	assert.Equal(t, "assetsim", cfg.MQTT.TopicPrefix)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{
  "time": {"start_time": "2023-01-01 00:00:00", "end_time": "2023-01-01 01:00:00"}
}`))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Assets.NEnergyStorages)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", ""))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPeriod(t *testing.T) {
	_, err := Load(writeConfig(t, "config.yaml", `
time:
  start_time: "2023-01-02 00:00:00"
  end_time: "2023-01-01 00:00:00"
`))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTariff(t *testing.T) {
	_, err := Load(writeConfig(t, "config.yaml", `
time:
  start_time: "2023-01-01 00:00:00"
  end_time: "2023-01-02 00:00:00"
tariff:
  type: dynamic
`))
	assert.Error(t, err)
}

func TestStorageConfigRejectsNonIntegerLevels(t *testing.T) {
	cfg := StorageConfig{ControlPowerMapping: map[string]float64{"fast": 1000}}
	assert.Error(t, cfg.Validate())
}
