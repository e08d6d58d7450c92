package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "mqtt.json", `{
  "broker": "homeassistant.local",
  "port": 1883,
  "username": "dashboard",
  "password": "secret",
  "tls": false,
  "metrics": {"prometheus_enabled": true, "prometheus_port": 9200}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "homeassistant.local", cfg.MQTT.Broker)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.Equal(t, "dashboard", cfg.MQTT.Username)
	assert.Equal(t, "secret", cfg.MQTT.Password)
	assert.False(t, cfg.MQTT.UseTLS)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, 9200, cfg.Metrics.PrometheusPort)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "mqtt.yaml", "broker: broker.lan\nport: 8883\ntls: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "broker.lan", cfg.MQTT.Broker)
	assert.Equal(t, 8883, cfg.MQTT.Port)
	assert.True(t, cfg.MQTT.UseTLS)
	assert.Equal(t, 9108, cfg.Metrics.PrometheusPort, "metrics defaults applied")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMissingRequiredFields(t *testing.T) {
	for name, data := range map[string]string{
		"no-broker.json": `{"port": 1883}`,
		"no-port.json":   `{"broker": "host"}`,
	} {
		_, err := Load(writeConfig(t, name, data))
		assert.Error(t, err, name)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "mqtt.toml", "broker = \"x\"\n"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DISPLAYD_BROKER", "from-env")
	path := writeConfig(t, "mqtt.json", `{"broker": "from-file", "port": 1883}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.MQTT.Broker)
}
