// Package metrics defines the sink interface implemented by the
// Prometheus and InfluxDB adapters in infra/metrics.
package metrics

import "github.com/dashpi/displayd/core/display"

// Sink records runtime events. Implementations must be safe for
// concurrent use.
type Sink interface {
	// RecordCommand counts a handled bus command and the state it produced.
	RecordCommand(command string, state display.State)
	// RecordPowerApply counts a hardware power mutation.
	RecordPowerApply(on bool, err error)
	// RecordReconnect counts a broker session re-establishment.
	RecordReconnect()
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordCommand(string, display.State) {}
func (NopSink) RecordPowerApply(bool, error)        {}
func (NopSink) RecordReconnect()                    {}

// Config selects and configures the metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    int    `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9108
	}
}
