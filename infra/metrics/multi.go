package metrics

import (
	"github.com/dashpi/displayd/core/display"
	coremetrics "github.com/dashpi/displayd/core/metrics"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordCommand(command string, state display.State) {
	for _, s := range m.sinks {
		s.RecordCommand(command, state)
	}
}

func (m *MultiSink) RecordPowerApply(on bool, err error) {
	for _, s := range m.sinks {
		s.RecordPowerApply(on, err)
	}
}

func (m *MultiSink) RecordReconnect() {
	for _, s := range m.sinks {
		s.RecordReconnect()
	}
}

// FromConfig builds the configured sink set, collapsing to a NopSink
// when nothing is enabled.
func FromConfig(cfg coremetrics.Config) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
