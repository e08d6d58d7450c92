package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dashpi/displayd/core/display"
	coremetrics "github.com/dashpi/displayd/core/metrics"
)

// PromSink records daemon events in Prometheus metrics.
type PromSink struct {
	commands   *prometheus.CounterVec
	applies    *prometheus.CounterVec
	reconnects prometheus.Counter
}

// NewPromSink registers the metrics on the default Prometheus
// registerer. The HTTP endpoint is started separately via StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "display_commands_total",
		Help: "Total number of bus commands handled",
	}, []string{"command", "result"})
	applies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "display_power_applies_total",
		Help: "Total number of hardware power mutations",
	}, []string{"state", "success"})
	reconnects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqtt_reconnects_total",
		Help: "Total number of broker session re-establishments",
	})

	if err := reg.Register(commands); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commands = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(applies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			applies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reconnects); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reconnects = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{commands: commands, applies: applies, reconnects: reconnects}, nil
}

// RecordCommand increments the command counter.
func (s *PromSink) RecordCommand(command string, state display.State) {
	s.commands.WithLabelValues(command, state.String()).Inc()
}

// RecordPowerApply increments the power-apply counter.
func (s *PromSink) RecordPowerApply(on bool, err error) {
	s.applies.WithLabelValues(display.StateFor(on).String(), strconv.FormatBool(err == nil)).Inc()
}

// RecordReconnect increments the reconnect counter.
func (s *PromSink) RecordReconnect() {
	s.reconnects.Inc()
}

var _ coremetrics.Sink = (*PromSink)(nil)

// StartPromServer exposes /metrics on the given port and blocks.
func StartPromServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
