package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/dashpi/displayd/core/display"
	coremetrics "github.com/dashpi/displayd/core/metrics"
	"github.com/dashpi/displayd/infra/logger"
)

// InfluxSink writes daemon events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so an unreachable database never
// blocks display control.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) writePoint(p *write.Point) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write: %v", err)
	}
}

// RecordCommand writes one command event.
func (s *InfluxSink) RecordCommand(command string, state display.State) {
	p := write.NewPointWithMeasurement("display_command").
		AddTag("command", command).
		AddTag("result", state.String()).
		AddField("count", 1).
		SetTime(time.Now())
	s.writePoint(p)
}

// RecordPowerApply writes one power mutation event.
func (s *InfluxSink) RecordPowerApply(on bool, err error) {
	p := write.NewPointWithMeasurement("display_power_apply").
		AddTag("state", display.StateFor(on).String()).
		AddTag("success", strconv.FormatBool(err == nil)).
		AddField("count", 1).
		SetTime(time.Now())
	s.writePoint(p)
}

// RecordReconnect writes one reconnect event.
func (s *InfluxSink) RecordReconnect() {
	p := write.NewPointWithMeasurement("mqtt_reconnect").
		AddField("count", 1).
		SetTime(time.Now())
	s.writePoint(p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
