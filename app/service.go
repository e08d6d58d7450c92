// Package app wires the listener-mode service together.
package app

import (
	"context"
	"fmt"

	"github.com/dashpi/displayd/config"
	"github.com/dashpi/displayd/core/command"
	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/session"
	"github.com/dashpi/displayd/infra/backend"
	"github.com/dashpi/displayd/infra/exec"
	"github.com/dashpi/displayd/infra/logger"
	"github.com/dashpi/displayd/infra/metrics"
	"github.com/dashpi/displayd/infra/mqtt"
)

// Service runs the broker session that controls the display.
type Service struct {
	manager *session.Manager
	conn    *mqtt.Conn
	log     logger.Logger

	promEnabled bool
	promPort    int
}

// New builds the service from the configuration: metrics sinks, backend
// probe, controller, dispatcher and broker connection. The backend
// probe and the initial broker connection are both fatal on failure.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")

	sink, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	be, err := backend.Probe(exec.NewRunner(), logger.New("backend"))
	if err != nil {
		return nil, err
	}
	ctrl := display.NewController(be)
	dispatcher := command.New(ctrl, command.DefaultTimeout, logger.New("dispatcher"), sink)

	conn, err := mqtt.Dial(cfg.MQTT)
	if err != nil {
		return nil, err
	}
	manager := session.NewManager(conn, mqtt.Topics(), mqtt.QoS, dispatcher, logger.New("session"), sink)

	return &Service{
		manager:     manager,
		conn:        conn,
		log:         log,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run blocks until the context is cancelled, then the session manager
// finishes its graceful shutdown before Run returns.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return s.manager.Run(ctx, s.conn.Events())
}
