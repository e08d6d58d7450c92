// Package session owns the broker session state machine. Transport
// events arrive as an explicit enum on a channel and are consumed by a
// single serial loop, which keeps command handling free of hidden
// reentrancy and makes the machine testable without a real broker.
package session

import (
	"context"

	"github.com/dashpi/displayd/core/command"
	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/core/metrics"
)

// EventType enumerates transport notifications.
type EventType int

const (
	// EventConnected fires on every successful (re)connection handshake.
	EventConnected EventType = iota
	// EventDisconnected fires on an unexpected transport drop.
	EventDisconnected
	// EventMessage carries one inbound command payload.
	EventMessage
)

// Event is a single transport notification.
type Event struct {
	Type    EventType
	Payload string
}

// State is the session manager lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return "disconnected"
	}
}

// Topics holds the fixed topic set the manager operates on.
type Topics struct {
	Command      string
	Status       string
	Availability string
}

// Conn is the broker-facing surface the manager needs. The paho adapter
// in infra/mqtt implements it.
type Conn interface {
	Subscribe(topic string, qos byte) error
	Publish(topic string, qos byte, retained bool, payload string) error
	Disconnect(quiesce uint)
}

// Manager runs the session state machine over a Conn.
type Manager struct {
	conn       Conn
	topics     Topics
	qos        byte
	dispatcher *command.Dispatcher
	log        logger.Logger
	sink       metrics.Sink

	state     State
	connected bool
}

// NewManager creates a Manager. Nil logger and sink fall back to no-ops.
func NewManager(conn Conn, topics Topics, qos byte, dispatcher *command.Dispatcher, log logger.Logger, sink metrics.Sink) *Manager {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		conn:       conn,
		topics:     topics,
		qos:        qos,
		dispatcher: dispatcher,
		log:        log,
		sink:       sink,
		state:      StateDisconnected,
	}
}

// State reports the current lifecycle state. Only meaningful from the
// goroutine driving Run, or after Run has returned.
func (m *Manager) State() State { return m.state }

// Run consumes events until the context is cancelled, then performs the
// graceful shutdown sequence exactly once and returns. Message handling
// is fully serialized: no event is consumed while a command dispatch
// (including its bounded execution) is in flight.
func (m *Manager) Run(ctx context.Context, events <-chan Event) error {
	m.state = StateConnecting
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case ev := <-events:
			m.handle(ctx, ev)
		}
	}
}

func (m *Manager) handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventConnected:
		m.onConnected(ctx)
	case EventDisconnected:
		m.log.Warnf("transport dropped, reconnecting")
		m.state = StateConnecting
	case EventMessage:
		if m.state != StateConnected {
			return
		}
		m.log.Infof("received command: %q", ev.Payload)
		if state, publish := m.dispatcher.Dispatch(ctx, ev.Payload); publish {
			m.publishStatus(state)
		}
	}
}

// onConnected runs on first connect and on every reconnect. No session
// state is assumed to survive a drop, so the subscription, availability
// and status are re-established each time.
func (m *Manager) onConnected(ctx context.Context) {
	if m.connected {
		m.sink.RecordReconnect()
	}
	m.connected = true
	m.state = StateConnected
	if err := m.conn.Subscribe(m.topics.Command, m.qos); err != nil {
		m.log.Errorf("subscribe %s: %v", m.topics.Command, err)
	} else {
		m.log.Infof("subscribed to %s", m.topics.Command)
	}
	if err := m.conn.Publish(m.topics.Availability, m.qos, true, "online"); err != nil {
		m.log.Errorf("publish availability: %v", err)
	}
	if state, publish := m.dispatcher.Dispatch(ctx, "status"); publish {
		m.publishStatus(state)
	}
}

func (m *Manager) publishStatus(state display.State) {
	if err := m.conn.Publish(m.topics.Status, m.qos, true, state.String()); err != nil {
		m.log.Errorf("publish status: %v", err)
		return
	}
	m.log.Infof("published status: %s", state)
}

func (m *Manager) shutdown() {
	m.state = StateShuttingDown
	if err := m.conn.Publish(m.topics.Availability, m.qos, true, "offline"); err != nil {
		m.log.Errorf("publish availability: %v", err)
	}
	m.conn.Disconnect(250)
	m.state = StateStopped
	m.log.Infof("shutdown complete")
}
