package mqtt

import (
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/dashpi/displayd/core/session"
	"github.com/dashpi/displayd/infra/logger"
)

// DefaultClientID is used when the configuration does not set one. A
// random suffix keeps a stray second instance from stealing the session.
func DefaultClientID() string {
	return "displayd-" + uuid.NewString()[:8]
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// Conn adapts a paho client to the session manager: transport callbacks
// and inbound messages become session events on a single channel.
type Conn struct {
	cli    paho.Client
	events chan session.Event
	log    logger.Logger
}

// Dial connects to the broker. The initial connection failure is
// returned to the caller (fatal in listener mode); later drops surface
// as events while paho reconnects in the background.
func Dial(cfg Config) (*Conn, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt")
	c := &Conn{
		// Buffered so paho callbacks never deadlock against the serial
		// consumer during the shutdown drain.
		events: make(chan session.Event, 16),
		log:    log,
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("connected to broker %s", cfg.URL())
		c.events <- session.Event{Type: session.EventConnected}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warnf("connection lost: %v", err)
		c.events <- session.Event{Type: session.EventDisconnected}
	}
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		log.Warnf("reconnecting to broker %s", cfg.URL())
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL(), token.Error())
	}
	c.cli = cli
	return c, nil
}

// Events is the stream consumed by the session manager.
func (c *Conn) Events() <-chan session.Event { return c.events }

// Subscribe routes inbound payloads onto the event channel. The handler
// only enqueues, so command execution stays on the consumer goroutine.
func (c *Conn) Subscribe(topic string, qos byte) error {
	token := c.cli.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		c.events <- session.Event{Type: session.EventMessage, Payload: string(msg.Payload())}
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Publish sends one payload and waits for the broker handshake.
func (c *Conn) Publish(topic string, qos byte, retained bool, payload string) error {
	token := c.cli.Publish(topic, qos, retained, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Disconnect gracefully closes the connection.
func (c *Conn) Disconnect(quiesce uint) {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(quiesce)
	}
}
