package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker   string `json:"broker"`
	Port     int    `json:"port"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	UseTLS   bool   `json:"tls"`
	CAFile   string `json:"cafile"`
	CertFile string `json:"certfile"`
	KeyFile  string `json:"keyfile"`
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt config: broker is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("mqtt config: port is required")
	}
	return nil
}

// URL builds the broker URL from host and port.
func (c Config) URL() string {
	scheme := "tcp"
	if c.UseTLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Broker, c.Port)
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config. Without a CA file the system roots are used.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.CAFile != "" {
		caBytes, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, fmt.Errorf("no certificates found in %s", c.CAFile)
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" || c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load cert: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// NewClientOptions builds mqtt client options from Config, registering
// the Last-Will on the availability topic. A configured client ID keeps
// a persistent session across restarts; a generated one can never
// resume a session, so it connects clean to avoid orphaning broker
// state.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	clean := false
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID()
		clean = true
	}
	opts := paho.NewClientOptions().AddBroker(cfg.URL()).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetCleanSession(clean)
	opts.SetKeepAlive(60 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.SetWill(TopicAvailability, "offline", QoS, true)
	return opts, nil
}
