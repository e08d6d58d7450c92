package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Port: 1883}.Validate())
	assert.Error(t, Config{Broker: "host"}.Validate())
	assert.NoError(t, Config{Broker: "host", Port: 1883}.Validate())
}

func TestConfigURL(t *testing.T) {
	assert.Equal(t, "tcp://broker.lan:1883", Config{Broker: "broker.lan", Port: 1883}.URL())
	assert.Equal(t, "ssl://broker.lan:8883", Config{Broker: "broker.lan", Port: 8883, UseTLS: true}.URL())
}

func TestNewClientOptionsRegistersLastWill(t *testing.T) {
	opts, err := NewClientOptions(Config{
		Broker:   "broker.lan",
		Port:     1883,
		ClientID: "displayd-test",
		Username: "user",
		Password: "pass",
	})
	require.NoError(t, err)

	assert.True(t, opts.WillEnabled)
	assert.Equal(t, TopicAvailability, opts.WillTopic)
	assert.Equal(t, []byte("offline"), opts.WillPayload)
	assert.Equal(t, QoS, opts.WillQos)
	assert.True(t, opts.WillRetained)

	assert.Equal(t, "displayd-test", opts.ClientID)
	assert.Equal(t, "user", opts.Username)
	assert.Equal(t, "pass", opts.Password)
	assert.False(t, opts.CleanSession)
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://broker.lan:1883", opts.Servers[0].String())
}

func TestNewClientOptionsGeneratedIDConnectsClean(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "broker.lan", Port: 1883})
	require.NoError(t, err)
	assert.Contains(t, opts.ClientID, "displayd-")
	assert.True(t, opts.CleanSession, "a generated ID cannot resume a session and must not persist one")
}

func TestNewClientOptionsTLSWithoutFiles(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "broker.lan", Port: 8883, UseTLS: true})
	require.NoError(t, err)
	require.NotNil(t, opts.TLSConfig)
	assert.Nil(t, opts.TLSConfig.RootCAs, "system roots are used when no CA file is given")
}

func TestLoadTLSConfigMissingCA(t *testing.T) {
	_, err := Config{Broker: "b", Port: 1, UseTLS: true, CAFile: "/does/not/exist.pem"}.LoadTLSConfig()
	assert.Error(t, err)
}

func TestDefaultClientID(t *testing.T) {
	a, b := DefaultClientID(), DefaultClientID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "displayd-")
}
