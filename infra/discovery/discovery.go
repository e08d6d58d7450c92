// Package discovery publishes the static Home Assistant MQTT discovery
// documents for the display switch and the status-refresh button.
package discovery

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/dashpi/displayd/infra/logger"
	"github.com/dashpi/displayd/infra/mqtt"
)

const (
	discoveryPrefix = "homeassistant"

	deviceName   = "Raspberry Pi Dashboard"
	deviceModel  = "Pi + HDMI Display"
	manufacturer = "Raspberry Pi"

	uniqueSwitch = "dashboard_display_switch"
	uniqueButton = "dashboard_display_status_button"

	// SwitchConfigTopic and ButtonConfigTopic are where the hub expects
	// the retained entity documents.
	SwitchConfigTopic = discoveryPrefix + "/switch/dashboard_display/config"
	ButtonConfigTopic = discoveryPrefix + "/button/dashboard_display_status/config"
)

// deviceIdentifiers must match across entities to group them as one
// device in the hub.
var deviceIdentifiers = []string{"raspi-dashboard-1"}

// Device is the shared device block embedded in both entity documents.
type Device struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}

// SwitchEntity is the discovery document for the on/off switch.
type SwitchEntity struct {
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	CommandTopic      string `json:"command_topic"`
	StateTopic        string `json:"state_topic"`
	AvailabilityTopic string `json:"availability_topic"`
	PayloadOn         string `json:"payload_on"`
	PayloadOff        string `json:"payload_off"`
	StateOn           string `json:"state_on"`
	StateOff          string `json:"state_off"`
	ValueTemplate     string `json:"value_template"`
	Device            Device `json:"device"`
}

// ButtonEntity is the discovery document for the status-refresh button.
type ButtonEntity struct {
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	CommandTopic      string `json:"command_topic"`
	PayloadPress      string `json:"payload_press"`
	AvailabilityTopic string `json:"availability_topic"`
	Device            Device `json:"device"`
}

func device() Device {
	return Device{
		Identifiers:  deviceIdentifiers,
		Name:         deviceName,
		Manufacturer: manufacturer,
		Model:        deviceModel,
	}
}

// Switch builds the switch entity document.
func Switch() SwitchEntity {
	return SwitchEntity{
		Name:              "Dashboard Display",
		UniqueID:          uniqueSwitch,
		CommandTopic:      mqtt.TopicCommand,
		StateTopic:        mqtt.TopicStatus,
		AvailabilityTopic: mqtt.TopicAvailability,
		PayloadOn:         "on",
		PayloadOff:        "off",
		StateOn:           "on",
		StateOff:          "off",
		// Map anything that is not on/off to unknown so the hub shows it.
		ValueTemplate: "{% if value == 'on' %}on{% elif value == 'off' %}off{% else %}unknown{% endif %}",
		Device:        device(),
	}
}

// Button builds the button entity document.
func Button() ButtonEntity {
	return ButtonEntity{
		Name:              "Dashboard Display: Refresh Status",
		UniqueID:          uniqueButton,
		CommandTopic:      mqtt.TopicCommand,
		PayloadPress:      "status",
		AvailabilityTopic: mqtt.TopicAvailability,
		Device:            device(),
	}
}

// Publish connects, publishes both documents retained, waits for the
// network loop to flush, and disconnects. It performs no subscription.
func Publish(cfg mqtt.Config) error {
	log := logger.New("discovery")
	cfg.ClientID = "displayd-discovery-" + uuid.NewString()[:8]
	opts, err := mqtt.NewClientOptions(cfg)
	if err != nil {
		return err
	}
	// One-shot publisher: no session to resume, no will needed.
	opts.SetCleanSession(true)
	opts.UnsetWill()

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", cfg.URL(), token.Error())
	}
	defer cli.Disconnect(250)

	docs := []struct {
		topic   string
		payload any
	}{
		{SwitchConfigTopic, Switch()},
		{ButtonConfigTopic, Button()},
	}
	for _, doc := range docs {
		body, err := json.Marshal(doc.payload)
		if err != nil {
			return err
		}
		if token := cli.Publish(doc.topic, mqtt.QoS, true, body); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish %s: %w", doc.topic, token.Error())
		}
		log.Infof("published %s", doc.topic)
	}
	// Give the network loop a moment to flush before disconnecting.
	time.Sleep(500 * time.Millisecond)
	return nil
}
