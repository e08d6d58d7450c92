package mqtt

import "github.com/dashpi/displayd/core/session"

// The topic set is fixed by the hub integration, not derived from
// configuration.
const (
	TopicCommand      = "dashboard/display/command"
	TopicStatus       = "dashboard/display/status"
	TopicAvailability = "dashboard/display/availability"
)

// QoS is the minimum delivery guarantee for every publication and the
// command subscription.
const QoS byte = 1

// Topics returns the fixed topic set for the session manager.
func Topics() session.Topics {
	return session.Topics{
		Command:      TopicCommand,
		Status:       TopicStatus,
		Availability: TopicAvailability,
	}
}
