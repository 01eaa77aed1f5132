package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefix for all Smart Home System messages.
const topicPrefix = "smarthome"

// Topics provides builders for the MQTT topic hierarchy.
//
// Layout:
//
//	smarthome/system/status              core online/offline status (retained)
//	smarthome/state/devices/{id}         device state snapshots (retained)
//	smarthome/event/devices/{id}         device change events (not retained)
//	smarthome/command/devices/{id}       inbound device commands
type Topics struct{}

// SystemStatus returns the core status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// DeviceState returns the retained state topic for a device.
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/devices/%s", topicPrefix, deviceID)
}

// DeviceEvent returns the event topic for a device.
func (Topics) DeviceEvent(deviceID string) string {
	return fmt.Sprintf("%s/event/devices/%s", topicPrefix, deviceID)
}

// DeviceCommand returns the command topic for a device.
func (Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/devices/%s", topicPrefix, deviceID)
}

// AllDeviceCommands returns a wildcard filter matching every device
// command topic.
func (Topics) AllDeviceCommands() string {
	return topicPrefix + "/command/devices/+"
}

// AllDeviceStates returns a wildcard filter matching every device
// state topic.
func (Topics) AllDeviceStates() string {
	return topicPrefix + "/state/devices/+"
}

// DeviceIDFromTopic extracts the device id from a state, event, or
// command topic. Returns an empty string if the topic does not match
// the expected shape.
func DeviceIDFromTopic(topic string) string {
	for _, kind := range []string{"state", "event", "command"} {
		prefix := topicPrefix + "/" + kind + "/devices/"
		if rest, ok := strings.CutPrefix(topic, prefix); ok {
			if rest == "" || strings.Contains(rest, "/") {
				return ""
			}
			return rest
		}
	}
	return ""
}
