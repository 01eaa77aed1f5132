package device

import "time"

// Type categorises a device by what it does.
type Type string

// Valid device types.
const (
	TypeLight          Type = "light"
	TypeThermostat     Type = "thermostat"
	TypeSecurityCamera Type = "security_camera"
	TypeDoorLock       Type = "door_lock"
	TypeOther          Type = "other"
)

// AllTypes returns all valid device types.
func AllTypes() []Type {
	return []Type{TypeLight, TypeThermostat, TypeSecurityCamera, TypeDoorLock, TypeOther}
}

// ValidType checks if a string is a valid device type.
func ValidType(s string) bool {
	for _, t := range AllTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Status represents a device's on/off state.
//
// StatusUnknown is the initial state before the device first reports.
type Status string

// Valid device statuses.
const (
	StatusOn      Status = "on"
	StatusOff     Status = "off"
	StatusUnknown Status = "unknown"
)

// AllStatuses returns all valid device statuses.
func AllStatuses() []Status {
	return []Status{StatusOn, StatusOff, StatusUnknown}
}

// ValidStatus checks if a string is a valid device status.
func ValidStatus(s string) bool {
	for _, st := range AllStatuses() {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Settings holds device configuration as arbitrary key-value pairs.
type Settings map[string]any

// Data holds the most recent telemetry reported by a device.
type Data map[string]any

// Device represents a controllable appliance or sensor in a room.
type Device struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	Name            string     `json:"name"`
	Type            Type       `json:"type"`
	Status          Status     `json:"status"`
	Settings        Settings   `json:"settings,omitempty"`
	LastData        Data       `json:"last_data,omitempty"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DeepCopy returns a copy of the device safe for independent mutation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}
	copied := *d
	copied.Settings = deepCopyMap(d.Settings)
	copied.LastData = deepCopyMap(d.LastData)
	if d.StatusUpdatedAt != nil {
		ts := *d.StatusUpdatedAt
		copied.StatusUpdatedAt = &ts
	}
	return &copied
}

// deepCopyMap recursively copies a map of arbitrary values.
func deepCopyMap[M ~map[string]any](m M) M {
	if m == nil {
		return nil
	}
	copied := make(M, len(m))
	for k, v := range m {
		copied[k] = deepCopyValue(v)
	}
	return copied
}

// deepCopyValue copies nested maps and slices; scalars are returned as is.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		copied := make([]any, len(val))
		for i, elem := range val {
			copied[i] = deepCopyValue(elem)
		}
		return copied
	default:
		return v
	}
}
