package device

import "errors"

var (
	// ErrNotFound is returned when a device ID does not exist.
	ErrNotFound = errors.New("device not found")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("device room not found")

	// ErrInvalidName is returned for an empty or oversized name.
	ErrInvalidName = errors.New("invalid device name")

	// ErrInvalidType is returned for an unknown device type.
	ErrInvalidType = errors.New("invalid device type")

	// ErrInvalidStatus is returned for an unknown device status.
	ErrInvalidStatus = errors.New("invalid device status")

	// ErrInvalidSettings is returned when settings exceed size limits.
	ErrInvalidSettings = errors.New("invalid device settings")

	// ErrInvalidData is returned when a data report exceeds size limits.
	ErrInvalidData = errors.New("invalid device data")
)
