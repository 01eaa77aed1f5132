package room

import "errors"

var (
	// ErrNotFound is returned when a room ID does not exist.
	ErrNotFound = errors.New("room not found")

	// ErrHasDevices is returned when trying to delete a room that still has devices.
	ErrHasDevices = errors.New("room has devices: delete devices first")

	// ErrHouseNotFound is returned when the referenced house does not exist.
	ErrHouseNotFound = errors.New("room house not found")

	// ErrInvalidName is returned for an empty or oversized name.
	ErrInvalidName = errors.New("invalid room name")

	// ErrInvalidType is returned for an unknown room type.
	ErrInvalidType = errors.New("invalid room type")

	// ErrInvalidFloor is returned for an implausible floor number.
	ErrInvalidFloor = errors.New("invalid floor")

	// ErrInvalidSize is returned for a non-positive floor area.
	ErrInvalidSize = errors.New("invalid room size")
)
