package house

import "errors"

var (
	// ErrNotFound is returned when a house ID does not exist.
	ErrNotFound = errors.New("house not found")

	// ErrHasRooms is returned when trying to delete a house that still has rooms.
	ErrHasRooms = errors.New("house has rooms: delete rooms first")

	// ErrOwnerNotFound is returned when the referenced owner does not exist.
	ErrOwnerNotFound = errors.New("house owner not found")

	// ErrInvalidName is returned for an empty or oversized name.
	ErrInvalidName = errors.New("invalid house name")

	// ErrInvalidAddress is returned for an empty or oversized address.
	ErrInvalidAddress = errors.New("invalid house address")

	// ErrInvalidCoordinates is returned for out-of-range latitude or longitude.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidOccupants is returned for a non-positive occupant count.
	ErrInvalidOccupants = errors.New("invalid occupant count")
)
