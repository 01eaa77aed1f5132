package house

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation limits for house fields.
const (
	maxNameLength    = 100
	maxAddressLength = 255
	maxOccupants     = 100
)

// GenerateID creates a new prefixed house identifier.
func GenerateID() string {
	return "hse-" + uuid.NewString()[:8]
}

// ValidateName checks if a house name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateAddress checks if a house address is valid.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("%w: address cannot be empty", ErrInvalidAddress)
	}
	if len(address) > maxAddressLength {
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidAddress, maxAddressLength)
	}
	return nil
}

// ValidateCoordinates checks latitude and longitude ranges.
// Both must be set together or both omitted.
func ValidateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidCoordinates)
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinates, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinates, *lon)
	}
	return nil
}

// Validate validates a House before persistence.
func Validate(h *House) error {
	if err := ValidateName(h.Name); err != nil {
		return err
	}
	if err := ValidateAddress(h.Address); err != nil {
		return err
	}
	if err := ValidateCoordinates(h.Latitude, h.Longitude); err != nil {
		return err
	}
	if h.OccupantCount < 1 || h.OccupantCount > maxOccupants {
		return fmt.Errorf("%w: %d out of range [1, %d]", ErrInvalidOccupants, h.OccupantCount, maxOccupants)
	}
	return nil
}
