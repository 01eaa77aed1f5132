package room

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation limits for room fields.
const (
	maxNameLength = 100
	minFloor      = -5
	maxFloor      = 200
	maxSizeM2     = 10000
)

// GenerateID creates a new prefixed room identifier.
func GenerateID() string {
	return "rom-" + uuid.NewString()[:8]
}

// ValidateName checks if a room name is valid.
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

// Validate validates a Room before persistence.
func Validate(rm *Room) error {
	if err := ValidateName(rm.Name); err != nil {
		return err
	}
	if !ValidType(string(rm.Type)) {
		return fmt.Errorf("%w: %q", ErrInvalidType, rm.Type)
	}
	if rm.Floor < minFloor || rm.Floor > maxFloor {
		return fmt.Errorf("%w: %d out of range [%d, %d]", ErrInvalidFloor, rm.Floor, minFloor, maxFloor)
	}
	if rm.SizeM2 != nil && (*rm.SizeM2 <= 0 || *rm.SizeM2 > maxSizeM2) {
		return fmt.Errorf("%w: %v out of range (0, %d]", ErrInvalidSize, *rm.SizeM2, maxSizeM2)
	}
	return nil
}
