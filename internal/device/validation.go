package device

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation limits for device fields.
const (
	maxNameLength     = 100
	maxMapKeys        = 50
	maxStringValueLen = 1024
	maxNestingDepth   = 10
)

// GenerateID creates a new prefixed device identifier.
func GenerateID() string {
	return "dev-" + uuid.NewString()[:8]
}

// ValidateName checks if a device name is valid.
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

// ValidateSettings checks that a Settings map does not exceed size limits.
func ValidateSettings(s Settings) error {
	return validateMap(map[string]any(s), ErrInvalidSettings)
}

// ValidateData checks that a data report does not exceed size limits.
func ValidateData(d Data) error {
	return validateMap(map[string]any(d), ErrInvalidData)
}

// Validate validates a Device before persistence.
func Validate(d *Device) error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if !ValidType(string(d.Type)) {
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	if !ValidStatus(string(d.Status)) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	if err := ValidateSettings(d.Settings); err != nil {
		return err
	}
	return ValidateData(d.LastData)
}

// validateMap checks map size against limits, tagging failures with sentinel.
func validateMap(m map[string]any, sentinel error) error {
	if m == nil {
		return nil
	}
	if len(m) > maxMapKeys {
		return fmt.Errorf("%w: exceeds max keys (%d)", sentinel, maxMapKeys)
	}
	return validateMapSize(m, sentinel, 0)
}

// validateMapSize recursively checks map values against size limits.
func validateMapSize(m map[string]any, sentinel error, depth int) error {
	if depth > maxNestingDepth {
		return fmt.Errorf("%w: exceeds maximum nesting depth", sentinel)
	}
	for k, v := range m {
		if len(k) > maxStringValueLen {
			return fmt.Errorf("%w: key too long", sentinel)
		}
		if err := validateValueSize(v, sentinel, depth); err != nil {
			return err
		}
	}
	return nil
}

// validateValueSize checks individual values in a settings or data map.
func validateValueSize(v any, sentinel error, depth int) error {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		if len(val) > maxStringValueLen {
			return fmt.Errorf("%w: string value too long", sentinel)
		}
	case map[string]any:
		if len(val) > maxMapKeys {
			return fmt.Errorf("%w: nested map too large", sentinel)
		}
		return validateMapSize(val, sentinel, depth+1)
	case []any:
		if len(val) > maxMapKeys {
			return fmt.Errorf("%w: array too large", sentinel)
		}
		for _, elem := range val {
			if err := validateValueSize(elem, sentinel, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
