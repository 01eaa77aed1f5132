package user

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Validation limits for user fields.
const (
	maxNameLength     = 100
	minUsernameLength = 3
	maxUsernameLength = 30
	maxEmailLength    = 254

	usernamePattern = `^[a-z0-9]+(?:[._-][a-z0-9]+)*$`
	emailPattern    = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	phonePattern    = `^\+?[0-9][0-9 ()-]{5,18}[0-9]$`
)

var (
	usernameRegex = regexp.MustCompile(usernamePattern)
	emailRegex    = regexp.MustCompile(emailPattern)
	phoneRegex    = regexp.MustCompile(phonePattern)
)

// GenerateID creates a new prefixed user identifier.
func GenerateID() string {
	return "usr-" + uuid.NewString()[:8]
}

// ValidateName checks if a user display name is valid.
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

// ValidateUsername checks if a username is valid.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidUsername)
	}
	if len(username) < minUsernameLength {
		return fmt.Errorf("%w: username shorter than %d characters", ErrInvalidUsername, minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username exceeds %d characters", ErrInvalidUsername, maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username must be lowercase alphanumeric with ._- separators", ErrInvalidUsername)
	}
	return nil
}

// ValidateEmail checks if an email address is plausible.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidEmail)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email exceeds %d characters", ErrInvalidEmail, maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// ValidatePhone checks if a phone number is plausible.
// An empty phone number is allowed; the field is optional.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return nil
}

// Validate validates a User before persistence.
func Validate(u *User) error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if err := ValidatePhone(u.PhoneNumber); err != nil {
		return err
	}
	if !ValidPrivilege(string(u.Privilege)) {
		return fmt.Errorf("%w: %q", ErrInvalidPrivilege, u.Privilege)
	}
	return nil
}
