package user

import "time"

// Privilege defines a user's access level within the system.
type Privilege string

// Valid privilege levels.
const (
	PrivilegeAdmin   Privilege = "admin"
	PrivilegeRegular Privilege = "regular"
	PrivilegeKid     Privilege = "kid"
)

// AllPrivileges returns all valid privilege levels.
func AllPrivileges() []Privilege {
	return []Privilege{PrivilegeAdmin, PrivilegeRegular, PrivilegeKid}
}

// ValidPrivilege checks if a string is a valid privilege level.
func ValidPrivilege(s string) bool {
	for _, p := range AllPrivileges() {
		if string(p) == s {
			return true
		}
	}
	return false
}

// User represents a person with access to the smart home system.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Email       string    `json:"email"`
	Privilege   Privilege `json:"privilege"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeepCopy returns a copy of the user safe for independent mutation.
func (u *User) DeepCopy() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
