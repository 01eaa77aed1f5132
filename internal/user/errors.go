package user

import "errors"

var (
	// ErrNotFound is returned when a user ID does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when creating or renaming a user
	// to a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when creating or updating a user with
	// an email address that already exists.
	ErrEmailTaken = errors.New("email already taken")

	// ErrOwnsHouses is returned when trying to delete a user that
	// still owns houses.
	ErrOwnsHouses = errors.New("user owns houses: delete or reassign houses first")

	// ErrInvalidName is returned for an empty or oversized name.
	ErrInvalidName = errors.New("invalid user name")

	// ErrInvalidUsername is returned for a malformed username.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone is returned for a malformed phone number.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidPrivilege is returned for an unknown privilege level.
	ErrInvalidPrivilege = errors.New("invalid privilege level")
)
