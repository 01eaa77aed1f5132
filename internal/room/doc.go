// Package room manages the rooms within houses.
//
// A room belongs to exactly one house and contains zero or more
// devices. Deleting a room that still has devices is rejected with
// ErrHasDevices.
package room
