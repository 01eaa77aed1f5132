// Package house manages houses and their ownership.
//
// A house belongs to exactly one user and contains zero or more rooms.
// Deleting a house that still has rooms is rejected with ErrHasRooms.
package house
