// Package user manages the people with access to the smart home.
//
// Users carry a privilege level (admin, regular, kid) and a unique
// username. A user cannot be deleted while they still own houses;
// callers must delete or reassign the houses first.
//
// The Registry wraps a Repository with an in-memory cache and is the
// entry point for all user operations.
package user
