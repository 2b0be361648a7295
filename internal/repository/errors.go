// Package repository holds the MySQL data access layer.  Repositories
// return the sentinel values below so that services can translate them
// into domain errors without depending on driver types.
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row, including rows
	// that exist but belong to another owner.
	ErrNotFound = errors.New("not found")

	// ErrEmailExists is returned by ProfileRepo.Create on a duplicate email.
	ErrEmailExists = errors.New("email already exists")

	// ErrMissingReference is returned when an insert names a parent row
	// (profile, shop item) that does not exist.
	ErrMissingReference = errors.New("referenced row does not exist")

	// ErrConflict is returned when a CHECK constraint rejects a write, such
	// as a booking whose requester and provider are the same profile.
	ErrConflict = errors.New("conflict")
)
