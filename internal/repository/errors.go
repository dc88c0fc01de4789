// Package repository implements the MySQL data access layer. Sentinel
// errors defined here let handlers map store failures to HTTP statuses
// without ever surfacing raw driver errors to clients.
package repository

import (
	"errors"
	"strings"
)

// ErrUserExists is returned when an insert violates the unique constraint on
// username or email. Handlers translate it into an HTTP 409 response.
var ErrUserExists = errors.New("user already exists")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Uniqueness is enforced by the store's own constraints, so a
// race between two concurrent inserts for the same key still surfaces here
// rather than creating a duplicate.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
