package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with an existing
// record, e.g. a duplicate active registration.
var ErrConflict = errors.New("conflict")
