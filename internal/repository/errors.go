package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
// Callers distinguish it from storage failures with errors.Is.
var ErrNotFound = errors.New("not found")
