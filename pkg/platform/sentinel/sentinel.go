package sentinel

import "errors"

// Sentinel errors for store facts. Stores return these (optionally wrapped) so
// services can translate them into domain errors:
// - ErrNotFound: row does not exist
// - ErrConflict: a unique key (act number, dimension code) is already taken
// - ErrHasDependents: a row is still referenced and cannot be removed
// - ErrUnavailable: backing store temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrHasDependents = errors.New("has dependents")
	ErrUnavailable   = errors.New("unavailable")
)
