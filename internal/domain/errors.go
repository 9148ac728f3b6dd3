// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Collections that carry ordered children. Used to tell phase errors from exercise errors.
const (
	CollectionPhases    = "phases"
	CollectionExercises = "exercises"
)

// --- Error Definitions ---
// Every domain error matches one of these through errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrInvalidOrder = errors.New("invalid order")

	ErrDuplicatePhaseType = errors.New("phase type already present in workout")
	ErrPhaseNotFound      = errors.New("phase not found in workout")
	ErrDuplicateExercise  = errors.New("exercise already present in phase")
	ErrExerciseNotFound   = errors.New("exercise not found in phase")
)

// ValidationError reports malformed input. The aggregate is never modified when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateKeyError is returned when a key (phase type or catalog exercise ID) already exists.
type DuplicateKeyError struct {
	Collection string
	Key        string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in %s", e.Key, e.Collection)
}

func (e *DuplicateKeyError) Is(target error) bool {
	switch target {
	case ErrDuplicateKey:
		return true
	case ErrDuplicatePhaseType:
		return e.Collection == CollectionPhases
	case ErrDuplicateExercise:
		return e.Collection == CollectionExercises
	}
	return false
}

// NotFoundError is returned when a referenced phase or exercise placement does not exist.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found in %s", e.Key, e.Collection)
}

func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrPhaseNotFound:
		return e.Collection == CollectionPhases
	case ErrExerciseNotFound:
		return e.Collection == CollectionExercises
	}
	return false
}

// InvalidOrderError is returned when a requested position lies outside [1, Count].
type InvalidOrderError struct {
	Collection string
	Requested  int
	Count      int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("order %d out of range [1, %d] in %s", e.Requested, e.Count, e.Collection)
}

func (e *InvalidOrderError) Unwrap() error { return ErrInvalidOrder }
