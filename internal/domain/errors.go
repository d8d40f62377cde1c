package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by input validation.
var (
	// ErrInvalidProbability indicates a probability outside [0,1]
	// (or [0,100] in percentage form).
	ErrInvalidProbability = errors.New("probability out of range")

	// ErrInvalidMass indicates a Dempster-Shafer mass assignment whose
	// committed mass exceeds 1 or whose components fall outside [0,1].
	ErrInvalidMass = errors.New("invalid mass assignment")
)

// ValidationError aggregates one or more validation failures for an entity.
// Computation is never attempted on an entity that fails validation.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}
