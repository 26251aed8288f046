/*
errors.go - Centralized error types for the simulation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Surrounding layers (store, api) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Configuration errors - Input-contract violations caught at the boundary
  2. Lookup errors - Referenced policies/scenarios that don't exist

The engine itself is total over well-typed numeric inputs: missing optional
parameters degrade to documented defaults, and divisions by counts that can
legitimately be zero fall back to zero. The exceptions are the structural
inputs validated before any stage runs: the time horizon must be at least
one month, and permitDuration must be positive (the workload model divides
by it).
*/
package simulation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is returned when a run's structural inputs
	// violate the engine's input contract.
	ErrInvalidConfiguration = errors.New("invalid simulation configuration")

	// ErrPolicyNotFound is returned when a referenced policy doesn't exist.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrScenarioNotFound is returned when a referenced scenario doesn't exist.
	ErrScenarioNotFound = errors.New("scenario not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidConfigurationError reports which structural input failed validation.
type InvalidConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v (%s)", e.Field, e.Value, e.Reason)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrScenarioNotFound)
}
