// Package engine provides the evidential-combination engines: sequential
// Bayesian updating in point and interval form, Monte Carlo propagation of
// interval uncertainty, the closed-form star-network posterior, and
// Dempster-Shafer belief combination.
//
// Every engine is stateless after construction and safe for concurrent use.
// All computation is pure over its inputs: no shared mutable state and no
// I/O. Every division is guarded; a zero denominator in a Bayes update
// substitutes 0 by design, while a zero normalization constant in Dempster
// combination fails explicitly because no combined belief is defined there.
package engine

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by the engines.
var (
	// ErrEmptyEngineName is returned when attempting to create an engine
	// with an empty name.
	ErrEmptyEngineName = errors.New("engine name cannot be empty")

	// ErrNoEvidence is returned when an update is requested with an empty
	// evidence list.
	ErrNoEvidence = errors.New("no evidence items provided")

	// ErrNoNodes is returned when a star-network evaluation is requested
	// with no evidence nodes.
	ErrNoNodes = errors.New("no evidence nodes provided")

	// ErrIntervalRequired is returned when Monte Carlo propagation is
	// invoked without interval evidence. This is a precondition violation
	// reported to the caller; no computation is performed.
	ErrIntervalRequired = errors.New("monte carlo requires interval evidence")

	// ErrTotalConflict is returned when two mass assignments are in total
	// conflict (K == 0) and Dempster combination is undefined.
	ErrTotalConflict = errors.New("total conflict: combination undefined")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// posteriorStep applies the exact Bayes update once:
//
//	new = (pg * old) / (pg*old + pi*(1-old))
//
// A denominator of exactly zero yields 0 rather than a division fault.
func posteriorStep(pg, pi, old float64) float64 {
	num := pg * old
	den := num + pi*(1-old)
	if den == 0 {
		return 0
	}
	return num / den
}
