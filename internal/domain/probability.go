// Package domain contains pure, dependency-free models for the
// evidential-reasoning engine: probabilities, evidence items, posterior
// traces, and Dempster-Shafer mass assignments.
package domain

// Probability is a real number in [0,1]. Inputs arriving as percentages
// must be converted through ProbabilityFromPercent so range validation
// happens before any engine sees the value.
type Probability float64

// ProbabilityFromPercent converts a percentage in [0,100] to a Probability.
// Values outside the range are rejected rather than clamped.
func ProbabilityFromPercent(pct float64) (Probability, error) {
	if pct < 0 || pct > 100 {
		return 0, ErrInvalidProbability
	}
	return Probability(pct / 100.0), nil
}

// Valid reports whether p lies in [0,1].
func (p Probability) Valid() bool { return p >= 0 && p <= 1 }

// Percent returns p expressed as a percentage.
func (p Probability) Percent() float64 { return float64(p) * 100 }

// Evidence is a point-form evidence item: the probability of observing the
// evidence given guilt and given innocence. Immutable once submitted to an
// engine for a given computation.
type Evidence struct {
	// Description is a free-text label for the evidence ("DNA match",
	// "fingerprint"), carried through to report rows.
	Description string `json:"description,omitempty"`

	// Guilty is P(B|guilty).
	Guilty Probability `json:"p_guilty"`

	// Innocent is P(B|innocent).
	Innocent Probability `json:"p_innocent"`
}

// IntervalEvidence is an interval-form evidence item: min and max bounds for
// each conditional probability. Min <= Max is expected but not enforced by
// the engines; callers own that invariant.
type IntervalEvidence struct {
	Description string `json:"description,omitempty"`

	// GuiltyMin and GuiltyMax bound P(B|guilty).
	GuiltyMin Probability `json:"p_guilty_min"`
	GuiltyMax Probability `json:"p_guilty_max"`

	// InnocentMin and InnocentMax bound P(B|innocent).
	InnocentMin Probability `json:"p_innocent_min"`
	InnocentMax Probability `json:"p_innocent_max"`
}

// CounterEvidence is an evidence item entered separately and intended to
// weaken the posterior. Semantically the Innocent component is expected to
// exceed the Guilty one, but the update formula is applied identically
// regardless of which side is larger; the direction of effect is entirely a
// function of the supplied values.
type CounterEvidence struct {
	Description string `json:"description,omitempty"`

	// Guilty is P(counter-evidence|guilty).
	Guilty Probability `json:"p_guilty"`

	// Innocent is P(counter-evidence|innocent).
	Innocent Probability `json:"p_innocent"`
}

// StarNode is one evidence node in a star-topology Bayesian network, where
// every node depends directly and only on the guilt variable.
type StarNode struct {
	Description string `json:"description,omitempty"`

	// TrueGivenGuilt is P(B=true | S=true).
	TrueGivenGuilt Probability `json:"p_true_given_guilt"`

	// TrueGivenInnocence is P(B=true | S=false).
	TrueGivenInnocence Probability `json:"p_true_given_innocence"`
}

// MassAssignment is a Dempster-Shafer mass function over the frame
// {guilt, innocence, unknown}. The unknown mass is implicit:
// 1 - (Guilt + Innocence).
type MassAssignment struct {
	Guilt     float64 `json:"m_guilt" validate:"min=0,max=1"`
	Innocence float64 `json:"m_innocence" validate:"min=0,max=1"`
}

// Unknown returns the implicit mass on the full frame.
func (m MassAssignment) Unknown() float64 { return 1 - (m.Guilt + m.Innocence) }

// Validate rejects assignments whose committed mass exceeds 1 or whose
// components fall outside [0,1]. Violations are rejected before combination,
// never silently clamped.
func (m MassAssignment) Validate() error {
	if m.Guilt < 0 || m.Guilt > 1 || m.Innocence < 0 || m.Innocence > 1 {
		return ErrInvalidMass
	}
	if m.Guilt+m.Innocence > 1 {
		return ErrInvalidMass
	}
	return nil
}
