package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestInterpret walks the generic eight-tier ladder, including the
// open-ended buckets outside 0-100.
func TestInterpret(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{120, "beyond reasonable doubt"},
		{95, "beyond reasonable doubt"},
		{94.999, "clearly preponderant reasons"},
		{80, "clearly preponderant reasons"},
		{60, "substantially established"},
		{50, "roughly even / slight preponderance"},
		{40, "doubtful"},
		{20, "improbable"},
		{1, "practically no chance"},
		{0.5, "near impossible"},
		{-3, "near impossible"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.pct), "pct=%v", tt.pct)
	}
}

// TestStepLabel walks the step-local legal-process ladder, which uses
// different thresholds and vocabulary than Interpret.
func TestStepLabel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{96, "beyond reasonable doubt"},
		{80, "strongly indicates guilt"},
		{60, "sufficient grounds for indictment"},
		{50, "preponderance of evidence"},
		{40, "probable cause to suspect"},
		{30, "doubtful"},
		{20, "improbable"},
		{19.9, "indicates innocence"},
		{-1, "indicates innocence"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StepLabel(tt.pct), "pct=%v", tt.pct)
	}
}

// TestStepLabel_DistinctFromInterpret pins the intentional vocabulary split
// between the per-step ladder and the final interpretation ladder.
func TestStepLabel_DistinctFromInterpret(t *testing.T) {
	for _, pct := range []float64{85, 65, 45, 25} {
		assert.NotEqual(t, Interpret(pct), StepLabel(pct), "pct=%v", pct)
	}
}

// TestCounterLabel walks the abbreviated four-tier ladder used on
// counter-evidence rows.
func TestCounterLabel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{99, ">95%"},
		{95, ">95%"},
		{85, ">80%"},
		{60, ">50%"},
		{50, ">50%"},
		{49.9, "under 50%"},
		{0, "under 50%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CounterLabel(tt.pct), "pct=%v", tt.pct)
	}
}

// TestHighlightFor verifies the two display thresholds.
func TestHighlightFor(t *testing.T) {
	assert.Equal(t, HighlightCritical, HighlightFor(95))
	assert.Equal(t, HighlightStrong, HighlightFor(80))
	assert.Equal(t, HighlightNone, HighlightFor(79.99))
}

// TestProbabilityFromPercent covers conversion and range rejection.
func TestProbabilityFromPercent(t *testing.T) {
	p, err := ProbabilityFromPercent(0.01)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0001, float64(p), 1e-12)

	_, err = ProbabilityFromPercent(100.1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	_, err = ProbabilityFromPercent(-0.1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

// TestMassAssignment_Validate covers the committed-mass invariant.
func TestMassAssignment_Validate(t *testing.T) {
	assert.NoError(t, MassAssignment{Guilt: 0.5, Innocence: 0.2}.Validate())
	assert.InDelta(t, 0.3, MassAssignment{Guilt: 0.5, Innocence: 0.2}.Unknown(), 1e-12)

	assert.ErrorIs(t, MassAssignment{Guilt: 0.7, Innocence: 0.5}.Validate(), ErrInvalidMass)
	assert.ErrorIs(t, MassAssignment{Guilt: -0.1, Innocence: 0.2}.Validate(), ErrInvalidMass)
	assert.ErrorIs(t, MassAssignment{Guilt: 0.1, Innocence: 1.1}.Validate(), ErrInvalidMass)
}
