package domain

// Highlight marks rows whose posterior crosses a display-significant
// threshold. Presenters use it for row emphasis; the engines only classify.
type Highlight int

const (
	// HighlightNone is the default for posteriors under 80%.
	HighlightNone Highlight = iota

	// HighlightStrong marks posteriors of 80% or more.
	HighlightStrong

	// HighlightCritical marks posteriors of 95% or more.
	HighlightCritical
)

// HighlightFor classifies a posterior percentage into a Highlight level.
func HighlightFor(pct float64) Highlight {
	switch {
	case pct >= 95:
		return HighlightCritical
	case pct >= 80:
		return HighlightStrong
	default:
		return HighlightNone
	}
}

// StepRow is the annotated record for one sequential update step. All
// numeric fields are pre-formatted with minimal decimals so every consumer
// renders the same figures.
type StepRow struct {
	// Step is the 1-based index of the evidence item, continuing across the
	// counter-evidence continuation.
	Step int `json:"step"`

	// Counter is true for rows produced by the counter-evidence continuation.
	Counter bool `json:"counter,omitempty"`

	// Description is the evidence item's free-text label, if any.
	Description string `json:"description,omitempty"`

	// Guilty and Innocent are the item's input probabilities in percent.
	Guilty   string `json:"p_guilty"`
	Innocent string `json:"p_innocent"`

	// OldPercent and NewPercent are the posterior before and after the
	// update, in percent.
	OldPercent string `json:"old_posterior_pct"`
	NewPercent string `json:"new_posterior_pct"`

	// Delta is the signed change in percentage points.
	Delta string `json:"delta_pp"`

	// Label is the verbal tier for the new posterior: the step-local legal
	// ladder for ordinary evidence, the abbreviated ladder for counter rows.
	Label string `json:"label"`

	// Highlight is the display emphasis level for the new posterior.
	Highlight Highlight `json:"highlight"`
}

// PointTrace is the result of point-form sequential updating: the posterior
// after every step (index 0 holds the prior) and one annotated row per
// evidence item in input order.
type PointTrace struct {
	Posteriors []Probability `json:"posteriors"`
	Rows       []StepRow     `json:"rows"`
}

// Final returns the last posterior in the trace.
func (t *PointTrace) Final() Probability {
	return t.Posteriors[len(t.Posteriors)-1]
}

// IntervalTrace holds the three endpoint chains of interval-form updating.
// The chains are independent sequential runs with a fixed endpoint choice
// per step (min pair, arithmetic-mean pair, max pair), not bounds of a
// single propagated interval: the min chain uses the min endpoints at every
// step and never tracks a running worst case across mixed choices. Each
// slice starts with the shared prior and appends one value per step.
type IntervalTrace struct {
	Min    []Probability `json:"min"`
	Median []Probability `json:"median"`
	Max    []Probability `json:"max"`
}

// Final returns the last value of each chain, in (min, median, max) order.
func (t *IntervalTrace) Final() (Probability, Probability, Probability) {
	n := len(t.Min) - 1
	return t.Min[n], t.Median[n], t.Max[n]
}

// Len returns the number of recorded steps, excluding the prior entry.
func (t *IntervalTrace) Len() int { return len(t.Min) - 1 }
