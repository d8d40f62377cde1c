package engine

import (
	"fmt"

	"github.com/ahrav/go-verdict/internal/domain"
)

// Sequential implements iterative Bayesian updating over a sequence of
// evidence items, in point form and interval form, with an optional
// counter-evidence continuation applied to either.
//
// Point form applies the exact update recurrence once per item in input
// order and annotates each step with a report row. Interval form advances
// three independent chains in lock-step: the min chain uses the (min, min)
// endpoint pair at every step, the max chain the (max, max) pair, and the
// median chain the arithmetic mean of each pair. The chains share the
// starting prior, diverge at step 1, and never cross-reference each other.
// This is deliberately not rigorous interval propagation: true bounds would
// evaluate all four endpoint combinations per step and track the min/max
// envelope across steps. The fixed-chain behavior is preserved as the
// method's defined semantics; do not "correct" it here.
//
// Concurrency: the engine is stateless and thread-safe for concurrent use.
type Sequential struct {
	// name is the unique identifier for this engine instance.
	name string
	// config contains validated configuration parameters.
	// Immutable after engine creation to ensure thread safety.
	config SequentialConfig
}

// SequentialConfig defines the configuration parameters for the Sequential
// engine.
type SequentialConfig struct {
	// MaxDecimals caps the decimal places used when formatting the numeric
	// fields of report rows. Zero selects the default of 10.
	MaxDecimals int `yaml:"max_decimals" json:"max_decimals" validate:"min=0,max=15"`
}

// NewSequential creates a Sequential engine with the given configuration.
// It returns ErrEmptyEngineName for an empty name, or a wrapped validation
// error if the configuration is invalid.
func NewSequential(name string, config SequentialConfig) (*Sequential, error) {
	if name == "" {
		return nil, ErrEmptyEngineName
	}
	if config.MaxDecimals == 0 {
		config.MaxDecimals = domain.DefaultDecimals
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Sequential{name: name, config: config}, nil
}

// Name returns the unique identifier for this engine instance.
func (s *Sequential) Name() string { return s.name }

// Update runs the point-form recurrence across items in input order,
// starting from prior. The returned trace holds the prior at index 0, one
// posterior per step, and one annotated row per step. If the evidence's two
// conditional probabilities are equal the posterior is unchanged
// (uninformative evidence); a zero denominator yields a posterior of 0.
func (s *Sequential) Update(prior domain.Probability, items []domain.Evidence) (*domain.PointTrace, error) {
	if !prior.Valid() {
		return nil, fmt.Errorf("prior: %w", domain.ErrInvalidProbability)
	}
	if len(items) == 0 {
		return nil, ErrNoEvidence
	}
	for i, it := range items {
		if !it.Guilty.Valid() || !it.Innocent.Valid() {
			return nil, fmt.Errorf("evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	trace := &domain.PointTrace{
		Posteriors: make([]domain.Probability, 0, len(items)+1),
		Rows:       make([]domain.StepRow, 0, len(items)),
	}
	trace.Posteriors = append(trace.Posteriors, prior)

	current := float64(prior)
	for i, it := range items {
		old := current
		current = posteriorStep(float64(it.Guilty), float64(it.Innocent), old)
		trace.Posteriors = append(trace.Posteriors, domain.Probability(current))
		trace.Rows = append(trace.Rows, s.row(
			i+1, false, it.Description,
			float64(it.Guilty), float64(it.Innocent), old, current,
		))
	}
	return trace, nil
}

// ApplyCounter extends a point-form trace with counter-evidence items,
// applying the identical update formula with the item's first probability in
// the P(B|guilty) slot and the second in the P(B|innocent) slot. There is no
// sign flip or special-casing: whether a counter item weakens or strengthens
// the posterior depends only on which of its probabilities is larger.
// Counter rows continue the step numbering and carry the abbreviated
// four-tier label ladder.
func (s *Sequential) ApplyCounter(trace *domain.PointTrace, items []domain.CounterEvidence) error {
	if trace == nil || len(trace.Posteriors) == 0 {
		return fmt.Errorf("counter evidence requires a completed trace")
	}
	for i, it := range items {
		if !it.Guilty.Valid() || !it.Innocent.Valid() {
			return fmt.Errorf("counter evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	step := len(trace.Rows)
	current := float64(trace.Final())
	for _, it := range items {
		step++
		old := current
		current = posteriorStep(float64(it.Guilty), float64(it.Innocent), old)
		trace.Posteriors = append(trace.Posteriors, domain.Probability(current))
		trace.Rows = append(trace.Rows, s.row(
			step, true, it.Description,
			float64(it.Guilty), float64(it.Innocent), old, current,
		))
	}
	return nil
}

// UpdateInterval runs the three endpoint chains across items in input order.
// Every chain records a value at every step, starting with the shared prior.
// Min <= Max is expected per item but not enforced; with reversed bounds the
// chains simply follow the supplied endpoints.
func (s *Sequential) UpdateInterval(prior domain.Probability, items []domain.IntervalEvidence) (*domain.IntervalTrace, error) {
	if !prior.Valid() {
		return nil, fmt.Errorf("prior: %w", domain.ErrInvalidProbability)
	}
	if len(items) == 0 {
		return nil, ErrNoEvidence
	}
	for i, it := range items {
		if !it.GuiltyMin.Valid() || !it.GuiltyMax.Valid() ||
			!it.InnocentMin.Valid() || !it.InnocentMax.Valid() {
			return nil, fmt.Errorf("evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	trace := &domain.IntervalTrace{
		Min:    []domain.Probability{prior},
		Median: []domain.Probability{prior},
		Max:    []domain.Probability{prior},
	}
	curMin, curMed, curMax := float64(prior), float64(prior), float64(prior)
	for _, it := range items {
		curMin = posteriorStep(float64(it.GuiltyMin), float64(it.InnocentMin), curMin)
		trace.Min = append(trace.Min, domain.Probability(curMin))

		pgMed := (float64(it.GuiltyMin) + float64(it.GuiltyMax)) / 2
		piMed := (float64(it.InnocentMin) + float64(it.InnocentMax)) / 2
		curMed = posteriorStep(pgMed, piMed, curMed)
		trace.Median = append(trace.Median, domain.Probability(curMed))

		curMax = posteriorStep(float64(it.GuiltyMax), float64(it.InnocentMax), curMax)
		trace.Max = append(trace.Max, domain.Probability(curMax))
	}
	return trace, nil
}

// ApplyCounterInterval extends all three chains of an interval trace with
// counter-evidence items. Each chain is advanced independently using its own
// running value as the operand of the same update formula; the counter pair
// is applied as-is to every chain, with no min/max re-derivation.
func (s *Sequential) ApplyCounterInterval(trace *domain.IntervalTrace, items []domain.CounterEvidence) error {
	if trace == nil || len(trace.Min) == 0 {
		return fmt.Errorf("counter evidence requires a completed trace")
	}
	for i, it := range items {
		if !it.Guilty.Valid() || !it.Innocent.Valid() {
			return fmt.Errorf("counter evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	curMin, curMed, curMax := trace.Final()
	for _, it := range items {
		pg, pi := float64(it.Guilty), float64(it.Innocent)
		curMin = domain.Probability(posteriorStep(pg, pi, float64(curMin)))
		curMed = domain.Probability(posteriorStep(pg, pi, float64(curMed)))
		curMax = domain.Probability(posteriorStep(pg, pi, float64(curMax)))
		trace.Min = append(trace.Min, curMin)
		trace.Median = append(trace.Median, curMed)
		trace.Max = append(trace.Max, curMax)
	}
	return nil
}

// row builds the annotated report row for one update step.
func (s *Sequential) row(step int, counter bool, desc string, pg, pi, old, new float64) domain.StepRow {
	newPct := new * 100
	label := domain.StepLabel(newPct)
	if counter {
		label = domain.CounterLabel(newPct)
	}
	return domain.StepRow{
		Step:        step,
		Counter:     counter,
		Description: desc,
		Guilty:      domain.FormatDecimal(pg*100, s.config.MaxDecimals),
		Innocent:    domain.FormatDecimal(pi*100, s.config.MaxDecimals),
		OldPercent:  domain.FormatDecimal(old*100, s.config.MaxDecimals),
		NewPercent:  domain.FormatDecimal(newPct, s.config.MaxDecimals),
		Delta:       domain.FormatDecimal((new-old)*100, s.config.MaxDecimals),
		Label:       label,
		Highlight:   domain.HighlightFor(newPct),
	}
}
