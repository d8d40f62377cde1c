// Package application turns declarative case files into assessments by
// selecting and running exactly one evidential-combination engine per case.
package application

import (
	"fmt"

	"github.com/ahrav/go-verdict/internal/domain"
)

// Method selects which evidential-combination engine a case runs.
type Method string

// Supported assessment methods.
const (
	// MethodBayes is point-form sequential Bayesian updating.
	MethodBayes Method = "bayes"

	// MethodBayesInterval is interval-form sequential updating with the
	// three fixed min/median/max endpoint chains.
	MethodBayesInterval Method = "bayes_interval"

	// MethodMonteCarlo propagates interval uncertainty stochastically
	// through the point recurrence.
	MethodMonteCarlo Method = "monte_carlo"

	// MethodStarNetwork combines all evidence nodes in one closed-form
	// star-topology posterior.
	MethodStarNetwork Method = "star_network"

	// MethodDempsterShafer combines two belief mass assignments with
	// Dempster's rule.
	MethodDempsterShafer Method = "dempster_shafer"
)

// CaseFile is the declarative specification of one assessment. All
// probabilities are given in percent, matching how practitioners quote
// them; the loader converts to [0,1] fractions before any engine runs.
type CaseFile struct {
	// Version is the optional schema version of the case file.
	Version string `yaml:"version" json:"version,omitempty"`

	// Case carries descriptive metadata.
	Case CaseMeta `yaml:"case" json:"case"`

	// Method selects the engine.
	Method Method `yaml:"method" json:"method" validate:"required,oneof=bayes bayes_interval monte_carlo star_network dempster_shafer"`

	// PriorPct is the prior probability of guilt in percent. Unused by
	// dempster_shafer.
	PriorPct float64 `yaml:"prior_pct" json:"prior_pct" validate:"min=0,max=100"`

	// Evidence lists the evidence items for the sequential methods, in
	// point or interval form depending on Method.
	Evidence []EvidenceConfig `yaml:"evidence,omitempty" json:"evidence,omitempty" validate:"max=50,dive"`

	// CounterEvidence lists items applied post-hoc through the identical
	// update formula. Optional; sequential and Monte Carlo methods only.
	CounterEvidence []CounterConfig `yaml:"counter_evidence,omitempty" json:"counter_evidence,omitempty" validate:"max=50,dive"`

	// Nodes lists the star-network evidence nodes.
	Nodes []NodeConfig `yaml:"nodes,omitempty" json:"nodes,omitempty" validate:"max=50,dive"`

	// Masses holds exactly two mass assignments for dempster_shafer.
	Masses []MassConfig `yaml:"masses,omitempty" json:"masses,omitempty" validate:"max=2,dive"`

	// MonteCarlo tunes the sampler for monte_carlo cases.
	MonteCarlo MonteCarloSettings `yaml:"monte_carlo,omitempty" json:"monte_carlo,omitempty"`
}

// CaseMeta describes the case for reports and logs.
type CaseMeta struct {
	Name        string `yaml:"name" json:"name" validate:"max=255"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=1000"`
}

// EvidenceConfig is one evidence entry. Point methods require the exact
// fields; interval methods require all four bound fields. Pointer fields
// distinguish "absent" from an explicit zero.
type EvidenceConfig struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty" validate:"max=255"`

	GuiltyPct   *float64 `yaml:"p_guilty_pct,omitempty" json:"p_guilty_pct,omitempty" validate:"omitempty,min=0,max=100"`
	InnocentPct *float64 `yaml:"p_innocent_pct,omitempty" json:"p_innocent_pct,omitempty" validate:"omitempty,min=0,max=100"`

	GuiltyMinPct   *float64 `yaml:"p_guilty_min_pct,omitempty" json:"p_guilty_min_pct,omitempty" validate:"omitempty,min=0,max=100"`
	GuiltyMaxPct   *float64 `yaml:"p_guilty_max_pct,omitempty" json:"p_guilty_max_pct,omitempty" validate:"omitempty,min=0,max=100"`
	InnocentMinPct *float64 `yaml:"p_innocent_min_pct,omitempty" json:"p_innocent_min_pct,omitempty" validate:"omitempty,min=0,max=100"`
	InnocentMaxPct *float64 `yaml:"p_innocent_max_pct,omitempty" json:"p_innocent_max_pct,omitempty" validate:"omitempty,min=0,max=100"`
}

// point converts the entry to a point-form evidence item.
func (e EvidenceConfig) point(index int) (domain.Evidence, error) {
	if e.GuiltyPct == nil || e.InnocentPct == nil {
		return domain.Evidence{}, fmt.Errorf("evidence %d: point form requires p_guilty_pct and p_innocent_pct", index)
	}
	guilty, err := domain.ProbabilityFromPercent(*e.GuiltyPct)
	if err != nil {
		return domain.Evidence{}, fmt.Errorf("evidence %d: p_guilty_pct: %w", index, err)
	}
	innocent, err := domain.ProbabilityFromPercent(*e.InnocentPct)
	if err != nil {
		return domain.Evidence{}, fmt.Errorf("evidence %d: p_innocent_pct: %w", index, err)
	}
	return domain.Evidence{Description: e.Description, Guilty: guilty, Innocent: innocent}, nil
}

// interval converts the entry to an interval-form evidence item.
func (e EvidenceConfig) interval(index int) (domain.IntervalEvidence, error) {
	if e.GuiltyMinPct == nil || e.GuiltyMaxPct == nil || e.InnocentMinPct == nil || e.InnocentMaxPct == nil {
		return domain.IntervalEvidence{}, fmt.Errorf("evidence %d: interval form requires all four interval bounds", index)
	}

	item := domain.IntervalEvidence{Description: e.Description}
	bounds := map[string]struct {
		pct float64
		dst *domain.Probability
	}{
		"p_guilty_min_pct":   {*e.GuiltyMinPct, &item.GuiltyMin},
		"p_guilty_max_pct":   {*e.GuiltyMaxPct, &item.GuiltyMax},
		"p_innocent_min_pct": {*e.InnocentMinPct, &item.InnocentMin},
		"p_innocent_max_pct": {*e.InnocentMaxPct, &item.InnocentMax},
	}
	for name, b := range bounds {
		p, err := domain.ProbabilityFromPercent(b.pct)
		if err != nil {
			return domain.IntervalEvidence{}, fmt.Errorf("evidence %d: %s: %w", index, name, err)
		}
		*b.dst = p
	}
	return item, nil
}

// CounterConfig is one counter-evidence entry, always point form.
type CounterConfig struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty" validate:"max=255"`
	GuiltyPct   float64 `yaml:"p_guilty_pct" json:"p_guilty_pct" validate:"min=0,max=100"`
	InnocentPct float64 `yaml:"p_innocent_pct" json:"p_innocent_pct" validate:"min=0,max=100"`
}

// counter converts the entry to a counter-evidence item.
func (c CounterConfig) counter(index int) (domain.CounterEvidence, error) {
	guilty, err := domain.ProbabilityFromPercent(c.GuiltyPct)
	if err != nil {
		return domain.CounterEvidence{}, fmt.Errorf("counter evidence %d: p_guilty_pct: %w", index, err)
	}
	innocent, err := domain.ProbabilityFromPercent(c.InnocentPct)
	if err != nil {
		return domain.CounterEvidence{}, fmt.Errorf("counter evidence %d: p_innocent_pct: %w", index, err)
	}
	return domain.CounterEvidence{Description: c.Description, Guilty: guilty, Innocent: innocent}, nil
}

// NodeConfig is one star-network evidence node.
type NodeConfig struct {
	Description        string  `yaml:"description,omitempty" json:"description,omitempty" validate:"max=255"`
	TrueGivenGuiltPct  float64 `yaml:"p_true_given_guilt_pct" json:"p_true_given_guilt_pct" validate:"min=0,max=100"`
	TrueGivenInnocPct  float64 `yaml:"p_true_given_innocence_pct" json:"p_true_given_innocence_pct" validate:"min=0,max=100"`
}

// node converts the entry to a star node.
func (n NodeConfig) node(index int) (domain.StarNode, error) {
	guilt, err := domain.ProbabilityFromPercent(n.TrueGivenGuiltPct)
	if err != nil {
		return domain.StarNode{}, fmt.Errorf("node %d: p_true_given_guilt_pct: %w", index, err)
	}
	innoc, err := domain.ProbabilityFromPercent(n.TrueGivenInnocPct)
	if err != nil {
		return domain.StarNode{}, fmt.Errorf("node %d: p_true_given_innocence_pct: %w", index, err)
	}
	return domain.StarNode{Description: n.Description, TrueGivenGuilt: guilt, TrueGivenInnocence: innoc}, nil
}

// MassConfig is one Dempster-Shafer mass assignment; masses are fractions,
// not percentages, matching the theory's notation. The unknown mass is
// implicit.
type MassConfig struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty" validate:"max=255"`
	Guilt       float64 `yaml:"m_guilt" json:"m_guilt" validate:"min=0,max=1"`
	Innocence   float64 `yaml:"m_innocence" json:"m_innocence" validate:"min=0,max=1"`
}

// mass converts the entry to a domain mass assignment.
func (m MassConfig) mass() domain.MassAssignment {
	return domain.MassAssignment{Guilt: m.Guilt, Innocence: m.Innocence}
}

// MonteCarloSettings tunes the sampler for monte_carlo cases. Zero values
// select engine defaults; a zero Seed means the run is not reproducible.
type MonteCarloSettings struct {
	Samples int    `yaml:"samples,omitempty" json:"samples,omitempty" validate:"min=0,max=1000000"`
	Workers int    `yaml:"workers,omitempty" json:"workers,omitempty" validate:"min=0,max=256"`
	Bins    int    `yaml:"bins,omitempty" json:"bins,omitempty" validate:"min=0,max=1000"`
	Seed    uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}
