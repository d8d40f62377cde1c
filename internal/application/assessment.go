package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-verdict/internal/domain"
	"github.com/ahrav/go-verdict/internal/engine"
)

// Assessor executes validated case files against the evidential engines
// and produces self-contained assessment reports. The sequential, star,
// and Dempster-Shafer engines are shared across calls; a Monte Carlo
// engine is built per case because its sampler settings and seed come
// from the case file itself.
//
// The Assessor is stateless per call and safe for concurrent use.
type Assessor struct {
	sequential *engine.Sequential
	star       *engine.StarNetwork
	dempster   *engine.DempsterShafer
}

// NewAssessor creates an Assessor with all engines constructed.
func NewAssessor() (*Assessor, error) {
	sequential, err := engine.NewSequential("bayes", engine.SequentialConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating sequential engine: %w", err)
	}
	star, err := engine.NewStarNetwork("star_network")
	if err != nil {
		return nil, fmt.Errorf("creating star network engine: %w", err)
	}
	dempster, err := engine.NewDempsterShafer("dempster_shafer")
	if err != nil {
		return nil, fmt.Errorf("creating dempster-shafer engine: %w", err)
	}
	return &Assessor{sequential: sequential, star: star, dempster: dempster}, nil
}

// IntervalRow is one step of the three-chain interval table, formatted in
// percent for presentation. Step 0 is the shared prior.
type IntervalRow struct {
	Step   int    `json:"step"`
	Min    string `json:"min_pct"`
	Median string `json:"median_pct"`
	Max    string `json:"max_pct"`
}

// Assessment is the complete outcome of running one case. Exactly one of
// the method-specific sections is populated; FinalPct and FinalLabel give
// the headline figure regardless of method. For dempster_shafer the
// headline is the combined guilt mass, which is a belief, not a
// posterior, so it carries no verbal tier.
type Assessment struct {
	ID        string    `json:"id"`
	CaseName  string    `json:"case_name,omitempty"`
	Method    Method    `json:"method"`
	CreatedAt time.Time `json:"created_at"`

	FinalPct   float64          `json:"final_pct"`
	FinalLabel string           `json:"final_label,omitempty"`
	Highlight  domain.Highlight `json:"highlight"`

	Rows       []domain.StepRow         `json:"rows,omitempty"`
	Interval   []IntervalRow            `json:"interval,omitempty"`
	MonteCarlo *engine.MonteCarloResult `json:"monte_carlo,omitempty"`
	Dempster   *engine.Combination      `json:"dempster,omitempty"`
}

// Assess runs the case through its selected engine. cf must have passed
// the loader; unchecked input can still fail here via the engines' own
// validation.
func (a *Assessor) Assess(ctx context.Context, cf *CaseFile) (*Assessment, error) {
	out := &Assessment{
		ID:        uuid.NewString(),
		CaseName:  cf.Case.Name,
		Method:    cf.Method,
		CreatedAt: time.Now().UTC(),
	}

	var err error
	switch cf.Method {
	case MethodBayes:
		err = a.assessPoint(cf, out)
	case MethodBayesInterval:
		err = a.assessInterval(cf, out)
	case MethodMonteCarlo:
		err = a.assessMonteCarlo(ctx, cf, out)
	case MethodStarNetwork:
		err = a.assessStar(cf, out)
	case MethodDempsterShafer:
		err = a.assessDempster(cf, out)
	default:
		err = fmt.Errorf("unknown method %q", cf.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("assessing case %q with method %s: %w", cf.Case.Name, cf.Method, err)
	}
	return out, nil
}

func (a *Assessor) assessPoint(cf *CaseFile, out *Assessment) error {
	prior, items, counter, err := pointInputs(cf)
	if err != nil {
		return err
	}

	trace, err := a.sequential.Update(prior, items)
	if err != nil {
		return err
	}
	if len(counter) > 0 {
		if err := a.sequential.ApplyCounter(trace, counter); err != nil {
			return err
		}
	}

	final := trace.Final().Percent()
	out.Rows = trace.Rows
	out.FinalPct = final
	out.FinalLabel = domain.Interpret(final)
	out.Highlight = domain.HighlightFor(final)
	return nil
}

func (a *Assessor) assessInterval(cf *CaseFile, out *Assessment) error {
	prior, items, counter, err := intervalInputs(cf)
	if err != nil {
		return err
	}

	trace, err := a.sequential.UpdateInterval(prior, items)
	if err != nil {
		return err
	}
	if len(counter) > 0 {
		if err := a.sequential.ApplyCounterInterval(trace, counter); err != nil {
			return err
		}
	}

	rows := make([]IntervalRow, len(trace.Min))
	for i := range trace.Min {
		rows[i] = IntervalRow{
			Step:   i,
			Min:    domain.FormatAuto(trace.Min[i].Percent()),
			Median: domain.FormatAuto(trace.Median[i].Percent()),
			Max:    domain.FormatAuto(trace.Max[i].Percent()),
		}
	}

	// The median chain supplies the headline figure.
	_, med, _ := trace.Final()
	final := med.Percent()
	out.Interval = rows
	out.FinalPct = final
	out.FinalLabel = domain.Interpret(final)
	out.Highlight = domain.HighlightFor(final)
	return nil
}

func (a *Assessor) assessMonteCarlo(ctx context.Context, cf *CaseFile, out *Assessment) error {
	prior, items, counter, err := intervalInputs(cf)
	if err != nil {
		return err
	}

	var src rand.Source
	if cf.MonteCarlo.Seed != 0 {
		src = rand.NewPCG(cf.MonteCarlo.Seed, cf.MonteCarlo.Seed)
	}
	mc, err := engine.NewMonteCarlo("monte_carlo", engine.MonteCarloConfig{
		Samples: cf.MonteCarlo.Samples,
		Workers: cf.MonteCarlo.Workers,
		Bins:    cf.MonteCarlo.Bins,
	}, src)
	if err != nil {
		return err
	}

	res, err := mc.Run(ctx, prior, items, counter)
	if err != nil {
		return err
	}
	out.MonteCarlo = res
	out.FinalPct = res.Median
	out.FinalLabel = res.Label
	out.Highlight = domain.HighlightFor(res.Median)
	return nil
}

func (a *Assessor) assessStar(cf *CaseFile, out *Assessment) error {
	prior, err := domain.ProbabilityFromPercent(cf.PriorPct)
	if err != nil {
		return fmt.Errorf("prior_pct: %w", err)
	}
	nodes := make([]domain.StarNode, len(cf.Nodes))
	for i, n := range cf.Nodes {
		if nodes[i], err = n.node(i + 1); err != nil {
			return err
		}
	}

	posterior, err := a.star.Evaluate(prior, nodes)
	if err != nil {
		return err
	}
	final := posterior.Percent()
	out.FinalPct = final
	out.FinalLabel = domain.Interpret(final)
	out.Highlight = domain.HighlightFor(final)
	return nil
}

func (a *Assessor) assessDempster(cf *CaseFile, out *Assessment) error {
	combo, err := a.dempster.Combine(cf.Masses[0].mass(), cf.Masses[1].mass())
	if err != nil {
		return err
	}
	out.Dempster = combo
	out.FinalPct = combo.Guilt * 100
	out.Highlight = domain.HighlightNone
	return nil
}

// pointInputs converts the case's percent fields to point-form engine
// inputs.
func pointInputs(cf *CaseFile) (domain.Probability, []domain.Evidence, []domain.CounterEvidence, error) {
	prior, err := domain.ProbabilityFromPercent(cf.PriorPct)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("prior_pct: %w", err)
	}
	items := make([]domain.Evidence, len(cf.Evidence))
	for i, e := range cf.Evidence {
		if items[i], err = e.point(i + 1); err != nil {
			return 0, nil, nil, err
		}
	}
	counter, err := counterInputs(cf)
	if err != nil {
		return 0, nil, nil, err
	}
	return prior, items, counter, nil
}

// intervalInputs converts the case's percent fields to interval-form
// engine inputs.
func intervalInputs(cf *CaseFile) (domain.Probability, []domain.IntervalEvidence, []domain.CounterEvidence, error) {
	prior, err := domain.ProbabilityFromPercent(cf.PriorPct)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("prior_pct: %w", err)
	}
	items := make([]domain.IntervalEvidence, len(cf.Evidence))
	for i, e := range cf.Evidence {
		if items[i], err = e.interval(i + 1); err != nil {
			return 0, nil, nil, err
		}
	}
	counter, err := counterInputs(cf)
	if err != nil {
		return 0, nil, nil, err
	}
	return prior, items, counter, nil
}

func counterInputs(cf *CaseFile) ([]domain.CounterEvidence, error) {
	if len(cf.CounterEvidence) == 0 {
		return nil, nil
	}
	counter := make([]domain.CounterEvidence, len(cf.CounterEvidence))
	for i, c := range cf.CounterEvidence {
		item, err := c.counter(i + 1)
		if err != nil {
			return nil, err
		}
		counter[i] = item
	}
	return counter, nil
}
