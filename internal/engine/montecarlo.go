package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ahrav/go-verdict/internal/domain"
)

// MonteCarlo propagates interval uncertainty through the sequential point
// recurrence by repeated stochastic evaluation. Each trial starts from the
// scalar prior, draws P(B|guilty) and P(B|innocent) uniformly and
// independently inside every item's [min,max] interval, applies the point
// update across all items in order, then applies the counter-evidence pairs
// with their fixed, non-randomized values. The observable output is the
// distribution of final posteriors and its summary statistics.
//
// Trials are independent and are distributed across workers; correctness
// does not depend on execution order. The random source is an explicit
// dependency so tests can inject a fixed seed, but even then results are
// statistical: assertions should target range membership and trends, not
// exact values, unless every interval is degenerate.
//
// Concurrency: the engine is stateless per Run and thread-safe for
// concurrent use as long as the injected source is not shared (each Run
// derives independent per-worker sources from it under a lock-free
// single-threaded seeding pass).
type MonteCarlo struct {
	// name is the unique identifier for this engine instance.
	name string
	// config contains validated configuration parameters.
	config MonteCarloConfig
	// src seeds the per-worker generators. Nil means seed from the
	// process-wide generator, giving run-to-run variation.
	src rand.Source
}

// MonteCarloConfig defines the configuration parameters for the MonteCarlo
// engine.
type MonteCarloConfig struct {
	// Samples is the number of independent trials. Zero selects the
	// default of 1000.
	Samples int `yaml:"samples" json:"samples" validate:"min=0,max=1000000"`

	// Workers is the number of goroutines trials are split across. Zero
	// selects GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers" validate:"min=0,max=256"`

	// Bins is the number of histogram bins in the result. Zero selects
	// the default of 30.
	Bins int `yaml:"bins" json:"bins" validate:"min=0,max=1000"`
}

// DefaultSamples is the trial count used when the configuration does not
// specify one.
const DefaultSamples = 1000

// defaultBins matches the histogram resolution of the result tables.
const defaultBins = 30

// FiveNumberSummary is the box-plot shape of the sample distribution:
// minimum, lower quartile, median, upper quartile, maximum, all in percent.
type FiveNumberSummary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Histogram is a binned frequency view of the sample distribution. Dividers
// has one more entry than Counts; bin i covers [Dividers[i], Dividers[i+1]).
type Histogram struct {
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// MonteCarloResult carries the raw final posteriors (in percent) together
// with their summary statistics and two presentation derivatives of the
// same sample array: the histogram and the five-number summary.
type MonteCarloResult struct {
	Samples []float64 `json:"samples"`

	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`

	Summary   FiveNumberSummary `json:"summary"`
	Histogram Histogram         `json:"histogram"`

	// Label is the verbal interpretation of the median posterior.
	Label string `json:"label"`
}

// NewMonteCarlo creates a MonteCarlo engine. src may be nil, in which case
// each Run seeds itself from the process-wide generator and outputs vary
// run to run. It returns ErrEmptyEngineName for an empty name, or a wrapped
// validation error if the configuration is invalid.
func NewMonteCarlo(name string, config MonteCarloConfig, src rand.Source) (*MonteCarlo, error) {
	if name == "" {
		return nil, ErrEmptyEngineName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.Samples == 0 {
		config.Samples = DefaultSamples
	}
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Bins == 0 {
		config.Bins = defaultBins
	}
	return &MonteCarlo{name: name, config: config, src: src}, nil
}

// Name returns the unique identifier for this engine instance.
func (mc *MonteCarlo) Name() string { return mc.name }

// Run executes the configured number of trials and aggregates the results.
// It returns ErrIntervalRequired when items is empty: Monte Carlo is only
// defined on interval evidence, and invoking it without any is a
// precondition violation, not a degenerate computation. counter may be nil.
func (mc *MonteCarlo) Run(
	ctx context.Context,
	prior domain.Probability,
	items []domain.IntervalEvidence,
	counter []domain.CounterEvidence,
) (*MonteCarloResult, error) {
	if !prior.Valid() {
		return nil, fmt.Errorf("prior: %w", domain.ErrInvalidProbability)
	}
	if len(items) == 0 {
		return nil, ErrIntervalRequired
	}
	for i, it := range items {
		if !it.GuiltyMin.Valid() || !it.GuiltyMax.Valid() ||
			!it.InnocentMin.Valid() || !it.InnocentMax.Valid() {
			return nil, fmt.Errorf("evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}
	for i, it := range counter {
		if !it.Guilty.Valid() || !it.Innocent.Valid() {
			return nil, fmt.Errorf("counter evidence %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	samples := make([]float64, mc.config.Samples)

	// Seed one generator per worker up front so results depend only on the
	// injected source and the worker count, not on scheduling.
	workers := mc.config.Workers
	if workers > mc.config.Samples {
		workers = mc.config.Samples
	}
	seeder := mc.seeder()
	sources := make([]*rand.Rand, workers)
	for i := range sources {
		sources[i] = rand.New(rand.NewPCG(seeder.Uint64(), seeder.Uint64()))
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (mc.config.Samples + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > mc.config.Samples {
			hi = mc.config.Samples
		}
		rng := sources[w]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				samples[i] = mc.trial(rng, float64(prior), items, counter)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo run: %w", err)
	}

	return mc.aggregate(samples)
}

// seeder returns the generator used to derive per-worker seeds.
func (mc *MonteCarlo) seeder() *rand.Rand {
	if mc.src != nil {
		return rand.New(mc.src)
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// trial runs one full sequential chain and returns the final posterior in
// percent.
func (mc *MonteCarlo) trial(rng *rand.Rand, prior float64, items []domain.IntervalEvidence, counter []domain.CounterEvidence) float64 {
	post := prior
	for _, it := range items {
		pg := uniform(rng, float64(it.GuiltyMin), float64(it.GuiltyMax))
		pi := uniform(rng, float64(it.InnocentMin), float64(it.InnocentMax))
		post = posteriorStep(pg, pi, post)
	}
	for _, it := range counter {
		post = posteriorStep(float64(it.Guilty), float64(it.Innocent), post)
	}
	return post * 100
}

// uniform draws from [min,max]. A degenerate interval returns its endpoint
// exactly so degenerate runs converge to the point-form result.
func uniform(rng *rand.Rand, min, max float64) float64 {
	if min == max {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: rng}.Rand()
}

// aggregate computes summary statistics and the presentation derivatives
// from the raw sample array.
func (mc *MonteCarlo) aggregate(samples []float64) (*MonteCarloResult, error) {
	data := stats.Float64Data(samples)

	mean, err := data.Mean()
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	minV, err := data.Min()
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	maxV, err := data.Max()
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	stdDev, err := data.StandardDeviation()
	if err != nil {
		return nil, fmt.Errorf("std dev: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}

	summary := FiveNumberSummary{Min: minV, Median: median, Max: maxV}
	if quartiles, qerr := stats.Quartile(data); qerr == nil {
		summary.Q1 = quartiles.Q1
		summary.Q3 = quartiles.Q3
	} else {
		summary.Q1 = median
		summary.Q3 = median
	}

	return &MonteCarloResult{
		Samples:   samples,
		Mean:      mean,
		Min:       minV,
		Max:       maxV,
		StdDev:    stdDev,
		Median:    median,
		Summary:   summary,
		Histogram: histogram(samples, minV, maxV, mc.config.Bins),
		Label:     domain.Interpret(median),
	}, nil
}

// histogram bins the samples into equal-width bins spanning [min,max]. With
// zero spread every sample lands in a single bin.
func histogram(samples []float64, min, max float64, bins int) Histogram {
	if max == min {
		return Histogram{
			Dividers: []float64{min, math.Nextafter(min, math.Inf(1))},
			Counts:   []float64{float64(len(samples))},
		}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	dividers := make([]float64, bins+1)
	span := max - min
	for i := 0; i <= bins; i++ {
		dividers[i] = min + span*float64(i)/float64(bins)
	}
	// stat.Histogram counts values in [dividers[i], dividers[i+1]); nudge
	// the last divider up so the maximum sample is counted.
	dividers[bins] = math.Nextafter(max, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return Histogram{Dividers: dividers, Counts: counts}
}
