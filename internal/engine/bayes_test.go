package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-verdict/internal/domain"
)

func newSequential(t *testing.T) *Sequential {
	t.Helper()
	s, err := NewSequential("bayes", SequentialConfig{})
	require.NoError(t, err)
	return s
}

// TestNewSequential verifies construction-time validation.
func TestNewSequential(t *testing.T) {
	_, err := NewSequential("", SequentialConfig{})
	assert.ErrorIs(t, err, ErrEmptyEngineName)

	_, err = NewSequential("bayes", SequentialConfig{MaxDecimals: 16})
	assert.Error(t, err)

	s, err := NewSequential("bayes", SequentialConfig{MaxDecimals: 4})
	require.NoError(t, err)
	assert.Equal(t, "bayes", s.Name())
}

// TestSequential_Update covers the point-form recurrence: the DNA scenario,
// uninformative evidence, the zero-denominator guard, and input rejection.
func TestSequential_Update(t *testing.T) {
	tests := []struct {
		name      string
		prior     domain.Probability
		items     []domain.Evidence
		wantFinal float64 // final posterior, fraction
		wantLabel string  // label of the last row
		wantErr   error
	}{
		{
			name:  "strong DNA evidence lifts a 1 percent prior past 90 percent",
			prior: 0.01,
			items: []domain.Evidence{{Description: "DNA match", Guilty: 0.95, Innocent: 0.001}},
			// 0.0095 / (0.0095 + 0.001*0.99)
			wantFinal: 0.0095 / (0.0095 + 0.001*0.99),
			wantLabel: "strongly indicates guilt",
		},
		{
			name:      "uninformative evidence leaves the prior unchanged",
			prior:     0.3,
			items:     []domain.Evidence{{Guilty: 0.4, Innocent: 0.4}},
			wantFinal: 0.3,
			wantLabel: "doubtful",
		},
		{
			name:      "zero denominator yields zero instead of a fault",
			prior:     0.5,
			items:     []domain.Evidence{{Guilty: 0, Innocent: 0}},
			wantFinal: 0,
			wantLabel: "indicates innocence",
		},
		{
			name:  "two evidence items chain through the recurrence",
			prior: 0.1,
			items: []domain.Evidence{
				{Guilty: 0.8, Innocent: 0.05},
				{Guilty: 0.6, Innocent: 0.2},
			},
			// step1: 0.08/(0.08+0.045) = 0.64; step2: 0.384/(0.384+0.072)
			wantFinal: 0.384 / (0.384 + 0.072),
			wantLabel: "strongly indicates guilt",
		},
		{
			name:    "rejects empty evidence",
			prior:   0.5,
			items:   nil,
			wantErr: ErrNoEvidence,
		},
		{
			name:    "rejects out-of-range prior",
			prior:   1.2,
			items:   []domain.Evidence{{Guilty: 0.5, Innocent: 0.5}},
			wantErr: domain.ErrInvalidProbability,
		},
		{
			name:    "rejects out-of-range evidence probability",
			prior:   0.5,
			items:   []domain.Evidence{{Guilty: 1.5, Innocent: 0.5}},
			wantErr: domain.ErrInvalidProbability,
		},
	}

	s := newSequential(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := s.Update(tt.prior, tt.items)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			require.Len(t, trace.Posteriors, len(tt.items)+1)
			require.Len(t, trace.Rows, len(tt.items))
			assert.Equal(t, tt.prior, trace.Posteriors[0])
			assert.InDelta(t, tt.wantFinal, float64(trace.Final()), 1e-12)
			assert.Equal(t, tt.wantLabel, trace.Rows[len(trace.Rows)-1].Label)
		})
	}
}

// TestSequential_Update_RowAnnotations checks the structured row produced
// for a single step: 1-based index, formatted inputs and posteriors, signed
// delta, tier, and highlight.
func TestSequential_Update_RowAnnotations(t *testing.T) {
	s, err := NewSequential("bayes", SequentialConfig{MaxDecimals: 4})
	require.NoError(t, err)

	trace, err := s.Update(0.01, []domain.Evidence{
		{Description: "DNA match", Guilty: 0.95, Innocent: 0.001},
	})
	require.NoError(t, err)
	require.Len(t, trace.Rows, 1)

	row := trace.Rows[0]
	assert.Equal(t, 1, row.Step)
	assert.False(t, row.Counter)
	assert.Equal(t, "DNA match", row.Description)
	assert.Equal(t, "95", row.Guilty)
	assert.Equal(t, "0.1", row.Innocent)
	assert.Equal(t, "1", row.OldPercent)
	assert.Equal(t, "90.5624", row.NewPercent)
	assert.Equal(t, "89.5624", row.Delta)
	assert.Equal(t, "strongly indicates guilt", row.Label)
	assert.Equal(t, domain.HighlightStrong, row.Highlight)
}

// TestSequential_Update_PosteriorRange sweeps a value grid and asserts the
// update always lands in [0,1], and that equal conditionals preserve the
// prior exactly.
func TestSequential_Update_PosteriorRange(t *testing.T) {
	s := newSequential(t)
	grid := []float64{0, 0.01, 0.25, 0.5, 0.75, 0.99, 1}

	for _, p := range grid {
		for _, pg := range grid {
			for _, pi := range grid {
				trace, err := s.Update(domain.Probability(p), []domain.Evidence{
					{Guilty: domain.Probability(pg), Innocent: domain.Probability(pi)},
				})
				require.NoError(t, err)
				post := float64(trace.Final())
				assert.GreaterOrEqual(t, post, 0.0, "p=%v pg=%v pi=%v", p, pg, pi)
				assert.LessOrEqual(t, post, 1.0, "p=%v pg=%v pi=%v", p, pg, pi)

				if pg == pi && pg*p+pi*(1-p) != 0 {
					assert.InDelta(t, p, post, 1e-12, "uninformative p=%v pg=pi=%v", p, pg)
				}
			}
		}
	}
}

// TestSequential_ApplyCounter verifies the counter-evidence continuation:
// same formula, continued step numbering, abbreviated labels, and direction
// driven purely by the supplied values.
func TestSequential_ApplyCounter(t *testing.T) {
	s := newSequential(t)

	trace, err := s.Update(0.01, []domain.Evidence{{Guilty: 0.95, Innocent: 0.001}})
	require.NoError(t, err)
	before := float64(trace.Final())

	// Alibi: more likely observed if innocent, so the posterior drops.
	err = s.ApplyCounter(trace, []domain.CounterEvidence{
		{Description: "alibi", Guilty: 0.3, Innocent: 0.7},
	})
	require.NoError(t, err)

	require.Len(t, trace.Rows, 2)
	require.Len(t, trace.Posteriors, 3)

	after := float64(trace.Final())
	want := posteriorStep(0.3, 0.7, before)
	assert.InDelta(t, want, after, 1e-12)
	assert.Less(t, after, before)

	row := trace.Rows[1]
	assert.Equal(t, 2, row.Step)
	assert.True(t, row.Counter)
	assert.Equal(t, ">80%", row.Label)

	// A "counter" item with the guilty side larger strengthens the
	// posterior; the engine is agnostic to semantic direction.
	err = s.ApplyCounter(trace, []domain.CounterEvidence{{Guilty: 0.9, Innocent: 0.1}})
	require.NoError(t, err)
	assert.Greater(t, float64(trace.Final()), after)
	assert.Equal(t, 3, trace.Rows[2].Step)
}

// TestSequential_ApplyCounter_RequiresTrace rejects continuation without a
// completed main trace.
func TestSequential_ApplyCounter_RequiresTrace(t *testing.T) {
	s := newSequential(t)
	err := s.ApplyCounter(nil, []domain.CounterEvidence{{Guilty: 0.3, Innocent: 0.7}})
	assert.Error(t, err)
}

// TestSequential_UpdateInterval verifies the three fixed endpoint chains:
// per-step appends on every chain, divergence from step 1, and the ordering
// max >= median >= min when the evidence ratios are ordered that way.
func TestSequential_UpdateInterval(t *testing.T) {
	s := newSequential(t)

	items := []domain.IntervalEvidence{
		{GuiltyMin: 0.5, GuiltyMax: 0.9, InnocentMin: 0.10, InnocentMax: 0.12},
		{GuiltyMin: 0.6, GuiltyMax: 0.8, InnocentMin: 0.20, InnocentMax: 0.22},
	}
	trace, err := s.UpdateInterval(0.3, items)
	require.NoError(t, err)

	require.Len(t, trace.Min, 3)
	require.Len(t, trace.Median, 3)
	require.Len(t, trace.Max, 3)
	assert.Equal(t, 2, trace.Len())
	assert.Equal(t, domain.Probability(0.3), trace.Min[0])
	assert.Equal(t, domain.Probability(0.3), trace.Median[0])
	assert.Equal(t, domain.Probability(0.3), trace.Max[0])

	// Here each step's guilty/innocent ratio grows from the min pair to
	// the max pair, so the chains stay ordered at every step. This is a
	// property of the chosen inputs, not of the method in general.
	for i := 1; i < 3; i++ {
		assert.LessOrEqual(t, float64(trace.Min[i]), float64(trace.Median[i]), "step %d", i)
		assert.LessOrEqual(t, float64(trace.Median[i]), float64(trace.Max[i]), "step %d", i)
	}

	// The chains are fixed-endpoint sequential runs: the min chain must
	// equal a point-form run over the min pairs.
	pointTrace, err := s.Update(0.3, []domain.Evidence{
		{Guilty: 0.5, Innocent: 0.10},
		{Guilty: 0.6, Innocent: 0.20},
	})
	require.NoError(t, err)
	for i := range trace.Min {
		assert.InDelta(t, float64(pointTrace.Posteriors[i]), float64(trace.Min[i]), 1e-12)
	}
}

// TestSequential_UpdateInterval_Degenerate collapses min==max intervals to
// identical chains.
func TestSequential_UpdateInterval_Degenerate(t *testing.T) {
	s := newSequential(t)
	trace, err := s.UpdateInterval(0.05, []domain.IntervalEvidence{
		{GuiltyMin: 0.8, GuiltyMax: 0.8, InnocentMin: 0.05, InnocentMax: 0.05},
	})
	require.NoError(t, err)
	assert.InDelta(t, float64(trace.Min[1]), float64(trace.Median[1]), 1e-12)
	assert.InDelta(t, float64(trace.Median[1]), float64(trace.Max[1]), 1e-12)
}

// TestSequential_ApplyCounterInterval extends all three chains with the
// same fixed counter pair, each from its own running value.
func TestSequential_ApplyCounterInterval(t *testing.T) {
	s := newSequential(t)
	trace, err := s.UpdateInterval(0.3, []domain.IntervalEvidence{
		{GuiltyMin: 0.5, GuiltyMax: 0.9, InnocentMin: 0.10, InnocentMax: 0.12},
	})
	require.NoError(t, err)

	minBefore, medBefore, maxBefore := trace.Final()
	err = s.ApplyCounterInterval(trace, []domain.CounterEvidence{{Guilty: 0.2, Innocent: 0.6}})
	require.NoError(t, err)

	require.Len(t, trace.Min, 3)
	minAfter, medAfter, maxAfter := trace.Final()
	assert.InDelta(t, posteriorStep(0.2, 0.6, float64(minBefore)), float64(minAfter), 1e-12)
	assert.InDelta(t, posteriorStep(0.2, 0.6, float64(medBefore)), float64(medAfter), 1e-12)
	assert.InDelta(t, posteriorStep(0.2, 0.6, float64(maxBefore)), float64(maxAfter), 1e-12)
}
