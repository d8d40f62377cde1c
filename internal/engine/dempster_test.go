package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-verdict/internal/domain"
)

func newDempster(t *testing.T) *DempsterShafer {
	t.Helper()
	ds, err := NewDempsterShafer("dempster")
	require.NoError(t, err)
	return ds
}

// TestDempsterShafer_Combine pins the reference scenario and the failure
// modes: invalid committed mass and total conflict.
func TestDempsterShafer_Combine(t *testing.T) {
	tests := []struct {
		name          string
		a, b          domain.MassAssignment
		wantGuilt     float64
		wantInnocence float64
		wantConflict  float64
		wantK         float64
		wantErr       error
	}{
		{
			name: "reference combination",
			a:    domain.MassAssignment{Guilt: 0.5, Innocence: 0.2},
			b:    domain.MassAssignment{Guilt: 0.4, Innocence: 0.3},
			// conflict = 0.5*0.3 + 0.2*0.4 = 0.23, K = 0.77
			// m_guilt = (0.20 + 0.15 + 0.12) / 0.77
			// m_innocence = (0.06 + 0.06 + 0.09) / 0.77
			wantGuilt:     0.47 / 0.77,
			wantInnocence: 0.21 / 0.77,
			wantConflict:  0.23,
			wantK:         0.77,
		},
		{
			name: "vacuous source leaves the other unchanged",
			a:    domain.MassAssignment{Guilt: 0.6, Innocence: 0.1},
			b:    domain.MassAssignment{Guilt: 0, Innocence: 0},
			// unknown_B = 1: no conflict, no renormalization
			wantGuilt:     0.6,
			wantInnocence: 0.1,
			wantConflict:  0,
			wantK:         1,
		},
		{
			name:    "total conflict is undefined",
			a:       domain.MassAssignment{Guilt: 1, Innocence: 0},
			b:       domain.MassAssignment{Guilt: 0, Innocence: 1},
			wantErr: ErrTotalConflict,
		},
		{
			name:    "rejects committed mass above one",
			a:       domain.MassAssignment{Guilt: 0.7, Innocence: 0.5},
			b:       domain.MassAssignment{Guilt: 0.4, Innocence: 0.3},
			wantErr: domain.ErrInvalidMass,
		},
		{
			name:    "rejects negative mass",
			a:       domain.MassAssignment{Guilt: 0.5, Innocence: 0.2},
			b:       domain.MassAssignment{Guilt: -0.1, Innocence: 0.2},
			wantErr: domain.ErrInvalidMass,
		},
	}

	ds := newDempster(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.Combine(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantGuilt, got.Guilt, 1e-12)
			assert.InDelta(t, tt.wantInnocence, got.Innocence, 1e-12)
			assert.InDelta(t, tt.wantConflict, got.Conflict, 1e-12)
			assert.InDelta(t, tt.wantK, got.K, 1e-12)
			assert.InDelta(t, 1.0, got.Guilt+got.Innocence+got.Unknown, 1e-9)
		})
	}
}

// TestDempsterShafer_Commutative sweeps a grid of valid assignments and
// asserts combine(A,B) == combine(B,A) with masses summing to 1.
func TestDempsterShafer_Commutative(t *testing.T) {
	ds := newDempster(t)
	grid := []domain.MassAssignment{
		{Guilt: 0, Innocence: 0},
		{Guilt: 0.2, Innocence: 0.1},
		{Guilt: 0.5, Innocence: 0.2},
		{Guilt: 0.9, Innocence: 0.05},
		{Guilt: 0, Innocence: 0.8},
	}

	for _, a := range grid {
		for _, b := range grid {
			ab, errAB := ds.Combine(a, b)
			ba, errBA := ds.Combine(b, a)
			require.NoError(t, errAB, "a=%+v b=%+v", a, b)
			require.NoError(t, errBA, "a=%+v b=%+v", a, b)

			assert.InDelta(t, ab.Guilt, ba.Guilt, 1e-12)
			assert.InDelta(t, ab.Innocence, ba.Innocence, 1e-12)
			assert.InDelta(t, ab.Unknown, ba.Unknown, 1e-12)
			assert.InDelta(t, ab.Conflict, ba.Conflict, 1e-12)
			assert.InDelta(t, 1.0, ab.Guilt+ab.Innocence+ab.Unknown, 1e-9)
		}
	}
}
