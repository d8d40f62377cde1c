package engine

import (
	"fmt"

	"github.com/ahrav/go-verdict/internal/domain"
)

// DempsterShafer combines two mass assignments over the frame
// {guilt, innocence, unknown} using Dempster's rule of combination. Mass
// placed on contradictory assertions (one source says guilt, the other
// innocence) is the conflict; it is discarded and the remaining mass is
// renormalized by K = 1 - conflict. K == 0 means total conflict, for which
// no combined belief is mathematically defined, so combination fails
// explicitly rather than returning a numeric result.
//
// Concurrency: the engine is stateless and thread-safe for concurrent use.
type DempsterShafer struct {
	name string
}

// Combination is the result of combining two mass assignments. Conflict and
// K are included for transparency; Guilt + Innocence + Unknown sum to 1
// within floating tolerance.
type Combination struct {
	Guilt     float64 `json:"m_guilt"`
	Innocence float64 `json:"m_innocence"`
	Unknown   float64 `json:"m_unknown"`
	Conflict  float64 `json:"conflict"`
	K         float64 `json:"k"`
}

// NewDempsterShafer creates a DempsterShafer engine.
// It returns ErrEmptyEngineName for an empty name.
func NewDempsterShafer(name string) (*DempsterShafer, error) {
	if name == "" {
		return nil, ErrEmptyEngineName
	}
	return &DempsterShafer{name: name}, nil
}

// Name returns the unique identifier for this engine instance.
func (ds *DempsterShafer) Name() string { return ds.name }

// Combine applies Dempster's rule to two mass assignments. Both assignments
// are validated first: committed mass above 1 or components outside [0,1]
// are rejected with domain.ErrInvalidMass before any combination is
// attempted. Combination is commutative: Combine(a, b) equals Combine(b, a).
func (ds *DempsterShafer) Combine(a, b domain.MassAssignment) (*Combination, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("source A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("source B: %w", err)
	}

	aUnknown := a.Unknown()
	bUnknown := b.Unknown()

	conflict := a.Guilt*b.Innocence + a.Innocence*b.Guilt
	k := 1 - conflict
	if k == 0 {
		return nil, ErrTotalConflict
	}

	guilt := (a.Guilt*b.Guilt + a.Guilt*bUnknown + aUnknown*b.Guilt) / k
	innocence := (a.Innocence*b.Innocence + a.Innocence*bUnknown + aUnknown*b.Innocence) / k

	return &Combination{
		Guilt:     guilt,
		Innocence: innocence,
		Unknown:   1 - guilt - innocence,
		Conflict:  conflict,
		K:         k,
	}, nil
}
