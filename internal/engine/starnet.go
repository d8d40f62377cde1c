package engine

import (
	"fmt"

	"github.com/ahrav/go-verdict/internal/domain"
)

// StarNetwork evaluates a star-topology Bayesian network: one guilt variable
// S with n evidence nodes depending directly and only on S, all observed
// true simultaneously and conditionally independent given S. The posterior
// is computed in a single closed-form combination with no sequential trace:
//
//	top    = P(S=true)  * Π P(Bi=true|S=true)
//	bottom = top + P(S=false) * Π P(Bi=true|S=false)
//
// A bottom of exactly zero yields a posterior of 0.
//
// Concurrency: the engine is stateless and thread-safe for concurrent use.
type StarNetwork struct {
	name string
}

// NewStarNetwork creates a StarNetwork engine.
// It returns ErrEmptyEngineName for an empty name.
func NewStarNetwork(name string) (*StarNetwork, error) {
	if name == "" {
		return nil, ErrEmptyEngineName
	}
	return &StarNetwork{name: name}, nil
}

// Name returns the unique identifier for this engine instance.
func (sn *StarNetwork) Name() string { return sn.name }

// Evaluate computes the joint posterior of guilt given that every node's
// evidence is observed true. With a single node the result reduces exactly
// to one point-form Bayes update with the same prior.
func (sn *StarNetwork) Evaluate(prior domain.Probability, nodes []domain.StarNode) (domain.Probability, error) {
	if !prior.Valid() {
		return 0, fmt.Errorf("prior: %w", domain.ErrInvalidProbability)
	}
	if len(nodes) == 0 {
		return 0, ErrNoNodes
	}
	for i, n := range nodes {
		if !n.TrueGivenGuilt.Valid() || !n.TrueGivenInnocence.Valid() {
			return 0, fmt.Errorf("node %d: %w", i+1, domain.ErrInvalidProbability)
		}
	}

	productGuilt := 1.0
	for _, n := range nodes {
		productGuilt *= float64(n.TrueGivenGuilt)
	}
	top := float64(prior) * productGuilt

	productInnocence := 1.0
	for _, n := range nodes {
		productInnocence *= float64(n.TrueGivenInnocence)
	}
	bottom := top + (1-float64(prior))*productInnocence

	if bottom == 0 {
		return 0, nil
	}
	return domain.Probability(top / bottom), nil
}
