package application

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-verdict/internal/domain"
)

// CaseLoader parses and validates declarative case files. Parsing is
// strict: unknown fields are rejected so a typo in a field name fails
// loudly instead of silently dropping an evidence item. Because YAML is a
// superset of JSON the same loader serves both file input and API bodies.
//
// The loader is stateless apart from its validator and is safe for
// concurrent use.
type CaseLoader struct {
	validate *validator.Validate
}

// NewCaseLoader creates a CaseLoader with struct validation configured.
func NewCaseLoader() *CaseLoader {
	return &CaseLoader{validate: validator.New()}
}

// LoadFile reads and parses a case file from disk.
func (l *CaseLoader) LoadFile(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	cf, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("case file %s: %w", path, err)
	}
	return cf, nil
}

// Parse decodes, validates, and cross-checks a case definition. The
// returned CaseFile satisfies both the per-field constraints and the
// method-specific input requirements, so callers can hand it straight to
// an Assessor.
func (l *CaseLoader) Parse(data []byte) (*CaseFile, error) {
	var cf CaseFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("parsing case definition: %w", err)
	}

	if err := l.validate.Struct(&cf); err != nil {
		return nil, fmt.Errorf("case validation failed: %w", err)
	}
	if err := checkMethodInputs(&cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// checkMethodInputs enforces the per-method input contract that field
// tags cannot express: which sections must be present, which must be
// absent, and which evidence form each sequential method requires. All
// violations are collected so the caller sees every problem at once.
func checkMethodInputs(cf *CaseFile) error {
	verr := domain.NewValidationError("case")

	switch cf.Method {
	case MethodBayes:
		if len(cf.Evidence) == 0 {
			verr.AddError(fmt.Sprintf("method %s requires at least one evidence item", cf.Method))
		}
		for i, e := range cf.Evidence {
			if e.GuiltyPct == nil || e.InnocentPct == nil {
				verr.AddError(fmt.Sprintf("evidence %d: method %s requires p_guilty_pct and p_innocent_pct", i+1, cf.Method))
			}
		}

	case MethodBayesInterval, MethodMonteCarlo:
		if len(cf.Evidence) == 0 {
			verr.AddError(fmt.Sprintf("method %s requires at least one evidence item", cf.Method))
		}
		for i, e := range cf.Evidence {
			if e.GuiltyMinPct == nil || e.GuiltyMaxPct == nil ||
				e.InnocentMinPct == nil || e.InnocentMaxPct == nil {
				verr.AddError(fmt.Sprintf("evidence %d: method %s requires all four interval bounds", i+1, cf.Method))
			}
		}

	case MethodStarNetwork:
		if len(cf.Nodes) == 0 {
			verr.AddError(fmt.Sprintf("method %s requires at least one node", cf.Method))
		}
		if len(cf.CounterEvidence) > 0 {
			verr.AddError(fmt.Sprintf("method %s does not accept counter evidence", cf.Method))
		}

	case MethodDempsterShafer:
		if len(cf.Masses) != 2 {
			verr.AddError(fmt.Sprintf("method %s requires exactly two mass assignments, got %d", cf.Method, len(cf.Masses)))
		}
		if len(cf.CounterEvidence) > 0 {
			verr.AddError(fmt.Sprintf("method %s does not accept counter evidence", cf.Method))
		}
		if len(cf.Evidence) > 0 {
			verr.AddError(fmt.Sprintf("evidence items are not valid with method %s", cf.Method))
		}

	default:
		return fmt.Errorf("unknown method %q", cf.Method)
	}

	if cf.Method != MethodStarNetwork && len(cf.Nodes) > 0 {
		verr.AddError(fmt.Sprintf("nodes are only valid with method %s", MethodStarNetwork))
	}
	if cf.Method != MethodDempsterShafer && len(cf.Masses) > 0 {
		verr.AddError(fmt.Sprintf("masses are only valid with method %s", MethodDempsterShafer))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
