package model

import (
	"fmt"
	"sort"

	"kardia/domain/core"
)

// BinRule discretizes a continuous measurement into ordered categorical bins.
// Cuts are interior cut points; the outer bins are unbounded, so the rule
// covers (-inf, +inf) with len(Labels) == len(Cuts)+1 right-open intervals
// [lower, upper).
type BinRule struct {
	Cuts   []float64 `json:"cuts"`
	Labels []string  `json:"labels"`
}

// Validate checks the structural invariants of a bin rule
func (b BinRule) Validate() error {
	if len(b.Labels) != len(b.Cuts)+1 {
		return fmt.Errorf("bin rule needs len(labels) == len(cuts)+1, got %d labels for %d cuts",
			len(b.Labels), len(b.Cuts))
	}
	if !sort.Float64sAreSorted(b.Cuts) {
		return fmt.Errorf("bin cuts must be strictly increasing: %v", b.Cuts)
	}
	for i := 1; i < len(b.Cuts); i++ {
		if b.Cuts[i] == b.Cuts[i-1] {
			return fmt.Errorf("bin cuts must be strictly increasing: %v", b.Cuts)
		}
	}
	return nil
}

// Label returns the bin label for value. Intervals are left-inclusive and
// right-open: a value equal to a cut point belongs to the interval starting
// at that cut.
func (b BinRule) Label(value float64) string {
	idx := sort.SearchFloat64s(b.Cuts, value)
	// SearchFloat64s returns the insertion point for value; when value equals
	// a cut it returns that cut's index, but left-inclusion means the value
	// belongs to the interval starting there.
	if idx < len(b.Cuts) && b.Cuts[idx] == value {
		idx++
	}
	return b.Labels[idx]
}

// Discretizer maps continuous features to categorical bin labels using the
// per-feature rules trained alongside the network.
type Discretizer struct {
	rules map[core.FeatureName]BinRule
}

// NewDiscretizer builds a discretizer, validating every rule
func NewDiscretizer(rules map[core.FeatureName]BinRule) (*Discretizer, error) {
	for feature, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("feature %s: %w", feature, err)
		}
	}
	return &Discretizer{rules: rules}, nil
}

// Discretize returns the bin label containing value. It fails only when the
// feature has no configured bin rule.
func (d *Discretizer) Discretize(feature core.FeatureName, value float64) (string, error) {
	rule, ok := d.rules[feature]
	if !ok {
		return "", core.NewOutOfDomainError(string(feature), "no bin rule configured")
	}
	return rule.Label(value), nil
}

// HasRule reports whether the feature is discretized (i.e. numeric)
func (d *Discretizer) HasRule(feature core.FeatureName) bool {
	_, ok := d.rules[feature]
	return ok
}

// Rule exposes the bin rule for a feature, for introspection endpoints
func (d *Discretizer) Rule(feature core.FeatureName) (BinRule, bool) {
	rule, ok := d.rules[feature]
	return rule, ok
}
