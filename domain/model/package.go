package model

import (
	"fmt"

	"kardia/domain/core"
)

// ModelPackage is the immutable bundle consumed by the inference path:
// network, one symbol encoder per variable, bin rules for the numeric
// features, and the authoritative ordered feature list. Built once at process
// start and shared read-only across requests.
type ModelPackage struct {
	Network       *BayesianNetwork
	Encoders      map[core.FeatureName]*SymbolEncoder
	Discretizer   *Discretizer
	Features      []core.FeatureName
	Target        core.FeatureName
	PositiveLabel string
}

// Validate cross-checks the bundle's pieces against each other. A package
// that fails here is unusable and startup must abort.
func (p *ModelPackage) Validate() error {
	if p.Network == nil {
		return fmt.Errorf("missing network")
	}
	if len(p.Features) == 0 {
		return fmt.Errorf("empty feature list")
	}
	if p.Target == "" {
		return fmt.Errorf("missing target variable")
	}

	targetEnc, ok := p.Encoders[p.Target]
	if !ok {
		return fmt.Errorf("target %s has no encoder", p.Target)
	}
	if _, err := targetEnc.Encode(p.PositiveLabel); err != nil {
		return fmt.Errorf("positive label %q not in target domain: %w", p.PositiveLabel, err)
	}
	if !p.Network.HasNode(p.Target) {
		return fmt.Errorf("target %s not in network", p.Target)
	}

	for _, feature := range p.Features {
		if feature == p.Target {
			return fmt.Errorf("target %s listed as input feature", p.Target)
		}
		if !p.Network.HasNode(feature) {
			return fmt.Errorf("feature %s not in network", feature)
		}
		enc, ok := p.Encoders[feature]
		if !ok {
			return fmt.Errorf("feature %s has no encoder", feature)
		}
		if enc.Cardinality() != p.Network.Cardinality(feature) {
			return fmt.Errorf("feature %s: encoder domain %d != network cardinality %d",
				feature, enc.Cardinality(), p.Network.Cardinality(feature))
		}
		// Every label a bin rule can produce must be encodable, otherwise
		// discretization could emit symbols inference cannot consume.
		if rule, has := p.Discretizer.Rule(feature); has {
			for _, label := range rule.Labels {
				if _, err := enc.Encode(label); err != nil {
					return fmt.Errorf("feature %s: bin label %q not in encoder domain", feature, label)
				}
			}
		}
	}

	return nil
}

// PositiveCode returns the encoded value of the target's "disease present"
// label; callers read the posterior mass at this index.
func (p *ModelPackage) PositiveCode() int {
	code, err := p.Encoders[p.Target].Encode(p.PositiveLabel)
	if err != nil {
		// Validate guarantees the positive label is encodable.
		panic(fmt.Sprintf("model package invariant broken: %v", err))
	}
	return code
}

// Encoder returns the encoder for a variable
func (p *ModelPackage) Encoder(feature core.FeatureName) (*SymbolEncoder, bool) {
	enc, ok := p.Encoders[feature]
	return enc, ok
}

// IsNumeric reports whether the feature goes through discretization
func (p *ModelPackage) IsNumeric(feature core.FeatureName) bool {
	return p.Discretizer.HasRule(feature)
}
