package model

import (
	"fmt"

	"kardia/domain/core"
)

// SymbolEncoder is a per-feature bijection between the trained label set and
// the dense integer codes the network's CPTs are indexed by. Classes are kept
// in trained order (lexicographically sorted, matching the training stage's
// label encoding).
type SymbolEncoder struct {
	feature core.FeatureName
	classes []string
	codes   map[string]int
}

// NewSymbolEncoder builds an encoder over the given class list
func NewSymbolEncoder(feature core.FeatureName, classes []string) (*SymbolEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder for %s has empty domain", feature)
	}
	codes := make(map[string]int, len(classes))
	for i, class := range classes {
		if _, dup := codes[class]; dup {
			return nil, fmt.Errorf("encoder for %s has duplicate class %q", feature, class)
		}
		codes[class] = i
	}
	return &SymbolEncoder{feature: feature, classes: classes, codes: codes}, nil
}

// Encode maps a label to its integer code. An out-of-domain label is a hard
// failure: a silently dropped feature would corrupt the evidence set.
func (e *SymbolEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, core.NewUnknownSymbolError(string(e.feature), label)
	}
	return code, nil
}

// Decode maps an integer code back to its label
func (e *SymbolEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", core.NewOutOfDomainError(string(e.feature), fmt.Sprintf("code %d outside [0,%d)", code, len(e.classes)))
	}
	return e.classes[code], nil
}

// Cardinality returns the size of the trained domain
func (e *SymbolEncoder) Cardinality() int {
	return len(e.classes)
}

// Classes returns the trained label list in code order
func (e *SymbolEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
