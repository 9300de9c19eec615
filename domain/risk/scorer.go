package risk

import (
	"fmt"
	"strings"

	"kardia/domain/core"
)

// Score is the scorer's verdict for one feature
type Score struct {
	Contribution float64
	Reason       string // empty unless a notable rule fired
}

// Scorer performs deterministic lookups against the per-feature rule tables.
// It is pure: same (feature, category) in, same score out.
type Scorer struct{}

// NewScorer creates a rule-table scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score looks up the rule for a feature's category. Numeric features pass
// their bin label as category and the raw measurement as value (used in the
// reason text); categorical features pass the raw category for both.
func (s *Scorer) Score(feature core.FeatureName, category string, value any) Score {
	table, ok := ruleTables[feature]
	if !ok {
		// Features without a table contribute nothing notable.
		return Score{}
	}

	rule, ok := table.Rules[category]
	if !ok {
		return Score{Contribution: table.Baseline}
	}

	reason := rule.Reason
	if strings.Contains(reason, "%v") {
		reason = fmt.Sprintf(reason, value)
	}
	return Score{Contribution: rule.Weight, Reason: reason}
}

// HasTable reports whether a feature has a configured rule table
func (s *Scorer) HasTable(feature core.FeatureName) bool {
	_, ok := ruleTables[feature]
	return ok
}
