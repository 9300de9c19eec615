package bayes

import (
	"context"
	"fmt"

	"kardia/domain/core"
	"kardia/domain/model"
	"kardia/ports"
)

// Engine answers conditional probability queries against a discrete
// Bayesian network by variable elimination. It holds only read-only model
// state, so a single instance serves concurrent queries.
type Engine struct {
	network *model.BayesianNetwork
}

// NewEngine creates a variable-elimination engine over the given network
func NewEngine(network *model.BayesianNetwork) *Engine {
	return &Engine{network: network}
}

var _ ports.InferencePort = (*Engine)(nil)

// Query computes P(target | evidence) exactly. Evidence values are encoder
// codes and must fall inside each variable's domain. A query whose evidence
// has zero probability under the model fails with ErrInconsistentEvidence.
func (e *Engine) Query(ctx context.Context, target core.FeatureName, evidence core.Evidence) (ports.Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !e.network.HasNode(target) {
		return nil, core.NewUnknownVariableError(string(target))
	}
	if _, observed := evidence[target]; observed {
		return nil, core.NewValidationError(string(target), "target cannot also be evidence")
	}
	for name, code := range evidence {
		if !e.network.HasNode(name) {
			return nil, core.NewUnknownVariableError(string(name))
		}
		if card := e.network.Cardinality(name); code < 0 || code >= card {
			return nil, core.NewOutOfDomainError(string(name),
				fmt.Sprintf("code %d outside domain of size %d", code, card))
		}
	}

	// Build one factor per node and immediately reduce by the evidence.
	// Observed variables disappear from every scope here, so the
	// elimination below never touches them.
	factors := make([]*factor, 0, len(e.network.Nodes()))
	for _, node := range e.network.Nodes() {
		f := e.nodeFactor(node)
		for name, code := range evidence {
			f = f.restrict(name, code)
		}
		factors = append(factors, f)
	}

	for _, v := range e.eliminationOrder(target, evidence) {
		factors = eliminate(factors, v)
	}

	result := newFactor(nil, nil, []float64{1})
	for _, f := range factors {
		result = result.product(f)
	}
	if len(result.scope) != 1 || result.scope[0] != target {
		return nil, fmt.Errorf("elimination left unexpected scope %v", result.scope)
	}
	if err := result.normalize(); err != nil {
		return nil, err
	}

	dist := make(ports.Distribution, len(result.vals))
	copy(dist, result.vals)
	return dist, nil
}

// nodeFactor turns a node's CPT into a factor over [parents..., node]
func (e *Engine) nodeFactor(node model.Node) *factor {
	scope := make([]core.FeatureName, 0, len(node.Parents)+1)
	scope = append(scope, node.Parents...)
	scope = append(scope, node.Name)

	card := make([]int, len(scope))
	for i, v := range scope {
		card[i] = e.network.Cardinality(v)
	}
	return newFactor(scope, card, node.CPT)
}

// eliminationOrder greedily orders the hidden variables by minimum induced
// factor size. Exact optimal ordering is NP-hard; min-weight is the standard
// heuristic and is exact regardless of the order chosen.
func (e *Engine) eliminationOrder(target core.FeatureName, evidence core.Evidence) []core.FeatureName {
	hidden := make(map[core.FeatureName]bool)
	for _, v := range e.network.Variables() {
		if v == target {
			continue
		}
		if _, observed := evidence[v]; observed {
			continue
		}
		hidden[v] = true
	}

	// Neighbor sets of the moralized graph restricted to hidden variables.
	neighbors := make(map[core.FeatureName]map[core.FeatureName]bool, len(hidden))
	for v := range hidden {
		neighbors[v] = make(map[core.FeatureName]bool)
	}
	for _, node := range e.network.Nodes() {
		family := append([]core.FeatureName{node.Name}, node.Parents...)
		for _, a := range family {
			for _, b := range family {
				if a == b || !hidden[a] || !hidden[b] {
					continue
				}
				neighbors[a][b] = true
			}
		}
	}

	order := make([]core.FeatureName, 0, len(hidden))
	for len(hidden) > 0 {
		var best core.FeatureName
		bestWeight := -1
		for v := range hidden {
			weight := e.network.Cardinality(v)
			for n := range neighbors[v] {
				if hidden[n] {
					weight *= e.network.Cardinality(n)
				}
			}
			if bestWeight < 0 || weight < bestWeight || (weight == bestWeight && v < best) {
				best, bestWeight = v, weight
			}
		}

		order = append(order, best)
		delete(hidden, best)
		// Connect the eliminated variable's remaining neighbors.
		for a := range neighbors[best] {
			for b := range neighbors[best] {
				if a != b && hidden[a] && hidden[b] {
					neighbors[a][b] = true
				}
			}
		}
	}
	return order
}

// eliminate multiplies every factor mentioning v and sums v out of the
// product, leaving the rest of the pool untouched.
func eliminate(factors []*factor, v core.FeatureName) []*factor {
	var touched *factor
	rest := factors[:0]
	for _, f := range factors {
		if f.position(v) < 0 {
			rest = append(rest, f)
			continue
		}
		if touched == nil {
			touched = f
		} else {
			touched = touched.product(f)
		}
	}
	if touched == nil {
		return rest
	}
	return append(rest, touched.sumOut(v))
}
