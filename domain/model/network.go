package model

import (
	"fmt"
	"math"

	"kardia/domain/core"
)

// cptRowTolerance bounds the drift allowed in a CPT row's probability mass
const cptRowTolerance = 1e-6

// Node is one categorical variable of the network with its conditional
// probability table. The CPT is flattened row-major over the parent
// assignments (in Parents order), each row holding the node's distribution in
// encoder code order.
type Node struct {
	Name    core.FeatureName   `json:"name"`
	Parents []core.FeatureName `json:"parents"`
	CPT     []float64          `json:"cpt"`
}

// BayesianNetwork is a directed acyclic graph of categorical variables with
// one CPT per node. Immutable after construction; safe for concurrent reads.
type BayesianNetwork struct {
	nodes  []Node
	byName map[core.FeatureName]int
	card   map[core.FeatureName]int
}

// NewBayesianNetwork validates structure and tables and builds the network.
// Cardinalities come from the trained encoders, one per variable.
func NewBayesianNetwork(nodes []Node, card map[core.FeatureName]int) (*BayesianNetwork, error) {
	byName := make(map[core.FeatureName]int, len(nodes))
	for i, node := range nodes {
		if _, dup := byName[node.Name]; dup {
			return nil, fmt.Errorf("duplicate node %s", node.Name)
		}
		byName[node.Name] = i
	}

	net := &BayesianNetwork{nodes: nodes, byName: byName, card: card}

	for _, node := range nodes {
		if _, ok := card[node.Name]; !ok {
			return nil, fmt.Errorf("node %s has no encoder cardinality", node.Name)
		}
		for _, parent := range node.Parents {
			if _, ok := byName[parent]; !ok {
				return nil, fmt.Errorf("node %s references unknown parent %s", node.Name, parent)
			}
		}
		if err := net.validateCPT(node); err != nil {
			return nil, err
		}
	}

	if err := net.checkAcyclic(); err != nil {
		return nil, err
	}

	return net, nil
}

// validateCPT checks table dimensions and the probability invariant: every
// row sums to 1 over the node's domain.
func (n *BayesianNetwork) validateCPT(node Node) error {
	rowLen := n.card[node.Name]
	rows := 1
	for _, parent := range node.Parents {
		rows *= n.card[parent]
	}
	if len(node.CPT) != rows*rowLen {
		return fmt.Errorf("node %s: CPT has %d entries, want %d (%d rows x %d values)",
			node.Name, len(node.CPT), rows*rowLen, rows, rowLen)
	}
	for r := 0; r < rows; r++ {
		sum := 0.0
		for c := 0; c < rowLen; c++ {
			p := node.CPT[r*rowLen+c]
			if p < 0 || p > 1 {
				return fmt.Errorf("node %s: CPT row %d has probability %g outside [0,1]", node.Name, r, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > cptRowTolerance {
			return fmt.Errorf("node %s: CPT row %d sums to %g, want 1", node.Name, r, sum)
		}
	}
	return nil
}

// checkAcyclic runs Kahn's algorithm over the parent edges
func (n *BayesianNetwork) checkAcyclic() error {
	indegree := make(map[core.FeatureName]int, len(n.nodes))
	children := make(map[core.FeatureName][]core.FeatureName, len(n.nodes))
	for _, node := range n.nodes {
		indegree[node.Name] += 0
		for _, parent := range node.Parents {
			indegree[node.Name]++
			children[parent] = append(children[parent], node.Name)
		}
	}

	queue := make([]core.FeatureName, 0, len(n.nodes))
	for _, node := range n.nodes {
		if indegree[node.Name] == 0 {
			queue = append(queue, node.Name)
		}
	}

	visited := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited++
		for _, child := range children[name] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if visited != len(n.nodes) {
		return fmt.Errorf("network contains a cycle")
	}
	return nil
}

// Node returns the node by name
func (n *BayesianNetwork) Node(name core.FeatureName) (Node, bool) {
	idx, ok := n.byName[name]
	if !ok {
		return Node{}, false
	}
	return n.nodes[idx], true
}

// HasNode reports whether the variable exists in the network
func (n *BayesianNetwork) HasNode(name core.FeatureName) bool {
	_, ok := n.byName[name]
	return ok
}

// Nodes returns all nodes in declaration order
func (n *BayesianNetwork) Nodes() []Node {
	return n.nodes
}

// Cardinality returns the domain size of a variable
func (n *BayesianNetwork) Cardinality(name core.FeatureName) int {
	return n.card[name]
}

// Variables returns every variable name in declaration order
func (n *BayesianNetwork) Variables() []core.FeatureName {
	names := make([]core.FeatureName, len(n.nodes))
	for i, node := range n.nodes {
		names[i] = node.Name
	}
	return names
}
