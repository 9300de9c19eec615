package bayes

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"kardia/domain/core"
)

// factor is a dense table over the Cartesian product of its scope variables'
// domains: an unnormalized function of those variables. Layout is row-major
// with the first scope variable most significant, which makes a CPT over
// [parents..., node] directly usable as a factor.
type factor struct {
	scope []core.FeatureName
	card  []int
	vals  []float64
}

func newFactor(scope []core.FeatureName, card []int, vals []float64) *factor {
	return &factor{scope: scope, card: card, vals: vals}
}

// position returns the index of v in the scope, or -1
func (f *factor) position(v core.FeatureName) int {
	for i, name := range f.scope {
		if name == v {
			return i
		}
	}
	return -1
}

// strides computes the row-major stride of each scope variable
func (f *factor) strides() []int {
	strides := make([]int, len(f.scope))
	stride := 1
	for i := len(f.scope) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= f.card[i]
	}
	return strides
}

// restrict fixes variable v to the observed value, removing v from the
// scope. Factors not mentioning v are returned unchanged.
func (f *factor) restrict(v core.FeatureName, value int) *factor {
	pos := f.position(v)
	if pos < 0 {
		return f
	}

	newScope := make([]core.FeatureName, 0, len(f.scope)-1)
	newCard := make([]int, 0, len(f.scope)-1)
	for i := range f.scope {
		if i == pos {
			continue
		}
		newScope = append(newScope, f.scope[i])
		newCard = append(newCard, f.card[i])
	}

	strides := f.strides()
	size := len(f.vals) / f.card[pos]
	newVals := make([]float64, 0, size)

	assign := make([]int, len(f.scope))
	assign[pos] = value
	for {
		idx := 0
		for i, a := range assign {
			idx += a * strides[i]
		}
		newVals = append(newVals, f.vals[idx])

		// Advance the assignment over every variable except v.
		i := len(assign) - 1
		for ; i >= 0; i-- {
			if i == pos {
				continue
			}
			assign[i]++
			if assign[i] < f.card[i] {
				break
			}
			assign[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return newFactor(newScope, newCard, newVals)
}

// product multiplies two factors pointwise over the union of their scopes
func (f *factor) product(g *factor) *factor {
	scope := make([]core.FeatureName, len(f.scope))
	copy(scope, f.scope)
	card := make([]int, len(f.card))
	copy(card, f.card)
	for i, v := range g.scope {
		if f.position(v) < 0 {
			scope = append(scope, v)
			card = append(card, g.card[i])
		}
	}

	size := 1
	for _, c := range card {
		size *= c
	}
	vals := make([]float64, size)

	fStrides := f.strides()
	gStrides := g.strides()
	assign := make([]int, len(scope))
	for idx := 0; idx < size; idx++ {
		fIdx, gIdx := 0, 0
		for i, v := range scope {
			if p := f.position(v); p >= 0 {
				fIdx += assign[i] * fStrides[p]
			}
			if p := g.position(v); p >= 0 {
				gIdx += assign[i] * gStrides[p]
			}
		}
		vals[idx] = f.vals[fIdx] * g.vals[gIdx]

		for i := len(assign) - 1; i >= 0; i-- {
			assign[i]++
			if assign[i] < card[i] {
				break
			}
			assign[i] = 0
		}
	}

	return newFactor(scope, card, vals)
}

// sumOut marginalizes variable v out of the factor
func (f *factor) sumOut(v core.FeatureName) *factor {
	pos := f.position(v)
	if pos < 0 {
		return f
	}

	newScope := make([]core.FeatureName, 0, len(f.scope)-1)
	newCard := make([]int, 0, len(f.scope)-1)
	for i := range f.scope {
		if i == pos {
			continue
		}
		newScope = append(newScope, f.scope[i])
		newCard = append(newCard, f.card[i])
	}

	size := len(f.vals) / f.card[pos]
	newVals := make([]float64, size)

	assign := make([]int, len(f.scope))
	for idx := 0; idx < len(f.vals); idx++ {
		outIdx := 0
		outStride := 1
		for i := len(f.scope) - 1; i >= 0; i-- {
			if i == pos {
				continue
			}
			outIdx += assign[i] * outStride
			outStride *= f.card[i]
		}
		newVals[outIdx] += f.vals[idx]

		for i := len(assign) - 1; i >= 0; i-- {
			assign[i]++
			if assign[i] < f.card[i] {
				break
			}
			assign[i] = 0
		}
	}

	return newFactor(newScope, newCard, newVals)
}

// normalize scales the factor so its entries sum to 1. A zero total means
// the conditioning evidence has probability zero.
func (f *factor) normalize() error {
	total := floats.Sum(f.vals)
	if total <= 0 {
		return fmt.Errorf("%w: posterior mass is zero", core.ErrInconsistentEvidence)
	}
	floats.Scale(1/total, f.vals)
	return nil
}
