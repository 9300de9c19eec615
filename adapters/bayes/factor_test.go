package bayes

import (
	"math"
	"testing"

	"kardia/domain/core"
)

func TestFactor_Restrict(t *testing.T) {
	// f(A,B) laid out row-major with A most significant.
	f := newFactor(
		[]core.FeatureName{"A", "B"},
		[]int{2, 3},
		[]float64{1, 2, 3, 4, 5, 6},
	)

	g := f.restrict("A", 1)
	if len(g.scope) != 1 || g.scope[0] != "B" {
		t.Fatalf("scope after restrict: %v", g.scope)
	}
	want := []float64{4, 5, 6}
	for i := range want {
		if g.vals[i] != want[i] {
			t.Errorf("entry %d: got %v, want %v", i, g.vals[i], want[i])
		}
	}

	// Restricting on a variable outside the scope is a no-op.
	if h := f.restrict("Z", 0); h != f {
		t.Error("restrict on foreign variable should return the factor unchanged")
	}
}

func TestFactor_ProductAndSumOut(t *testing.T) {
	f := newFactor([]core.FeatureName{"A"}, []int{2}, []float64{0.6, 0.4})
	g := newFactor([]core.FeatureName{"A", "B"}, []int{2, 2}, []float64{0.7, 0.3, 0.2, 0.8})

	joint := f.product(g)
	if len(joint.scope) != 2 {
		t.Fatalf("joint scope: %v", joint.scope)
	}
	// joint(a,b) = f(a) * g(a,b)
	wantJoint := []float64{0.42, 0.18, 0.08, 0.32}
	for i := range wantJoint {
		if math.Abs(joint.vals[i]-wantJoint[i]) > 1e-12 {
			t.Errorf("joint entry %d: got %v, want %v", i, joint.vals[i], wantJoint[i])
		}
	}

	marginal := joint.sumOut("A")
	if len(marginal.scope) != 1 || marginal.scope[0] != "B" {
		t.Fatalf("marginal scope: %v", marginal.scope)
	}
	wantMarginal := []float64{0.5, 0.5}
	for i := range wantMarginal {
		if math.Abs(marginal.vals[i]-wantMarginal[i]) > 1e-12 {
			t.Errorf("marginal entry %d: got %v, want %v", i, marginal.vals[i], wantMarginal[i])
		}
	}
}

func TestFactor_NormalizeZeroMass(t *testing.T) {
	f := newFactor([]core.FeatureName{"A"}, []int{2}, []float64{0, 0})
	if err := f.normalize(); err == nil {
		t.Fatal("normalizing a zero-mass factor must fail")
	}
}
