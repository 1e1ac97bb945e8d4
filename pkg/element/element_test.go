package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogKindsAndTerminals(t *testing.T) {
	tests := []struct {
		name      string
		el        Element
		wantKind  Kind
		wantTerms int
	}{
		{"resistor", NewResistor(1000), KindResistor, 2},
		{"capacitor", NewCapacitor(1e-6), KindCapacitor, 2},
		{"inductor", NewInductor(1e-3), KindInductor, 2},
		{"open circuit", NewOpenCircuit(), KindOpenCircuit, 2},
		{"voltage source", NewVoltageSource(0, 5), KindVoltageSource, 2},
		{"ideal voltage source", NewIdealVoltageSource(5), KindIdealVoltageSource, 2},
		{"vcvs", NewVCVS(2), KindVCVS, 4},
		{"ideal transformer", NewIdealTransformer(2), KindIdealTransformer, 4},
		{"linear transformer", NewLinearTransformer(1e-3, 4e-3, 0.98), KindLinearTransformer, 4},
		{"mutual inductor", NewMutualInductor(1e-3, 2e-3, 0.9), KindMutualInductor, 3},
		{"trimmer", NewTrimmer(500), KindTrimmer, 2},
		{"diode", NewDiode(1e-14), KindDiode, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantKind, tt.el.Kind())
			require.Equal(t, tt.wantTerms, tt.el.Terminals())
		})
	}
}

func TestDiodeIsNonlinear(t *testing.T) {
	var _ Nonlinear = Diode{}
	var got interface{} = NewDiode(1e-14)
	_, ok := got.(Nonlinear)
	require.True(t, ok, "Diode must satisfy the Nonlinear capability interface")

	_, ok = interface{}(NewTrimmer(100)).(Nonlinear)
	require.False(t, ok, "Trimmer is adjustable but linear, not Nonlinear")
}

func TestResistorStampIsSymmetric(t *testing.T) {
	r := NewResistor(1000)
	s := newFakeStamper(3)
	require.NoError(t, r.Stamp(s, []int{1, 2}, nil))

	g := 1.0 / 1000
	require.InDelta(t, g, s.at(1, 1), 1e-12)
	require.InDelta(t, g, s.at(2, 2), 1e-12)
	require.InDelta(t, -g, s.at(1, 2), 1e-12)
	require.InDelta(t, -g, s.at(2, 1), 1e-12)
}

func TestResistorStampDropsDatumNode(t *testing.T) {
	r := NewResistor(500)
	s := newFakeStamper(2)
	require.NoError(t, r.Stamp(s, []int{0, 1}, nil))

	g := 1.0 / 500
	require.InDelta(t, g, s.at(1, 1), 1e-12)
	// Row/column 0 (the datum) must never be touched.
	require.InDelta(t, 0, s.at(0, 0), 1e-12)
}

func TestIdealVoltageSourceStamp(t *testing.T) {
	v := NewIdealVoltageSource(9)
	s := newFakeStamper(3)
	// node 1, node 2, extra var index 3
	require.NoError(t, v.Stamp(s, []int{1, 2}, []int{3}))

	require.InDelta(t, 1, s.at(3, 1), 1e-12)
	require.InDelta(t, 1, s.at(1, 3), 1e-12)
	require.InDelta(t, -1, s.at(3, 2), 1e-12)
	require.InDelta(t, -1, s.at(2, 3), 1e-12)
	require.InDelta(t, 9, s.rhs(3), 1e-12)
}

func TestVCVSStamp(t *testing.T) {
	e := NewVCVS(3)
	s := newFakeStamper(5)
	// outP=1 outN=2 ctrlP=3 ctrlN=4, extra=5
	require.NoError(t, e.Stamp(s, []int{1, 2, 3, 4}, []int{5}))

	require.InDelta(t, 1, s.at(5, 1), 1e-12)
	require.InDelta(t, -1, s.at(5, 2), 1e-12)
	require.InDelta(t, -3, s.at(5, 3), 1e-12)
	require.InDelta(t, 3, s.at(5, 4), 1e-12)
}

func TestIdealTransformerStamp(t *testing.T) {
	tf := NewIdealTransformer(2)
	s := newFakeStamper(5)
	require.NoError(t, tf.Stamp(s, []int{1, 2, 3, 4}, []int{5}))

	require.InDelta(t, 1, s.at(5, 1), 1e-12)
	require.InDelta(t, -1, s.at(5, 2), 1e-12)
	require.InDelta(t, -2, s.at(5, 3), 1e-12)
	require.InDelta(t, 2, s.at(5, 4), 1e-12)
	// Current conservation: primary branch current feeds secondary rows
	// with the same magnitude it feeds the primary rows, scaled by Ratio.
	require.InDelta(t, s.at(1, 5), -s.at(3, 5)/tf.Ratio, 1e-9)
}

func TestLinearTransformerReplacement(t *testing.T) {
	tf := NewLinearTransformer(1e-3, 4e-3, 1.0) // fully coupled: La=Ls=0
	parts, err := tf.Replacement([]int{1, 0, 2, 0}, 10)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	lp := parts[0].El.(Inductor)
	lm := parts[1].El.(Inductor)
	ls := parts[2].El.(Inductor)
	require.InDelta(t, 0, lp.L, 1e-15)
	require.InDelta(t, 1e-3, lm.L, 1e-12)
	require.InDelta(t, 0, ls.L, 1e-15)

	tform := parts[3].El.(IdealTransformer)
	require.InDelta(t, 0.5, tform.Ratio, 1e-9) // sqrt(1e-3/4e-3) = 0.5

	// Fresh nodes must not collide with existing ones or each other.
	require.Equal(t, 10, parts[0].Nodes[1])
	require.Equal(t, 11, parts[2].Nodes[1])
}

func TestMutualInductorReplacement(t *testing.T) {
	mi := NewMutualInductor(1e-3, 2e-3, 0.5)
	parts, err := mi.Replacement([]int{1, 2, 0}, 10)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	m := 0.5 * math.Sqrt(1e-3*2e-3)
	la := parts[0].El.(Inductor)
	lb := parts[1].El.(Inductor)
	lm := parts[2].El.(Inductor)
	require.InDelta(t, 1e-3-m, la.L, 1e-12)
	require.InDelta(t, 2e-3-m, lb.L, 1e-12)
	require.InDelta(t, m, lm.L, 1e-12)

	// No ideal transformer: MutualInductor keeps galvanic connection.
	for _, p := range parts {
		_, isTF := p.El.(IdealTransformer)
		require.False(t, isTF)
	}
}

// --- test helpers ---

type fakeStamper struct {
	n      int
	a      [][]float64
	rhsVec []float64
}

func newFakeStamper(n int) *fakeStamper {
	a := make([][]float64, n+1)
	for i := range a {
		a[i] = make([]float64, n+1)
	}
	return &fakeStamper{n: n, a: a, rhsVec: make([]float64, n+1)}
}

func (s *fakeStamper) AddElement(i, j int, value float64) {
	if i == 0 || j == 0 {
		return
	}
	s.a[i][j] += value
}

func (s *fakeStamper) AddRHS(i int, value float64) {
	if i == 0 {
		return
	}
	s.rhsVec[i] += value
}

func (s *fakeStamper) at(i, j int) float64  { return s.a[i][j] }
func (s *fakeStamper) rhs(i int) float64    { return s.rhsVec[i] }
