package wdf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gowdf/wdfsim/pkg/symbolic"
)

// SeriesAdaptor joins N children whose port currents must all be
// equal (a Series SPQR node, spec §4.4). Port 0 is the dependent,
// reflection-free port; it faces whichever node sits above this
// adaptor in the wave tree, or is unused if this adaptor is itself the
// tree's root.
type SeriesAdaptor struct {
	rp       float64
	children []Node
	childA   []float64
}

// NewSeriesAdaptor builds the dependent port resistance (the sum of
// every child's, the series analogue of resistors adding in series)
// and wraps children in insertion order.
func NewSeriesAdaptor(children []Node) *SeriesAdaptor {
	sum := 0.0
	for _, c := range children {
		sum += c.PortResistance()
	}
	return &SeriesAdaptor{rp: sum, children: children, childA: make([]float64, len(children))}
}

func (s *SeriesAdaptor) PortResistance() float64 { return s.rp }

func (s *SeriesAdaptor) WaveUp() float64 {
	sum := 0.0
	for i, c := range s.children {
		a := c.WaveUp()
		s.childA[i] = a
		sum += a
	}
	return -sum
}

func (s *SeriesAdaptor) WaveDown(a0 float64) {
	total := a0
	for _, a := range s.childA {
		total += a
	}
	for i, c := range s.children {
		bi := s.childA[i] - (c.PortResistance()/s.rp)*total
		c.WaveDown(bi)
	}
}

// ParallelAdaptor is Series's KCL dual: children's port voltages are
// all equal (a Parallel SPQR node, a multi-edge bundle).
type ParallelAdaptor struct {
	rp       float64
	children []Node
	gains    []float64 // Gi/G0 per child, precomputed once
	childA   []float64
}

func NewParallelAdaptor(children []Node) *ParallelAdaptor {
	g0 := 0.0
	conductances := make([]float64, len(children))
	for i, c := range children {
		g := 1 / c.PortResistance()
		conductances[i] = g
		g0 += g
	}
	gains := make([]float64, len(children))
	for i, g := range conductances {
		gains[i] = g / g0
	}
	return &ParallelAdaptor{rp: 1 / g0, children: children, gains: gains, childA: make([]float64, len(children))}
}

func (p *ParallelAdaptor) PortResistance() float64 { return p.rp }

func (p *ParallelAdaptor) WaveUp() float64 {
	b0 := 0.0
	for i, c := range p.children {
		a := c.WaveUp()
		p.childA[i] = a
		b0 += p.gains[i] * a
	}
	return b0
}

func (p *ParallelAdaptor) WaveDown(a0 float64) {
	b0 := 0.0
	for i, a := range p.childA {
		b0 += p.gains[i] * a
	}
	common := a0 + b0
	for i, c := range p.children {
		c.WaveDown(common - p.childA[i])
	}
}

// RigidAdaptor wraps a solved scattering matrix S (from an R-type SPQR
// node, spec §4.4/§4.5) over N ports: port 0 is the dependent,
// reflection-free port (S[0][0]==0 by construction of
// symbolic.Solve), ports 1..N-1 are children.
type RigidAdaptor struct {
	rp       float64
	s        *mat.Dense
	children []Node
	childA   []float64
}

func NewRigidAdaptor(rp float64, s *mat.Dense, children []Node) *RigidAdaptor {
	return &RigidAdaptor{rp: rp, s: s, children: children, childA: make([]float64, len(children))}
}

func (r *RigidAdaptor) PortResistance() float64 { return r.rp }

func (r *RigidAdaptor) WaveUp() float64 {
	b0 := 0.0
	for i, c := range r.children {
		a := c.WaveUp()
		r.childA[i] = a
		b0 += r.s.At(0, i+1) * a
	}
	return b0
}

func (r *RigidAdaptor) WaveDown(a0 float64) {
	n := len(r.children) + 1
	a := make([]float64, n)
	a[0] = a0
	copy(a[1:], r.childA)

	for i, c := range r.children {
		bi := 0.0
		row := i + 1
		for j := 0; j < n; j++ {
			bi += r.s.At(row, j) * a[j]
		}
		c.WaveDown(bi)
	}
}

// RootRigidAdaptor is a RigidAdaptor with no parent: every port is a
// real child (spec §4.6 root selection), so the full N x N scattering
// matrix built by symbolic.Scatter is applied in one local pass with
// no up/down split and no reflection-free port to exclude.
type RootRigidAdaptor struct {
	s        *mat.Dense
	children []Node
}

func NewRootRigidAdaptor(s *mat.Dense, children []Node) *RootRigidAdaptor {
	return &RootRigidAdaptor{s: s, children: children}
}

// Process runs one full sample: gather every child's outgoing wave,
// apply the scattering matrix, and push the results back down.
func (r *RootRigidAdaptor) Process() {
	n := len(r.children)
	a := make([]float64, n)
	for i, c := range r.children {
		a[i] = c.WaveUp()
	}
	for i, c := range r.children {
		bi := 0.0
		for j := 0; j < n; j++ {
			bi += r.s.At(i, j) * a[j]
		}
		c.WaveDown(bi)
	}
}

// RootSeriesParallel is the root-position counterpart to
// SeriesAdaptor/ParallelAdaptor: with no parent, the embedded adaptor's
// dependent port is closed on itself — shorted for a series adaptor
// (a0=-b0) and left open for a parallel one (a0=b0) — which reduces
// each to the plain junction of its children.
type RootSeriesParallel struct {
	inner Node
}

func NewRootSeriesParallel(inner Node) *RootSeriesParallel {
	return &RootSeriesParallel{inner: inner}
}

func (r *RootSeriesParallel) Process() {
	b := r.inner.WaveUp()
	if _, series := r.inner.(*SeriesAdaptor); series {
		b = -b
	}
	r.inner.WaveDown(b)
}

// symbolicToRigid is a small helper the tree builder uses to turn a
// solved symbolic.Solution into the right adaptor shape.
func symbolicToRigid(sol *symbolic.Solution, children []Node) *RigidAdaptor {
	return NewRigidAdaptor(sol.Rp, sol.S, children)
}
