// Package symbolic solves the one genuinely symbolic step in the
// whole pipeline: deriving an R-type WDF adaptor's scattering matrix
// when one of its ports' resistance is not yet known (spec §4.5,
// Design Notes §9). Rather than a general computer-algebra system over
// Laurent polynomials in Rp, this package exploits a structural fact
// about the auxiliary Thevenin netlist: the unknown port's conductance
// g=1/Rp enters the MNA matrix as a single rank-one term g*u*uT, so
// Sherman-Morrison turns the whole port-voltage solve into a low-degree
// rational function of g, and the reflection-free condition
// S[0][0](g)=0 reduces to one quadratic equation with a closed-form
// root — no symbolic solver, no unbounded polynomial degree growth
// during elimination.
package symbolic

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gowdf/wdfsim/pkg/wdferr"
)

// Stamper adapts the dense gonum matrix this package solves against to
// the 1-based, datum-dropping element.MNAStamper convention every
// other stamping surface in this module uses.
type Stamper struct {
	A *mat.Dense
	B *mat.VecDense
}

// NewStamper allocates an n x n zeroed dense system.
func NewStamper(n int) *Stamper {
	return &Stamper{A: mat.NewDense(n, n, nil), B: mat.NewVecDense(n, nil)}
}

func (s *Stamper) AddElement(i, j int, value float64) {
	if i == 0 || j == 0 {
		return
	}
	s.A.Set(i-1, j-1, s.A.At(i-1, j-1)+value)
}

func (s *Stamper) AddRHS(i int, value float64) {
	if i == 0 {
		return
	}
	s.B.SetVec(i-1, s.B.AtVec(i-1)+value)
}

// Port describes one adaptor port's attachment into the auxiliary
// system: PosNode/NegNode are 1-based node indices (0 = datum) whose
// voltage difference is the port voltage. Ports[0] is always the
// unknown (upward, toward-parent) port; R is ignored for it and
// supplies the known port resistance for every other port.
type Port struct {
	PosNode, NegNode int
	R                float64
}

// Problem is one R-adaptor's symbolic solve: the base MNA matrix
// (every known port's resistor already stamped, the unknown port's
// conductance deliberately omitted) plus the port list.
type Problem struct {
	X0    *mat.Dense
	Ports []Port
}

// Solution is the solved upward port resistance and the adaptor's full
// scattering matrix (spec §4.5 step 5, §4.4): S[i][k] is the
// coefficient of input wave a_k in output wave b_i.
type Solution struct {
	Rp float64
	S  *mat.Dense
}

func portVector(p Port, n int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	if p.PosNode != 0 {
		v.SetVec(p.PosNode-1, v.AtVec(p.PosNode-1)+1)
	}
	if p.NegNode != 0 {
		v.SetVec(p.NegNode-1, v.AtVec(p.NegNode-1)-1)
	}
	return v
}

// Solve derives the unknown upward-port resistance and the adaptor's
// scattering matrix.
func (p *Problem) Solve() (*Solution, error) {
	n, _ := p.X0.Dims()
	if len(p.Ports) < 1 {
		return nil, wdferr.RAdaptorSolveError{Reason: "no ports supplied"}
	}
	u0 := portVector(p.Ports[0], n)

	var lu mat.LU
	lu.Factorize(p.X0)
	if lu.Cond() > 1e14 {
		return nil, wdferr.RAdaptorSolveError{Reason: "base MNA matrix is singular or ill-conditioned"}
	}

	// y0 = X0^-1 * u0 (used on the right), z0 = X0^-T * u0 (used on
	// the left) — kept distinct since the stamped auxiliary netlist is
	// not always symmetric (a VCVS's control-port rows are not mirrored
	// by a physical current path).
	var y0, z0 mat.VecDense
	if err := lu.SolveVecTo(&y0, false, u0); err != nil {
		return nil, wdferr.RAdaptorSolveError{Reason: "solving base system: " + err.Error()}
	}
	if err := lu.SolveVecTo(&z0, true, u0); err != nil {
		return nil, wdferr.RAdaptorSolveError{Reason: "solving transposed base system: " + err.Error()}
	}

	c3 := mat.Dot(u0, &y0) // u0 . X0^-1 u0
	c4 := mat.Dot(u0, &z0) // u0 . X0^-T u0

	// v0(g) = g*c3*(1 + g*(c3-c4)) / (1 + g*c3); setting v0(g)=0.5
	// (the reflection-free condition S[0][0]=0, given b=2v-a) clears
	// denominators into: A*g^2 + B*g + C = 0.
	a := c3 * (c3 - c4)
	b := 0.5 * c3
	c := -0.5

	g, err := solveForPositiveRoot(a, b, c)
	if err != nil {
		return nil, err
	}
	rp := 1.0 / g

	xFinal := mat.NewDense(n, n, nil)
	xFinal.Add(p.X0, outer(u0, u0, g))

	var finalLU mat.LU
	finalLU.Factorize(xFinal)

	s := mat.NewDense(len(p.Ports), len(p.Ports), nil)
	for k, portK := range p.Ports {
		gk := g
		if k > 0 {
			gk = 1.0 / portK.R
		}
		uk := portVector(portK, n)
		rhs := mat.NewVecDense(n, nil)
		rhs.ScaleVec(gk, uk)

		var x mat.VecDense
		if err := finalLU.SolveVecTo(&x, false, rhs); err != nil {
			return nil, wdferr.RAdaptorSolveError{Reason: "solving scattering column: " + err.Error()}
		}

		for i, portI := range p.Ports {
			ui := portVector(portI, n)
			vi := mat.Dot(ui, &x)
			delta := 0.0
			if i == k {
				delta = 1.0
			}
			s.Set(i, k, 2*vi-delta)
		}
	}

	return &Solution{Rp: rp, S: s}, nil
}

func outer(u, v *mat.VecDense, scale float64) *mat.Dense {
	n, _ := u.Dims()
	m := mat.NewDense(n, n, nil)
	m.Outer(scale, u, v)
	return m
}

// solveForPositiveRoot solves a*g^2+b*g+c=0 (degenerating to linear
// when a is negligible) and returns the smallest positive real root,
// failing if none exists — the physical requirement Rp=1/g>0.
func solveForPositiveRoot(a, b, c float64) (float64, error) {
	const eps = 1e-15

	var roots []float64
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return 0, wdferr.RAdaptorSolveError{Reason: "degenerate reflection-free equation (0=0)"}
		}
		roots = []float64{-c / b}
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return 0, wdferr.RAdaptorSolveError{Reason: "no real solution for port resistance"}
		}
		sq := math.Sqrt(disc)
		roots = []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}

	best := math.Inf(1)
	found := false
	for _, r := range roots {
		if r > eps && r < best {
			best = r
			found = true
		}
	}
	if !found {
		return 0, wdferr.RAdaptorSolveError{Reason: "no positive root for port resistance"}
	}
	return best, nil
}

// Scatter builds the full scattering matrix for a set of ports whose
// resistances are ALL already known — the root adaptor case (spec
// §4.6): there is no unknown upward port, so no Sherman-Morrison
// update or equation solve is needed; X0 already includes every
// port's conductance and a single factorization serves every column.
func Scatter(x0 *mat.Dense, ports []Port) (*mat.Dense, error) {
	n, _ := x0.Dims()
	var lu mat.LU
	lu.Factorize(x0)
	if lu.Cond() > 1e14 {
		return nil, wdferr.RAdaptorSolveError{Reason: "base MNA matrix is singular or ill-conditioned"}
	}

	s := mat.NewDense(len(ports), len(ports), nil)
	for k, portK := range ports {
		uk := portVector(portK, n)
		rhs := mat.NewVecDense(n, nil)
		rhs.ScaleVec(1/portK.R, uk)

		var x mat.VecDense
		if err := lu.SolveVecTo(&x, false, rhs); err != nil {
			return nil, wdferr.RAdaptorSolveError{Reason: "solving scattering column: " + err.Error()}
		}

		for i, portI := range ports {
			ui := portVector(portI, n)
			vi := mat.Dot(ui, &x)
			delta := 0.0
			if i == k {
				delta = 1.0
			}
			s.Set(i, k, 2*vi-delta)
		}
	}
	return s, nil
}
