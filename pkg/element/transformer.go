package element

import "math"

// IdealTransformer is a lossless 1:Ratio transformer, terminals
// [p+, p-, s+, s-]. Like VCVS it is a four-terminal primitive: the
// graph layer triangle-fans it, and it is MNA-stampable for use as an
// R-adaptor's internal multiport.
type IdealTransformer struct {
	Ratio float64 // turns ratio Np/Ns
}

func NewIdealTransformer(ratio float64) IdealTransformer {
	return IdealTransformer{Ratio: ratio}
}

func (IdealTransformer) Kind() Kind     { return KindIdealTransformer }
func (IdealTransformer) Terminals() int { return 4 }
func (IdealTransformer) ExtraVars() int { return 1 }

// Stamp adds the standard single-branch-variable ideal-transformer
// stamp: aux row v(p+)-v(p-) - Ratio*(v(s+)-v(s-)) = 0, with the
// primary branch current I feeding KCL at p+/p- directly and at
// s+/s- scaled by -Ratio (current conservation, no power loss).
func (t IdealTransformer) Stamp(m MNAStamper, nodes []int, extra []int) error {
	pP, pN, sP, sN := nodes[0], nodes[1], nodes[2], nodes[3]
	b := extra[0]

	if pP != 0 {
		m.AddElement(b, pP, 1)
		m.AddElement(pP, b, 1)
	}
	if pN != 0 {
		m.AddElement(b, pN, -1)
		m.AddElement(pN, b, -1)
	}
	if sP != 0 {
		m.AddElement(b, sP, -t.Ratio)
		m.AddElement(sP, b, -t.Ratio)
	}
	if sN != 0 {
		m.AddElement(b, sN, t.Ratio)
		m.AddElement(sN, b, t.Ratio)
	}
	return nil
}

// LinearTransformer is a non-ideal two-winding transformer specified
// by each winding's self-inductance and a coupling coefficient,
// terminals [p+, p-, s+, s-]. It replaces itself (spec §4.1, §9(b))
// into two leakage inductors, one magnetizing inductor, and one ideal
// transformer sharing two fresh internal nodes — the standard WDF
// T-model for a two-winding transformer:
//
//	p+ --La-- x --Lm-- p-          x:s+ tied by the ideal transformer
//	                     s+ --Ls-- y, y:s- = p- 's far node shared via x
//
// Coupling=1 (no leakage) degenerates La=Ls=0 and Lm=Lin, recovering a
// bare ideal transformer wired through two zero-valued inductors.
type LinearTransformer struct {
	Lin      float64
	Lout     float64
	Coupling float64
}

func NewLinearTransformer(lin, lout, coupling float64) LinearTransformer {
	return LinearTransformer{Lin: lin, Lout: lout, Coupling: coupling}
}

func (LinearTransformer) Kind() Kind     { return KindLinearTransformer }
func (LinearTransformer) Terminals() int { return 4 }

func (t LinearTransformer) Replacement(nodes []int, freeNode int) ([]ReplacementPart, error) {
	pP, pN, sP, sN := nodes[0], nodes[1], nodes[2], nodes[3]
	x := freeNode
	y := freeNode + 1

	// Referred to the primary through the 1:ratio ideal transformer:
	// magnetizing Lm=k*Lin, leakages (1-k)*Lin and (1-k)*Lout.
	m := t.Coupling * t.Lin
	la := t.Lin - m
	ls := t.Lout * (1 - t.Coupling)
	ratio := math.Sqrt(t.Lin / t.Lout)

	return []ReplacementPart{
		{Suffix: "/Lp", El: NewInductor(la), Nodes: []int{pP, x}},
		{Suffix: "/Lm", El: NewInductor(m), Nodes: []int{x, pN}},
		{Suffix: "/Ls", El: NewInductor(ls), Nodes: []int{sP, y}},
		{Suffix: "/T", El: NewIdealTransformer(ratio), Nodes: []int{x, pN, y, sN}},
	}, nil
}

// MutualInductor couples two windings that share a common reference
// terminal (an autotransformer / center-tapped topology), terminals
// [a, b, common]: winding 1 runs a-common, winding 2 runs b-common.
// Unlike LinearTransformer this needs no ideal transformer — because
// the two windings already share a node, the classical three-inductor
// T-equivalent (no galvanic isolation) applies directly. The mutual
// term M=Coupling*sqrt(L1*L2) is the same formula the teacher's
// device.Mutual uses for its MNA branch-coupling stamp
// (pkg/device/mutual.go); adapted here to a passive T so the result is
// expandable into plain Inductor wrappers the WDF tree already knows
// how to handle (spec §12 supplement).
type MutualInductor struct {
	L1       float64
	L2       float64
	Coupling float64
}

func NewMutualInductor(l1, l2, coupling float64) MutualInductor {
	return MutualInductor{L1: l1, L2: l2, Coupling: coupling}
}

func (MutualInductor) Kind() Kind     { return KindMutualInductor }
func (MutualInductor) Terminals() int { return 3 }

func (c MutualInductor) Replacement(nodes []int, freeNode int) ([]ReplacementPart, error) {
	a, b, common := nodes[0], nodes[1], nodes[2]
	x := freeNode

	m := c.Coupling * math.Sqrt(c.L1*c.L2)
	la := c.L1 - m
	lb := c.L2 - m

	return []ReplacementPart{
		{Suffix: "/La", El: NewInductor(la), Nodes: []int{a, x}},
		{Suffix: "/Lb", El: NewInductor(lb), Nodes: []int{b, x}},
		{Suffix: "/Lm", El: NewInductor(m), Nodes: []int{x, common}},
	}, nil
}
