package element

// VCVS is a voltage-controlled voltage source: terminals
// [out+, out-, ctrl+, ctrl-], output = Gain*(v(ctrl+)-v(ctrl-)). A
// four-terminal element: the SPQR decomposition (pkg/graph) triangle-
// fans it before running triconnectivity, and whenever it ends up
// bound to an R-type SPQR node it is stamped directly as an internal
// multiport (spec §4.5 step 4).
type VCVS struct {
	Gain float64
}

func NewVCVS(gain float64) VCVS  { return VCVS{Gain: gain} }
func (VCVS) Kind() Kind          { return KindVCVS }
func (VCVS) Terminals() int      { return 4 }
func (VCVS) ExtraVars() int      { return 1 }

// Stamp adds: v(out+)-v(out-) - Gain*(v(ctrl+)-v(ctrl-)) = 0 as the
// extra-variable row, and the output branch current into the KCL rows
// of out+/out-.
func (e VCVS) Stamp(m MNAStamper, nodes []int, extra []int) error {
	outP, outN, ctrlP, ctrlN := nodes[0], nodes[1], nodes[2], nodes[3]
	b := extra[0]

	if outP != 0 {
		m.AddElement(b, outP, 1)
		m.AddElement(outP, b, 1)
	}
	if outN != 0 {
		m.AddElement(b, outN, -1)
		m.AddElement(outN, b, -1)
	}
	if ctrlP != 0 {
		m.AddElement(b, ctrlP, -e.Gain)
	}
	if ctrlN != 0 {
		m.AddElement(b, ctrlN, e.Gain)
	}
	return nil
}
