package element

// VoltageSource is a two-terminal source with series resistance R and
// a default/initial value Vs (spec §4.3: Rp=R, b<-Vs). Vs is dynamic —
// the WDF wrapper (pkg/wdf) overrides it per sample via SetSampleData;
// this catalog value only supplies the construction-time default that
// Reset restores.
type VoltageSource struct {
	R  float64
	Vs float64
}

func NewVoltageSource(r, vs float64) VoltageSource {
	return VoltageSource{R: r, Vs: vs}
}

func (VoltageSource) Kind() Kind     { return KindVoltageSource }
func (VoltageSource) Terminals() int { return 2 }

// IdealVoltageSource is a zero-series-resistance source (Rp=0). It is
// MNA-stampable. It has no WDF leaf: the tree builder (pkg/wdf) rejects
// it as a two-terminal element of a user netlist, and the Thevenin
// solve (pkg/symbolic) models each port as a stamped conductance
// rather than with an IdealVoltageSource.
type IdealVoltageSource struct {
	Vs float64
}

func NewIdealVoltageSource(vs float64) IdealVoltageSource {
	return IdealVoltageSource{Vs: vs}
}

func (IdealVoltageSource) Kind() Kind     { return KindIdealVoltageSource }
func (IdealVoltageSource) Terminals() int { return 2 }
func (IdealVoltageSource) ExtraVars() int { return 1 }

// Stamp adds the standard branch-current MNA stamp for an independent
// voltage source: v(n1)-v(n2) = Vs, with the branch current as the one
// extra unknown. Mirrors device.VoltageSource.Stamp (pkg/device/vsource.go).
func (v IdealVoltageSource) Stamp(m MNAStamper, nodes []int, extra []int) error {
	n1, n2 := nodes[0], nodes[1]
	b := extra[0]

	if n1 != 0 {
		m.AddElement(b, n1, 1)
		m.AddElement(n1, b, 1)
	}
	if n2 != 0 {
		m.AddElement(b, n2, -1)
		m.AddElement(n2, b, -1)
	}
	m.AddRHS(b, v.Vs)
	return nil
}
