package element

// Resistor is a linear two-terminal resistor, optionally carrying a
// temperature coefficient pair (Tc1, Tc2) relative to Tnom — fields
// lifted directly from the teacher's device.Resistor (pkg/device/resistor.go)
// and left in the catalog even though the WDF core runs isothermally:
// the tree builder uses R as given and never calls ValueAt (spec §12
// supplement).
type Resistor struct {
	R    float64
	Tc1  float64
	Tc2  float64
	Tnom float64
}

// NewResistor returns a Resistor at room temperature with no
// temperature coefficients.
func NewResistor(r float64) Resistor {
	return Resistor{R: r, Tnom: 300.15}
}

func (Resistor) Kind() Kind     { return KindResistor }
func (Resistor) Terminals() int { return 2 }

// ValueAt returns the temperature-adjusted resistance, mirroring
// device.Resistor.temperatureAdjustedValue.
func (r Resistor) ValueAt(temp float64) float64 {
	if r.Tc1 == 0 && r.Tc2 == 0 {
		return r.R
	}
	dt := temp - r.Tnom
	factor := 1.0 + r.Tc1*dt + r.Tc2*dt*dt
	return r.R * factor
}

func (Resistor) ExtraVars() int { return 0 }

// Stamp adds the standard two-terminal conductance stamp. A Resistor in
// a user netlist becomes a WDF leaf rather than stamped glue, and the
// tree builder stamps port resistances with its own helper, so only
// callers stamping a Resistor directly use this.
func (r Resistor) Stamp(m MNAStamper, nodes []int, extra []int) error {
	n1, n2 := nodes[0], nodes[1]
	g := 1.0 / r.R

	if n1 != 0 {
		m.AddElement(n1, n1, g)
		if n2 != 0 {
			m.AddElement(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			m.AddElement(n2, n1, -g)
		}
		m.AddElement(n2, n2, g)
	}
	return nil
}
