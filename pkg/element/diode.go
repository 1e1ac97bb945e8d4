package element

// Diode is a two-terminal nonlinear junction diode, catalog values
// lifted from the teacher's device.Diode (pkg/device/diode.go): Is
// (saturation current), N (emission coefficient, folded into Vt by the
// wrapper), Bv/Ibv (reverse breakdown) and Gmin (parallel conductance
// floor preventing a singular Thevenin solve at cutoff). The actual
// per-sample nonlinear solve (Wright-omega approximation) lives in the
// WDF wrapper (pkg/wdf) — this type only carries the device constants
// (spec §12 supplement).
type Diode struct {
	Is  float64
	N   float64
	Vt  float64
	Bv  float64
	Ibv float64
	Gmin float64
}

// NewDiode returns a silicon-like diode with saturation current is, N=1,
// Vt=25.85mV (room-temperature thermal voltage), no modeled breakdown,
// Gmin=1e-12 S.
func NewDiode(is float64) Diode {
	return Diode{
		Is:   is,
		N:    1.0,
		Vt:   0.02585,
		Bv:   0,
		Ibv:  0,
		Gmin: 1e-12,
	}
}

func (Diode) Kind() Kind     { return KindDiode }
func (Diode) Terminals() int { return 2 }

func (Diode) nonlinear() {}
