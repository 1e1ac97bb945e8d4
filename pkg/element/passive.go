package element

// Capacitor is a linear two-terminal capacitor. Its WDF behavior
// (Rp=1/(2*fs*C), b<-a) lives in pkg/wdf; the catalog value only
// carries the capacitance.
type Capacitor struct {
	C float64
}

func NewCapacitor(c float64) Capacitor { return Capacitor{C: c} }
func (Capacitor) Kind() Kind           { return KindCapacitor }
func (Capacitor) Terminals() int       { return 2 }

// Inductor is a linear two-terminal inductor. Its WDF behavior
// (Rp=2*L*fs, b<--a) lives in pkg/wdf.
type Inductor struct {
	L float64
}

func NewInductor(l float64) Inductor { return Inductor{L: l} }
func (Inductor) Kind() Kind          { return KindInductor }
func (Inductor) Terminals() int      { return 2 }

// OpenCircuit is a two-terminal element with Rp=1e20 and a one-sample
// delayed reflection (spec §4.3). Inserted automatically wherever an
// output port is requested (spec §4.6); the SPQR triangle fan of a
// multi-terminal element adds graph edges only, no OpenCircuit.
type OpenCircuit struct{}

func NewOpenCircuit() OpenCircuit { return OpenCircuit{} }
func (OpenCircuit) Kind() Kind    { return KindOpenCircuit }
func (OpenCircuit) Terminals() int { return 2 }
